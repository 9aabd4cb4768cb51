package risk

import (
	"fmt"
	"strings"
)

// Level is the three-way risk category. The zero value is Low and the
// ordering Low < Medium < High is meaningful.
type Level int

// Risk levels.
const (
	Low Level = iota
	Medium
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// MarshalText renders the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses LOW, MEDIUM or HIGH (case-insensitive).
func (l *Level) UnmarshalText(b []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(b))) {
	case "LOW":
		*l = Low
	case "MEDIUM":
		*l = Medium
	case "HIGH":
		*l = High
	default:
		return fmt.Errorf("unknown risk level %q", string(b))
	}
	return nil
}

// Color is the display colour used by the dashboard for the level.
func (l Level) Color() string {
	switch l {
	case High:
		return "red"
	case Medium:
		return "yellow"
	default:
		return "green"
	}
}

// Action is the operator response attached to a level in the alerts log.
type Action string

// Operator actions.
const (
	Monitoring Action = "Monitoring"
	Warning    Action = "Warning"
	Evacuation Action = "Evacuation"
)

// ActionFor maps a level onto its operator action.
func ActionFor(l Level) Action {
	switch l {
	case High:
		return Evacuation
	case Medium:
		return Warning
	default:
		return Monitoring
	}
}
