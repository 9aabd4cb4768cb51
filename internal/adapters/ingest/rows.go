// Package ingest reads and writes observation files (CSV and XLSX).
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/rotisserie/eris"
)

// Header is the canonical column order written by WriteCSV and WriteXLSX.
var Header = []string{"Timestamp", "Vibration", "Slope", "Weather", "Risk"}

type column int

const (
	colTimestamp column = iota
	colVibration
	colSlope
	colWeather
	colRisk
	numColumns
)

var columnNames = map[string]column{
	"timestamp":   colTimestamp,
	"time":        colTimestamp,
	"vibration":   colVibration,
	"slope":       colSlope,
	"slope_angle": colSlope,
	"slopeangle":  colSlope,
	"slope angle": colSlope,
	"weather":     colWeather,
	"risk":        colRisk,
}

// layout maps each required column onto its index in a row. fields is the
// header width every data row must match.
type layout struct {
	cols   [numColumns]int
	fields int
}

func parseHeader(header []string) (layout, error) {
	l := layout{fields: len(header)}
	for i := range l.cols {
		l.cols[i] = -1
	}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if c, ok := columnNames[key]; ok && l.cols[c] < 0 {
			l.cols[c] = i
		}
	}

	var missing []string
	for c, idx := range l.cols {
		if idx < 0 {
			missing = append(missing, Header[c])
		}
	}
	if len(missing) > 0 {
		return l, fmt.Errorf("%w: header %v is missing column(s) %s",
			ErrMalformed, header, strings.Join(missing, ","))
	}
	return l, nil
}

func (l layout) parse(row []string, line int) (model.Observation, error) {
	if len(row) != l.fields {
		return model.Observation{}, fmt.Errorf("%w: line %d: expected %d fields, got %d",
			ErrMalformed, line, l.fields, len(row))
	}
	field := func(c column) string { return strings.TrimSpace(row[l.cols[c]]) }

	vib, err := strconv.ParseFloat(field(colVibration), 64)
	if err != nil {
		return model.Observation{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, eris.Wrap(err, "vibration"))
	}
	slope, err := strconv.ParseFloat(field(colSlope), 64)
	if err != nil {
		return model.Observation{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, eris.Wrap(err, "slope"))
	}
	risk, err := strconv.Atoi(field(colRisk))
	if err != nil {
		return model.Observation{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, eris.Wrap(err, "risk"))
	}
	weather, err := model.ParseWeather(field(colWeather))
	if err != nil {
		return model.Observation{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
	}

	obs := model.Observation{
		Timestamp:  field(colTimestamp),
		Vibration:  vib,
		SlopeAngle: slope,
		Weather:    weather,
		Risk:       risk,
	}
	if err := obs.Validate(); err != nil {
		return model.Observation{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
	}
	return obs, nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseRows treats rows[0] as the header. Line numbers are 1-based. With
// padShort, rows narrower than the header are filled with empty fields;
// spreadsheets drop trailing empty cells.
func parseRows(rows [][]string, padShort bool) ([]model.Observation, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformed)
	}
	l, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]model.Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		if padShort && len(row) < l.fields {
			row = append(row, make([]string, l.fields-len(row))...)
		}
		obs, err := l.parse(row, i+2)
		if err != nil {
			return nil, err
		}
		out = append(out, obs)
	}
	return out, nil
}

func formatRow(o model.Observation) []string {
	return []string{
		o.Timestamp,
		strconv.FormatFloat(o.Vibration, 'f', -1, 64),
		strconv.FormatFloat(o.SlopeAngle, 'f', -1, 64),
		string(o.Weather),
		strconv.Itoa(o.Risk),
	}
}
