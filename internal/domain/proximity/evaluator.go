package proximity

import (
	"sort"

	"github.com/okian/bhoomi/internal/domain/model"
)

// Assessment is the per-entity outcome of one evaluation.
type Assessment struct {
	EntityID    string            `json:"entity_id"`
	Position    model.GeoPosition `json:"position"`
	Distance    float64           `json:"distance"`
	InZone      bool              `json:"in_zone"`
	Approaching bool              `json:"approaching"`
}

// Report aggregates one tick of assessments into flagged id lists.
type Report struct {
	Assessments []Assessment `json:"assessments"`
	InZone      []string     `json:"in_zone"`
	Approaching []string     `json:"approaching"`
}

// Evaluator checks tracks against a single zone. It holds no mutable state.
type Evaluator struct {
	zone Zone
}

// NewEvaluator binds an evaluator to zone.
func NewEvaluator(zone Zone) *Evaluator {
	return &Evaluator{zone: zone}
}

// Zone returns the zone the evaluator checks against.
func (e *Evaluator) Zone() Zone { return e.zone }

// Evaluate assesses every track's current position. Output lists are sorted
// by entity id so identical input gives identical output.
func (e *Evaluator) Evaluate(tracks []model.Track) Report {
	r := Report{
		Assessments: make([]Assessment, 0, len(tracks)),
		InZone:      []string{},
		Approaching: []string{},
	}
	center := e.zone.Center()
	for _, t := range tracks {
		a := Assessment{
			EntityID:    t.EntityID,
			Position:    t.Current,
			Distance:    e.distance(t.Current, center),
			InZone:      e.zone.Contains(t.Current),
			Approaching: e.zone.Approaching(t.Previous, t.Current),
		}
		r.Assessments = append(r.Assessments, a)
		if a.InZone {
			r.InZone = append(r.InZone, a.EntityID)
		}
		if a.Approaching {
			r.Approaching = append(r.Approaching, a.EntityID)
		}
	}
	sort.Slice(r.Assessments, func(i, j int) bool { return r.Assessments[i].EntityID < r.Assessments[j].EntityID })
	sort.Strings(r.InZone)
	sort.Strings(r.Approaching)
	return r
}

// distance is kilometres for circular zones and grid units otherwise.
func (e *Evaluator) distance(p, center model.GeoPosition) float64 {
	if e.zone.Shape() == ShapeGrid {
		return planarDistance(p, center)
	}
	return DistanceKM(p, center)
}
