package perform

import (
	"sort"
	"time"

	"github.com/etnz/perform/date"
	"github.com/google/uuid"
)

// ResolutionGap records a security name that could not be mapped to an
// instrument, with the best near miss so the registry can be fixed.
type ResolutionGap struct {
	Name  string  `json:"name"`
	Best  string  `json:"best,omitempty"`
	Score float64 `json:"score,omitempty"`
}

// ResolutionNote records a name that resolved fuzzily: accepted, but worth
// a human look.
type ResolutionNote struct {
	Name    string  `json:"name"`
	ID      ID      `json:"id"`
	Matched string  `json:"matched"`
	Score   float64 `json:"score"`
}

// PriceGap records an instrument that resolved but had no price on or
// before a required date.
type PriceGap struct {
	ID ID        `json:"id"`
	On date.Date `json:"on"`
}

// CoveragePoint is one step of an entity's coverage trail: which fraction
// of its held quantity was priceable at that date.
type CoveragePoint struct {
	On       date.Date `json:"on"`
	Fraction float64   `json:"fraction"`
}

// EntityReport accumulates every data-quality finding for one entity. It
// is built by a single worker and merged afterwards, so it needs no lock.
type EntityReport struct {
	Entity        string           `json:"entity"`
	Unresolved    []ResolutionGap  `json:"unresolved,omitempty"`
	FuzzyMatches  []ResolutionNote `json:"fuzzy,omitempty"`
	PriceGaps     []PriceGap       `json:"priceGaps,omitempty"`
	MissingMonths []date.Month     `json:"missingMonths,omitempty"`
	Coverage      []CoveragePoint  `json:"coverage,omitempty"`
	Err           string           `json:"error,omitempty"` // terminal configuration failure
}

// NewEntityReport returns an empty report for the entity.
func NewEntityReport(entity string) *EntityReport { return &EntityReport{Entity: entity} }

// AddUnresolved records an unresolved name once: valuations run on many
// dates, the same unresolved holding must not pile up.
func (r *EntityReport) AddUnresolved(res ResolvedInstrument) {
	for _, g := range r.Unresolved {
		if g.Name == res.Name {
			return
		}
	}
	r.Unresolved = append(r.Unresolved, ResolutionGap{Name: res.Name, Best: res.Matched, Score: res.Score})
}

// AddFuzzy records a fuzzily accepted resolution once per name.
func (r *EntityReport) AddFuzzy(res ResolvedInstrument) {
	for _, n := range r.FuzzyMatches {
		if n.Name == res.Name {
			return
		}
	}
	r.FuzzyMatches = append(r.FuzzyMatches, ResolutionNote{Name: res.Name, ID: res.ID, Matched: res.Matched, Score: res.Score})
}

// AddPriceGap records a missing price for one (instrument, date) lookup.
func (r *EntityReport) AddPriceGap(id ID, on date.Date) {
	for _, g := range r.PriceGaps {
		if g.ID == id && g.On == on {
			return
		}
	}
	r.PriceGaps = append(r.PriceGaps, PriceGap{ID: id, On: on})
}

// AddCoverage appends one point to the coverage trail.
func (r *EntityReport) AddCoverage(on date.Date, fraction float64) {
	r.Coverage = append(r.Coverage, CoveragePoint{On: on, Fraction: fraction})
}

// HasGaps reports whether anything at all was recorded.
func (r *EntityReport) HasGaps() bool {
	return len(r.Unresolved) > 0 || len(r.FuzzyMatches) > 0 || len(r.PriceGaps) > 0 ||
		len(r.MissingMonths) > 0 || r.Err != ""
}

// Report is the gap report of a whole run: every data-quality finding,
// returned alongside the results and never instead of them.
type Report struct {
	RunID    string    `json:"runId"`
	Created  time.Time `json:"created"`
	entities map[string]*EntityReport
}

// NewReport returns an empty report with a fresh run id.
func NewReport() *Report {
	return &Report{
		RunID:    uuid.NewString(),
		Created:  time.Now().UTC(),
		entities: make(map[string]*EntityReport),
	}
}

// Entity returns the report of the entity, creating it if needed.
func (r *Report) Entity(entity string) *EntityReport {
	er, ok := r.entities[entity]
	if !ok {
		er = NewEntityReport(entity)
		r.entities[entity] = er
	}
	return er
}

// Merge attaches a worker-built entity report, replacing any previous
// report for the same entity.
func (r *Report) Merge(er *EntityReport) { r.entities[er.Entity] = er }

// Entities returns every entity report sorted by entity name for stable
// output.
func (r *Report) Entities() []*EntityReport {
	list := make([]*EntityReport, 0, len(r.entities))
	for _, er := range r.entities {
		list = append(list, er)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Entity < list[j].Entity })
	return list
}

// HasGaps reports whether any entity recorded anything.
func (r *Report) HasGaps() bool {
	for _, er := range r.entities {
		if er.HasGaps() {
			return true
		}
	}
	return false
}
