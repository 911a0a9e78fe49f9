package perform

import (
	"sort"

	"github.com/etnz/perform/date"
	"github.com/shopspring/decimal"
)

// PerformancePoint is one month of an entity's performance series.
// Monthly is undefined on the first point (no prior month) and Cumulative
// is recomputed from the stored values on every access, never persisted,
// so it cannot drift from value/firstValue - 1.
type PerformancePoint struct {
	Entity     string
	Month      date.Month
	On         date.Date // the valuation date that won the month bucket
	Value      Money
	Monthly    Return
	Cumulative Return
}

// point is what the tracker stores per month: cumulative is deliberately
// absent.
type point struct {
	month   date.Month
	on      date.Date
	value   Money
	monthly Return
}

// Series is an entity's month-indexed performance series, ordered by month
// ascending.
type Series struct {
	entity string
	points []point
}

// returnOf computes cur/prev - 1 as a Return. A zero previous value leaves
// the return undefined: there is no meaningful ratio from nothing.
func returnOf(cur, prev Money) Return {
	if prev.value.IsZero() {
		return Return{}
	}
	r := cur.value.Div(prev.value).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	return NewReturn(Percent(r.InexactFloat64()))
}

// Track buckets an entity's valuations into calendar months and derives
// the monthly return series.
//
// When several valuations fall in the same month the latest date wins, an
// explicit tie-break applied deterministically. The first point's monthly
// return is undefined, distinct from zero, so it never leaks into
// averages. Months without a valuation between the first and last are
// missing, not interpolated; MissingMonths lists them.
//
// Valuations of a different entity are a ConfigurationError: entities are
// never merged implicitly.
func Track(entity string, valuations []Valuation) (*Series, error) {
	if entity == "" {
		return nil, configErrf(entity, "entity has no name")
	}

	// Bucket by month, the latest valuation date wins.
	buckets := make(map[date.Month]Valuation)
	for _, v := range valuations {
		if v.Entity != entity {
			return nil, configErrf(entity, "cannot track a valuation of entity %q", v.Entity)
		}
		m := date.MonthOf(v.On)
		if prev, ok := buckets[m]; ok && v.On.Before(prev.On) {
			continue
		}
		buckets[m] = v
	}

	months := make([]date.Month, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	s := &Series{entity: entity}
	for i, m := range months {
		v := buckets[m]
		p := point{month: m, on: v.On, value: v.Value}
		if i > 0 {
			p.monthly = returnOf(v.Value, buckets[months[i-1]].Value)
		}
		s.points = append(s.points, p)
	}
	return s, nil
}

// Entity returns the entity the series belongs to.
func (s *Series) Entity() string { return s.entity }

// Len returns the number of months with data.
func (s *Series) Len() int { return len(s.points) }

// Months returns the months with data, ascending.
func (s *Series) Months() []date.Month {
	months := make([]date.Month, len(s.points))
	for i, p := range s.points {
		months[i] = p.month
	}
	return months
}

// At returns the i-th point with its cumulative return recomputed.
func (s *Series) At(i int) PerformancePoint {
	p := s.points[i]
	return PerformancePoint{
		Entity:     s.entity,
		Month:      p.month,
		On:         p.on,
		Value:      p.value,
		Monthly:    p.monthly,
		Cumulative: s.CumulativeAt(i),
	}
}

// AtMonth returns the point of the month, if the series has one.
func (s *Series) AtMonth(m date.Month) (PerformancePoint, bool) {
	i := sort.Search(len(s.points), func(i int) bool { return !s.points[i].month.Before(m) })
	if i < len(s.points) && s.points[i].month == m {
		return s.At(i), true
	}
	return PerformancePoint{}, false
}

// Points returns every point with cumulative returns recomputed.
func (s *Series) Points() []PerformancePoint {
	points := make([]PerformancePoint, len(s.points))
	for i := range s.points {
		points[i] = s.At(i)
	}
	return points
}

// CumulativeAt recomputes the cumulative return of the i-th point from the
// stored values: value[i]/value[0] - 1. It is undefined when the first
// value is zero.
func (s *Series) CumulativeAt(i int) Return {
	return returnOf(s.points[i].value, s.points[0].value)
}

// MissingMonths returns the interior months without data between the first
// and last month of the series.
func (s *Series) MissingMonths() []date.Month {
	if len(s.points) < 2 {
		return nil
	}
	var missing []date.Month
	next := 0
	for _, m := range date.Months(s.points[0].month, s.points[len(s.points)-1].month) {
		if s.points[next].month == m {
			next++
			continue
		}
		missing = append(missing, m)
	}
	return missing
}

// monthlyReturns returns the monthly return of every point, the first
// being undefined.
func (s *Series) monthlyReturns() []Return {
	returns := make([]Return, len(s.points))
	for i, p := range s.points {
		returns[i] = p.monthly
	}
	return returns
}
