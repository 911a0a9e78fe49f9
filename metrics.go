package perform

import (
	"math"

	"github.com/etnz/perform/date"
)

// Direction qualifies an entity's latest defined monthly move.
type Direction int8

const (
	// NoDirection means the series has no defined monthly return yet.
	NoDirection Direction = iota
	Rise
	Fall
	Flat
)

func (d Direction) String() string {
	switch d {
	case Rise:
		return "rise"
	case Fall:
		return "fall"
	case Flat:
		return "flat"
	default:
		return "n/a"
	}
}

// MonthReturn pairs a month with its monthly return, for best and worst
// month reporting.
type MonthReturn struct {
	Month  date.Month
	Return Return
}

// volatilityWindow is the number of consecutive months the rolling
// standard deviation is computed over.
const volatilityWindow = 3

// Metrics summarizes one entity's series over its own available months
// only. An entity with fewer than two months has every derived metric
// undefined: not applicable, never a fabricated zero.
type Metrics struct {
	Entity         string
	Months         int
	First, Last    date.Month
	Cumulative     Return // cumulative return at the latest month
	AverageMonthly Return // mean of the defined monthly returns
	// Volatility is the sample standard deviation of the monthly returns
	// over the latest volatilityWindow consecutive months, undefined when
	// the series has no such window.
	Volatility Return
	// MaxDrawdown is the maximum peak-to-trough decline of the
	// cumulative+1 curve, zero or negative when defined.
	MaxDrawdown Return
	Best, Worst MonthReturn
	Direction   Direction
	// Outperformed counts the months where the entity's cumulative return
	// strictly beat each benchmark's, over months where both have data.
	Outperformed map[string]int
}

// Summarize derives the per-entity metrics of a series, measuring against
// the given benchmark series.
func Summarize(s *Series, benchmarks []*Series) Metrics {
	m := Metrics{
		Entity:       s.entity,
		Months:       s.Len(),
		Outperformed: make(map[string]int),
	}
	if s.Len() == 0 {
		return m
	}
	m.First = s.points[0].month
	m.Last = s.points[len(s.points)-1].month
	m.Cumulative = s.CumulativeAt(s.Len() - 1)

	returns := s.monthlyReturns()

	// Average, best and worst over the defined monthly returns only:
	// missing months never deflate an average.
	var sum Percent
	var count int
	for i, r := range returns {
		p, ok := r.Percent()
		if !ok {
			continue
		}
		sum += p
		count++
		if best, ok := m.Best.Return.Percent(); !ok || p > best {
			m.Best = MonthReturn{Month: s.points[i].month, Return: r}
		}
		if worst, ok := m.Worst.Return.Percent(); !ok || p < worst {
			m.Worst = MonthReturn{Month: s.points[i].month, Return: r}
		}
	}
	if count > 0 {
		m.AverageMonthly = NewReturn(sum / Percent(count))
	}

	// Direction of the latest defined monthly return.
	for i := len(returns) - 1; i >= 0; i-- {
		if p, ok := returns[i].Percent(); ok {
			switch {
			case p.Equal(0):
				m.Direction = Flat
			case p > 0:
				m.Direction = Rise
			default:
				m.Direction = Fall
			}
			break
		}
	}

	m.Volatility = s.volatility()
	m.MaxDrawdown = s.maxDrawdown()

	for _, b := range benchmarks {
		if b.entity == s.entity {
			continue
		}
		m.Outperformed[b.entity] = outperformedMonths(s, b)
	}
	return m
}

// volatility returns the sample standard deviation of the monthly returns
// over the latest window of volatilityWindow calendar-consecutive months
// with defined returns, undefined when no such window exists.
func (s *Series) volatility() Return {
	returns := s.monthlyReturns()
	for end := len(returns) - 1; end >= volatilityWindow-1; end-- {
		window := make([]float64, 0, volatilityWindow)
		for k := end - volatilityWindow + 1; k <= end; k++ {
			p, ok := returns[k].Percent()
			if !ok {
				break
			}
			if k > end-volatilityWindow+1 && s.points[k-1].month.Next() != s.points[k].month {
				break
			}
			window = append(window, float64(p))
		}
		if len(window) < volatilityWindow {
			continue
		}
		var mean float64
		for _, v := range window {
			mean += v
		}
		mean /= float64(len(window))
		var ss float64
		for _, v := range window {
			ss += (v - mean) * (v - mean)
		}
		std := math.Sqrt(ss / float64(len(window)-1))
		return NewReturn(Percent(std))
	}
	return Return{}
}

// maxDrawdown returns the deepest peak-to-trough decline of the
// cumulative+1 curve, undefined with fewer than two defined cumulative
// points.
func (s *Series) maxDrawdown() Return {
	var peak float64
	var worst float64
	var seen int
	for i := range s.points {
		cum, ok := s.CumulativeAt(i).Percent()
		if !ok {
			continue
		}
		growth := 1 + float64(cum)/100
		seen++
		if growth > peak {
			peak = growth
		}
		if peak == 0 {
			continue // a total loss from the start has no measurable trough
		}
		if dd := growth/peak - 1; dd < worst {
			worst = dd
		}
	}
	if seen < 2 {
		return Return{}
	}
	return NewReturn(Percent(worst * 100))
}

// outperformedMonths counts the months where s's cumulative return
// strictly beats b's, over the months where both have data.
func outperformedMonths(s, b *Series) int {
	var n int
	for i := range s.points {
		cum, ok := s.CumulativeAt(i).Percent()
		if !ok {
			continue
		}
		bp, ok := b.AtMonth(s.points[i].month)
		if !ok {
			continue
		}
		bcum, ok := bp.Cumulative.Percent()
		if !ok {
			continue
		}
		if cum > bcum {
			n++
		}
	}
	return n
}
