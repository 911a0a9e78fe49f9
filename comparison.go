package perform

import (
	"sort"

	"github.com/etnz/perform/date"
)

// ComparisonRow is one (month, entity) cell of the aligned comparison. An
// entity without data for a month has no row that month: absence never
// shrinks the shared timeline, it is simply visible.
type ComparisonRow struct {
	Month      date.Month
	Entity     string
	Value      Money
	Cumulative Return
	// Rank is the competition rank among entities with data that month:
	// 1 + the number of entities with strictly greater cumulative return,
	// ties sharing the rank. It is 0 when the cumulative return is
	// undefined and the entity cannot be ranked.
	Rank int
	// Alpha is the cumulative return difference against each benchmark,
	// undefined when the benchmark has no data that month, never zero.
	Alpha map[string]Return
}

// Compare aligns every entity's series on the union of all months and
// derives rank and alpha per row. Rows are ordered by month then entity,
// deterministically. Two series for the same entity are a
// ConfigurationError: entities are never merged implicitly.
func Compare(series []*Series, benchmarks []string) ([]ComparisonRow, error) {
	byEntity := make(map[string]*Series, len(series))
	for _, s := range series {
		if _, dup := byEntity[s.entity]; dup {
			return nil, configErrf(s.entity, "duplicate series for entity")
		}
		byEntity[s.entity] = s
	}

	// Union of months across all entities: the outer join.
	monthSet := make(map[date.Month]struct{})
	for _, s := range series {
		for _, m := range s.Months() {
			monthSet[m] = struct{}{}
		}
	}
	months := make([]date.Month, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	entities := make([]string, 0, len(byEntity))
	for e := range byEntity {
		entities = append(entities, e)
	}
	sort.Strings(entities)

	var rows []ComparisonRow
	for _, m := range months {
		// Collect the cumulative returns of entities with data this month.
		type cell struct {
			entity string
			point  PerformancePoint
		}
		var cells []cell
		for _, e := range entities {
			if p, ok := byEntity[e].AtMonth(m); ok {
				cells = append(cells, cell{entity: e, point: p})
			}
		}

		for _, c := range cells {
			row := ComparisonRow{
				Month:      m,
				Entity:     c.entity,
				Value:      c.point.Value,
				Cumulative: c.point.Cumulative,
				Alpha:      make(map[string]Return, len(benchmarks)),
			}

			if cum, ok := c.point.Cumulative.Percent(); ok {
				rank := 1
				for _, o := range cells {
					if ocum, ok := o.point.Cumulative.Percent(); ok && ocum > cum {
						rank++
					}
				}
				row.Rank = rank
			}

			for _, b := range benchmarks {
				var bcum Return
				if bs, ok := byEntity[b]; ok {
					if bp, ok := bs.AtMonth(m); ok {
						bcum = bp.Cumulative
					}
				}
				row.Alpha[b] = c.point.Cumulative.Sub(bcum)
			}

			rows = append(rows, row)
		}
	}
	return rows, nil
}
