package perform

import (
	"math"
	"sort"

	"github.com/etnz/perform/date"
)

// Holding is one immutable input record: an entity holds a quantity of a
// security known only by its free-text name.
type Holding struct {
	Entity   string   `json:"investor"`
	Security string   `json:"security"`
	Quantity Quantity `json:"quantity"`
}

// Portfolio is an entity with its holdings: the unit of work of the
// pipeline. Investors are portfolios loaded from holdings files,
// benchmarks are portfolios derived from weights, the engine does not
// care which is which.
type Portfolio struct {
	Entity   string
	Holdings []Holding
}

// groupByEntity splits flat holding records into one portfolio per entity,
// sorted by entity name. Holdings keep their input order within an entity.
func groupByEntity(holdings []Holding) []Portfolio {
	byEntity := make(map[string]*Portfolio)
	var order []string
	for _, h := range holdings {
		p, ok := byEntity[h.Entity]
		if !ok {
			p = &Portfolio{Entity: h.Entity}
			byEntity[h.Entity] = p
			order = append(order, h.Entity)
		}
		p.Holdings = append(p.Holdings, h)
	}
	sort.Strings(order)
	portfolios := make([]Portfolio, 0, len(order))
	for _, entity := range order {
		portfolios = append(portfolios, *byEntity[entity])
	}
	return portfolios
}

// Weight is one benchmark constituent: a security and its share of the
// notional.
type Weight struct {
	Security string  `json:"security"`
	Weight   float64 `json:"weight"`
}

// BenchmarkSpec declares a benchmark as constituent weights over a
// notional amount.
type BenchmarkSpec struct {
	Name         string   `json:"name"`
	Notional     Money    `json:"notional"`
	Constituents []Weight `json:"constituents"`
}

// weightSumTolerance bounds how far constituent weights may drift from
// summing to one before the declaration is rejected.
const weightSumTolerance = 0.005

// Validate checks the benchmark declaration. A broken declaration is a
// ConfigurationError for that benchmark only.
func (b BenchmarkSpec) Validate() error {
	if b.Name == "" {
		return configErrf(b.Name, "benchmark has no name")
	}
	if !b.Notional.IsPositive() {
		return configErrf(b.Name, "notional must be positive, got %s", b.Notional)
	}
	if len(b.Constituents) == 0 {
		return configErrf(b.Name, "benchmark has no constituents")
	}
	var sum float64
	for _, w := range b.Constituents {
		if w.Security == "" {
			return configErrf(b.Name, "constituent has an empty security name")
		}
		if w.Weight <= 0 {
			return configErrf(b.Name, "constituent %q has non-positive weight %v", w.Security, w.Weight)
		}
		sum += w.Weight
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return configErrf(b.Name, "constituent weights sum to %v, want 1", sum)
	}
	return nil
}

// BenchmarkPortfolio converts a benchmark declaration into an ordinary
// portfolio: each constituent becomes a holding of
// weight * notional / price(on) units. Constituents that do not resolve or
// have no price at the start date are excluded with a recorded gap, their
// weight surfacing later as coverage below one. The result flows through
// the exact same pipeline as investor portfolios.
func BenchmarkPortfolio(spec BenchmarkSpec, on date.Date, resolver *Resolver, market *MarketData, rep *EntityReport) (Portfolio, error) {
	if err := spec.Validate(); err != nil {
		return Portfolio{}, err
	}
	p := Portfolio{Entity: spec.Name}
	for _, w := range spec.Constituents {
		res := resolver.Resolve(w.Security)
		if res.Confidence == Unresolved {
			rep.AddUnresolved(res)
			continue
		}
		if res.Confidence == Fuzzy {
			rep.AddFuzzy(res)
		}
		price, ok := market.PriceAsOf(res.ID, on)
		if !ok {
			rep.AddPriceGap(res.ID, on)
			continue
		}
		quantity := spec.Notional.Mul(Q(w.Weight)).DivPrice(price)
		p.Holdings = append(p.Holdings, Holding{
			Entity:   spec.Name,
			Security: w.Security,
			Quantity: quantity,
		})
	}
	return p, nil
}
