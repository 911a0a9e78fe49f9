package perform

import (
	"github.com/etnz/perform/date"
)

// Valuation is an entity's point-in-time value together with its price
// coverage. Coverage below one means part of the held quantity had no
// resolvable price: a data-quality flag that must stay visible, never a
// silent shrink of the portfolio.
type Valuation struct {
	Entity  string
	On      date.Date
	Value   Money
	Covered Quantity // held quantity that had a price on or before On
	Held    Quantity // total held quantity
}

// Coverage returns the covered fraction of the held quantity, in [0,1].
// An entity holding nothing has coverage 0.
func (v Valuation) Coverage() float64 {
	if v.Held.IsZero() {
		return 0
	}
	return v.Covered.Div(v.Held).AsFloat()
}

// HoldingValue is the per-holding detail behind a valuation, kept for
// reporting.
type HoldingValue struct {
	Resolved ResolvedInstrument
	Quantity Quantity
	Price    Money // zero when unpriced
	Value    Money // zero when unpriced
	Priced   bool
}

// Valuate computes the value of the holdings at a date.
//
// Each holding is resolved, then priced with the most recent close on or
// before the date. An unresolved security or a missing price excludes the
// holding from the value and from the covered quantity, with a gap
// recorded on the entity report. Gaps are normal outcomes: Valuate never
// fails because of them.
func Valuate(entity string, holdings []Holding, on date.Date, resolver *Resolver, market *MarketData, rep *EntityReport) Valuation {
	v, _ := ValuateDetail(entity, holdings, on, resolver, market, rep)
	return v
}

// ValuateDetail is Valuate returning the per-holding detail lines as well.
func ValuateDetail(entity string, holdings []Holding, on date.Date, resolver *Resolver, market *MarketData, rep *EntityReport) (Valuation, []HoldingValue) {
	v := Valuation{
		Entity: entity,
		On:     on,
		Value:  M(0, market.Currency()),
	}
	details := make([]HoldingValue, 0, len(holdings))

	for _, h := range holdings {
		v.Held = v.Held.Add(h.Quantity)
		detail := HoldingValue{Quantity: h.Quantity}

		res := resolver.Resolve(h.Security)
		detail.Resolved = res
		switch res.Confidence {
		case Unresolved:
			rep.AddUnresolved(res)
			details = append(details, detail)
			continue
		case Fuzzy:
			rep.AddFuzzy(res)
		}

		price, ok := market.PriceAsOf(res.ID, on)
		if !ok {
			rep.AddPriceGap(res.ID, on)
			details = append(details, detail)
			continue
		}

		detail.Price = price
		detail.Value = price.Mul(h.Quantity)
		detail.Priced = true
		details = append(details, detail)

		v.Value = v.Value.Add(detail.Value)
		v.Covered = v.Covered.Add(h.Quantity)
	}

	rep.AddCoverage(on, v.Coverage())
	return v, details
}
