package perform

import (
	"testing"

	"github.com/etnz/perform/date"
)

// valuationFixture wires the resolver and market most valuation tests
// share: HDFC Bank is priced, NIFTY 50 resolves but has no close yet.
func valuationFixture(t *testing.T) (*Resolver, *MarketData) {
	t.Helper()
	r := NewResolver(testRegistry(t), 0)
	m := NewMarketData("INR")
	if err := m.Add("HDFCBANK.NSE", date.New(2024, 4, 15), 100); err != nil {
		t.Fatal(err)
	}
	return r, m
}

func TestValuate(t *testing.T) {
	r, m := valuationFixture(t)
	holdings := []Holding{
		{Entity: "alice", Security: "HDFC Bank", Quantity: Q(10)},
		{Entity: "alice", Security: "Unknown Widgets", Quantity: Q(5)},
		{Entity: "alice", Security: "NIFTY 50", Quantity: Q(5)},
	}
	rep := NewEntityReport("alice")
	on := date.New(2024, 4, 30)

	v := Valuate("alice", holdings, on, r, m, rep)

	// Only HDFC Bank contributes: resolved and priced on or before the
	// valuation date.
	if !v.Value.Equal(M(1000, "INR")) {
		t.Errorf("Valuate() value = %s, want %s", v.Value, M(1000, "INR"))
	}
	if !v.Held.Equal(Q(20)) {
		t.Errorf("Valuate() held = %s, want 20", v.Held)
	}
	if !v.Covered.Equal(Q(10)) {
		t.Errorf("Valuate() covered = %s, want 10", v.Covered)
	}
	if got := v.Coverage(); got != 0.5 {
		t.Errorf("Coverage() = %v, want 0.5", got)
	}

	// The excluded holdings surface as gaps, never as silent shrinkage.
	if len(rep.Unresolved) != 1 || rep.Unresolved[0].Name != "Unknown Widgets" {
		t.Errorf("report unresolved = %v, want the one unknown name", rep.Unresolved)
	}
	if len(rep.PriceGaps) != 1 || rep.PriceGaps[0].ID != "NSEI.INDX" || rep.PriceGaps[0].On != on {
		t.Errorf("report price gaps = %v, want NSEI.INDX on %s", rep.PriceGaps, on)
	}
	if len(rep.Coverage) != 1 || rep.Coverage[0].Fraction != 0.5 {
		t.Errorf("report coverage trail = %v, want one point at 0.5", rep.Coverage)
	}
}

func TestValuateDetail(t *testing.T) {
	r, m := valuationFixture(t)
	holdings := []Holding{
		{Entity: "alice", Security: "HDFC Bank", Quantity: Q(10)},
		{Entity: "alice", Security: "Unknown Widgets", Quantity: Q(5)},
	}
	rep := NewEntityReport("alice")

	_, details := ValuateDetail("alice", holdings, date.New(2024, 4, 30), r, m, rep)
	if len(details) != 2 {
		t.Fatalf("ValuateDetail() returned %d details, want 2", len(details))
	}
	if !details[0].Priced || !details[0].Value.Equal(M(1000, "INR")) {
		t.Errorf("detail[0] = priced %v value %s, want priced 1000", details[0].Priced, details[0].Value)
	}
	if details[1].Priced || details[1].Resolved.Confidence != Unresolved {
		t.Errorf("detail[1] = priced %v confidence %v, want an unpriced unresolved line", details[1].Priced, details[1].Resolved.Confidence)
	}
}

func TestValuateGapsRecordedOnce(t *testing.T) {
	r, m := valuationFixture(t)
	holdings := []Holding{
		{Entity: "alice", Security: "Unknown Widgets", Quantity: Q(5)},
	}
	rep := NewEntityReport("alice")

	// Valuing on many dates must not pile up the same unresolved name.
	Valuate("alice", holdings, date.New(2024, 4, 30), r, m, rep)
	Valuate("alice", holdings, date.New(2024, 5, 31), r, m, rep)

	if len(rep.Unresolved) != 1 {
		t.Errorf("report unresolved = %v, want the name recorded once", rep.Unresolved)
	}
	if len(rep.Coverage) != 2 {
		t.Errorf("report coverage trail has %d points, want one per valuation date", len(rep.Coverage))
	}
}

func TestValuateRepeatedSecurity(t *testing.T) {
	r, m := valuationFixture(t)

	// The same security twice sums quantities, it is not an error.
	holdings := []Holding{
		{Entity: "alice", Security: "HDFC Bank", Quantity: Q(10)},
		{Entity: "alice", Security: "HDFCBANK", Quantity: Q(2)},
	}
	rep := NewEntityReport("alice")
	v := Valuate("alice", holdings, date.New(2024, 4, 30), r, m, rep)
	if !v.Value.Equal(M(1200, "INR")) {
		t.Errorf("Valuate() value = %s, want %s", v.Value, M(1200, "INR"))
	}
	if got := v.Coverage(); got != 1 {
		t.Errorf("Coverage() = %v, want 1", got)
	}
}

func TestCoverageZeroWhenNothingHeld(t *testing.T) {
	r, m := valuationFixture(t)
	rep := NewEntityReport("alice")
	v := Valuate("alice", nil, date.New(2024, 4, 30), r, m, rep)
	if got := v.Coverage(); got != 0 {
		t.Errorf("Coverage() of an empty valuation = %v, want 0", got)
	}
	if !v.Value.IsZero() {
		t.Errorf("Valuate() of no holdings = %s, want zero", v.Value)
	}
}

func TestValuateFuzzyHoldingIsPricedAndNoted(t *testing.T) {
	r, m := valuationFixture(t)
	if err := m.Add("TCS.NSE", date.New(2024, 4, 15), 200); err != nil {
		t.Fatal(err)
	}
	holdings := []Holding{
		{Entity: "alice", Security: "Tata Consultancy Service", Quantity: Q(5)},
	}
	rep := NewEntityReport("alice")
	v := Valuate("alice", holdings, date.New(2024, 4, 30), r, m, rep)

	if !v.Value.Equal(M(1000, "INR")) {
		t.Errorf("Valuate() value = %s, want %s", v.Value, M(1000, "INR"))
	}
	if len(rep.FuzzyMatches) != 1 || rep.FuzzyMatches[0].ID != "TCS.NSE" {
		t.Errorf("report fuzzy notes = %v, want the accepted match noted for review", rep.FuzzyMatches)
	}
}
