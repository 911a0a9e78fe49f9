package perform

import (
	"testing"

	"github.com/etnz/perform/date"
)

func TestGroupByEntity(t *testing.T) {
	holdings := []Holding{
		{Entity: "bob", Security: "TCS", Quantity: Q(5)},
		{Entity: "alice", Security: "HDFC Bank", Quantity: Q(10)},
		{Entity: "bob", Security: "HDFC Bank", Quantity: Q(2)},
	}

	portfolios := groupByEntity(holdings)
	if len(portfolios) != 2 {
		t.Fatalf("groupByEntity() = %d portfolios, want 2", len(portfolios))
	}
	// Entities are sorted, holdings keep file order within an entity.
	if portfolios[0].Entity != "alice" || portfolios[1].Entity != "bob" {
		t.Errorf("entities = %q, %q, want alice, bob", portfolios[0].Entity, portfolios[1].Entity)
	}
	bob := portfolios[1]
	if len(bob.Holdings) != 2 || bob.Holdings[0].Security != "TCS" || bob.Holdings[1].Security != "HDFC Bank" {
		t.Errorf("bob holdings out of input order: %v", bob.Holdings)
	}
}

func TestValidatePortfolio(t *testing.T) {
	testCases := []struct {
		name      string
		p         Portfolio
		expectErr bool
	}{
		{
			name: "Valid",
			p: Portfolio{Entity: "alice", Holdings: []Holding{
				{Entity: "alice", Security: "HDFC Bank", Quantity: Q(10)},
			}},
			expectErr: false,
		},
		{
			name: "Zero quantity is allowed",
			p: Portfolio{Entity: "alice", Holdings: []Holding{
				{Entity: "alice", Security: "HDFC Bank", Quantity: Q(0)},
			}},
			expectErr: false,
		},
		{
			name:      "No name",
			p:         Portfolio{Entity: "  ", Holdings: []Holding{{Security: "HDFC Bank", Quantity: Q(1)}}},
			expectErr: true,
		},
		{
			name:      "No holdings",
			p:         Portfolio{Entity: "alice"},
			expectErr: true,
		},
		{
			name: "Blank security name",
			p: Portfolio{Entity: "alice", Holdings: []Holding{
				{Entity: "alice", Security: " ", Quantity: Q(1)},
			}},
			expectErr: true,
		},
		{
			name: "Negative quantity",
			p: Portfolio{Entity: "alice", Holdings: []Holding{
				{Entity: "alice", Security: "HDFC Bank", Quantity: Q(-1)},
			}},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePortfolio(tc.p)
			hasErr := err != nil

			if hasErr != tc.expectErr {
				t.Errorf("ValidatePortfolio(%q) returned error: %v, want error: %v", tc.p.Entity, err, tc.expectErr)
			}
		})
	}
}

func TestBenchmarkSpecValidate(t *testing.T) {
	valid := BenchmarkSpec{
		Name:     "NIFTY 50",
		Notional: M(100000, "INR"),
		Constituents: []Weight{
			{Security: "HDFC Bank", Weight: 0.6},
			{Security: "Tata Consultancy Services", Weight: 0.4},
		},
	}

	testCases := []struct {
		name      string
		mutate    func(*BenchmarkSpec)
		expectErr bool
	}{
		{"Valid", func(b *BenchmarkSpec) {}, false},
		{"Weights within tolerance", func(b *BenchmarkSpec) {
			b.Constituents[0].Weight = 0.601
		}, false},
		{"No name", func(b *BenchmarkSpec) { b.Name = "" }, true},
		{"Zero notional", func(b *BenchmarkSpec) { b.Notional = M(0, "INR") }, true},
		{"Negative notional", func(b *BenchmarkSpec) { b.Notional = M(-1, "INR") }, true},
		{"No constituents", func(b *BenchmarkSpec) { b.Constituents = nil }, true},
		{"Blank constituent", func(b *BenchmarkSpec) { b.Constituents[0].Security = "" }, true},
		{"Non-positive weight", func(b *BenchmarkSpec) { b.Constituents[0].Weight = 0 }, true},
		{"Weights sum too low", func(b *BenchmarkSpec) { b.Constituents[0].Weight = 0.5 }, true},
		{"Weights sum too high", func(b *BenchmarkSpec) { b.Constituents[0].Weight = 0.7 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := valid
			spec.Constituents = append([]Weight(nil), valid.Constituents...)
			tc.mutate(&spec)

			err := spec.Validate()
			hasErr := err != nil

			if hasErr != tc.expectErr {
				t.Errorf("Validate() returned error: %v, want error: %v", err, tc.expectErr)
			}
		})
	}
}

func TestBenchmarkPortfolio(t *testing.T) {
	r := NewResolver(testRegistry(t), 0)
	m := NewMarketData("INR")
	m.Add("HDFCBANK.NSE", date.New(2024, 4, 1), 100)
	m.Add("TCS.NSE", date.New(2024, 3, 28), 200)

	spec := BenchmarkSpec{
		Name:     "MIX",
		Notional: M(1000, "INR"),
		Constituents: []Weight{
			{Security: "HDFC Bank", Weight: 0.6},
			{Security: "Tata Consultancy Services", Weight: 0.4},
		},
	}
	rep := NewEntityReport("MIX")
	p, err := BenchmarkPortfolio(spec, date.New(2024, 4, 1), r, m, rep)
	if err != nil {
		t.Fatalf("BenchmarkPortfolio() returned error: %v", err)
	}

	// 600 at 100 buys 6 shares, 400 at the March 28th close of 200 buys 2.
	if len(p.Holdings) != 2 {
		t.Fatalf("holdings = %d, want 2", len(p.Holdings))
	}
	if !p.Holdings[0].Quantity.Equal(Q(6)) {
		t.Errorf("HDFC quantity = %s, want 6", p.Holdings[0].Quantity)
	}
	if !p.Holdings[1].Quantity.Equal(Q(2)) {
		t.Errorf("TCS quantity = %s, want 2", p.Holdings[1].Quantity)
	}
	if p.Entity != "MIX" || p.Holdings[0].Entity != "MIX" {
		t.Errorf("holdings belong to %q/%q, want MIX", p.Entity, p.Holdings[0].Entity)
	}
}

func TestBenchmarkPortfolioGaps(t *testing.T) {
	r := NewResolver(testRegistry(t), 0)
	m := NewMarketData("INR")
	m.Add("HDFCBANK.NSE", date.New(2024, 4, 1), 100)

	spec := BenchmarkSpec{
		Name:     "MIX",
		Notional: M(1000, "INR"),
		Constituents: []Weight{
			{Security: "HDFC Bank", Weight: 0.5},
			{Security: "No Such Index", Weight: 0.3},
			{Security: "NIFTY 50", Weight: 0.2}, // resolves, no price yet
		},
	}
	rep := NewEntityReport("MIX")
	p, err := BenchmarkPortfolio(spec, date.New(2024, 4, 1), r, m, rep)
	if err != nil {
		t.Fatalf("BenchmarkPortfolio() returned error: %v", err)
	}

	// Only the priceable constituent becomes a holding; the other two are
	// recorded gaps whose weight will surface as coverage below one.
	if len(p.Holdings) != 1 || p.Holdings[0].Security != "HDFC Bank" {
		t.Fatalf("holdings = %v, want only HDFC Bank", p.Holdings)
	}
	if len(rep.Unresolved) != 1 || rep.Unresolved[0].Name != "No Such Index" {
		t.Errorf("unresolved = %v, want the unknown constituent", rep.Unresolved)
	}
	if len(rep.PriceGaps) != 1 || rep.PriceGaps[0].ID != "NSEI.INDX" {
		t.Errorf("price gaps = %v, want the unpriced index", rep.PriceGaps)
	}
}

func TestBenchmarkPortfolioRejectsBrokenSpec(t *testing.T) {
	r := NewResolver(testRegistry(t), 0)
	m := NewMarketData("INR")
	rep := NewEntityReport("BROKEN")

	spec := BenchmarkSpec{Name: "BROKEN", Notional: M(1000, "INR")}
	if _, err := BenchmarkPortfolio(spec, date.New(2024, 4, 1), r, m, rep); err == nil {
		t.Errorf("BenchmarkPortfolio() accepted a spec without constituents, want error")
	}
}
