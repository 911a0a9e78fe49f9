package perform

import (
	"path/filepath"
	"testing"

	"github.com/etnz/perform/date"
)

func TestWorkspaceRoundTrip(t *testing.T) {
	ws := NewWorkspace(filepath.Join(t.TempDir(), "data"), "INR")

	// A workspace that does not exist yet reads as empty everywhere.
	reg, err := ws.Registry()
	if err != nil {
		t.Fatalf("Registry() on a fresh workspace returned error: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("Registry() on a fresh workspace has %d instruments, want 0", reg.Len())
	}
	if portfolios, err := ws.Portfolios(); err != nil || len(portfolios) != 0 {
		t.Fatalf("Portfolios() on a fresh workspace = %v, %v, want empty", portfolios, err)
	}
	if specs, err := ws.Benchmarks(); err != nil || len(specs) != 0 {
		t.Fatalf("Benchmarks() on a fresh workspace = %v, %v, want empty", specs, err)
	}
	if market, err := ws.Market(); err != nil || len(market.IDs()) != 0 {
		t.Fatalf("Market() on a fresh workspace = %v, %v, want empty", market, err)
	}

	// Fill every store and save.
	hdfc, _ := NewInstrument("HDFCBANK.NSE", "HDFC Bank", "HDFC Bank Ltd")
	reg.Add(hdfc)
	if err := ws.SaveRegistry(reg); err != nil {
		t.Fatalf("SaveRegistry() returned error: %v", err)
	}

	market := NewMarketData("INR")
	market.Add("HDFCBANK.NSE", date.New(2024, 4, 30), 1514.2)
	if err := ws.SaveMarket(market); err != nil {
		t.Fatalf("SaveMarket() returned error: %v", err)
	}

	portfolios := []Portfolio{{Entity: "alice", Holdings: []Holding{
		{Entity: "alice", Security: "HDFC Bank", Quantity: Q(10)},
	}}}
	if err := ws.SavePortfolios(portfolios); err != nil {
		t.Fatalf("SavePortfolios() returned error: %v", err)
	}

	specs := []BenchmarkSpec{{
		Name:         "NIFTY 50",
		Notional:     M(100000, "INR"),
		Constituents: []Weight{{Security: "NIFTY 50", Weight: 1}},
	}}
	if err := ws.SaveBenchmarks(specs); err != nil {
		t.Fatalf("SaveBenchmarks() returned error: %v", err)
	}

	// A second workspace over the same folder reads everything back.
	back := NewWorkspace(ws.Path(), ws.Currency())
	reg2, err := back.Registry()
	if err != nil {
		t.Fatalf("Registry() returned error: %v", err)
	}
	if ins, ok := reg2.Find("HDFCBANK"); !ok || ins.Name() != "HDFC Bank" || len(ins.Aliases()) != 1 {
		t.Errorf("Find(HDFCBANK) after reload = %v %v, want the saved instrument", ins, ok)
	}

	market2, err := back.Market()
	if err != nil {
		t.Fatalf("Market() returned error: %v", err)
	}
	if market2.Currency() != "INR" {
		t.Errorf("Currency() = %q, want INR", market2.Currency())
	}
	if price, ok := market2.PriceAsOf("HDFCBANK.NSE", date.New(2024, 5, 15)); !ok || !price.Equal(M(1514.2, "INR")) {
		t.Errorf("PriceAsOf() after reload = %s %v, want 1514.2 true", price, ok)
	}

	portfolios2, err := back.Portfolios()
	if err != nil {
		t.Fatalf("Portfolios() returned error: %v", err)
	}
	if len(portfolios2) != 1 || portfolios2[0].Entity != "alice" {
		t.Errorf("Portfolios() after reload = %v, want alice", portfolios2)
	}

	specs2, err := back.Benchmarks()
	if err != nil {
		t.Fatalf("Benchmarks() returned error: %v", err)
	}
	if len(specs2) != 1 || specs2[0].Name != "NIFTY 50" || !specs2[0].Notional.Equal(M(100000, "INR")) {
		t.Errorf("Benchmarks() after reload = %+v, want the saved spec", specs2)
	}
}

func TestWorkspacePaths(t *testing.T) {
	ws := NewWorkspace("some/folder", "INR")
	if ws.Path() != "some/folder" {
		t.Errorf("Path() = %q, want %q", ws.Path(), "some/folder")
	}
	if got, want := ws.MarketDir(), filepath.Join("some/folder", "market"); got != want {
		t.Errorf("MarketDir() = %q, want %q", got, want)
	}
}
