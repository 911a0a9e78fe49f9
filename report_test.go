package perform

import (
	"testing"

	"github.com/etnz/perform/date"
)

func TestEntityReportDeduplicates(t *testing.T) {
	rep := NewEntityReport("alice")

	unresolved := ResolvedInstrument{Name: "Unknown Widgets", Matched: "HDFC Bank", Score: 0.4}
	rep.AddUnresolved(unresolved)
	rep.AddUnresolved(unresolved)
	if len(rep.Unresolved) != 1 {
		t.Errorf("Unresolved = %d entries, want the repeated name recorded once", len(rep.Unresolved))
	}

	fuzzy := ResolvedInstrument{Name: "Tata Consultancy Service", ID: "TCS.NSE", Matched: "Tata Consultancy Services", Score: 0.97}
	rep.AddFuzzy(fuzzy)
	rep.AddFuzzy(fuzzy)
	if len(rep.FuzzyMatches) != 1 {
		t.Errorf("FuzzyMatches = %d entries, want the repeated name recorded once", len(rep.FuzzyMatches))
	}

	on := date.New(2024, 4, 30)
	rep.AddPriceGap("NSEI.INDX", on)
	rep.AddPriceGap("NSEI.INDX", on)
	rep.AddPriceGap("NSEI.INDX", date.New(2024, 5, 31))
	if len(rep.PriceGaps) != 2 {
		t.Errorf("PriceGaps = %d entries, want one per (instrument, date)", len(rep.PriceGaps))
	}
}

func TestEntityReportHasGaps(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*EntityReport)
		want   bool
	}{
		{"Empty", func(r *EntityReport) {}, false},
		{"Coverage alone is not a gap", func(r *EntityReport) {
			r.AddCoverage(date.New(2024, 4, 30), 1)
		}, false},
		{"Unresolved name", func(r *EntityReport) {
			r.AddUnresolved(ResolvedInstrument{Name: "x"})
		}, true},
		{"Fuzzy note", func(r *EntityReport) {
			r.AddFuzzy(ResolvedInstrument{Name: "x", ID: "TCS.NSE"})
		}, true},
		{"Price gap", func(r *EntityReport) {
			r.AddPriceGap("TCS.NSE", date.New(2024, 4, 30))
		}, true},
		{"Missing month", func(r *EntityReport) {
			r.MissingMonths = append(r.MissingMonths, date.NewMonth(2024, 4))
		}, true},
		{"Terminal error", func(r *EntityReport) { r.Err = "boom" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rep := NewEntityReport("alice")
			tc.mutate(rep)
			if got := rep.HasGaps(); got != tc.want {
				t.Errorf("HasGaps() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	rep := NewReport()
	if rep.RunID == "" {
		t.Errorf("NewReport() has no run id")
	}

	// Entity() creates on first access and returns the same report after.
	a := rep.Entity("alice")
	if a != rep.Entity("alice") {
		t.Errorf("Entity() returned a new report for a known entity")
	}
	rep.Entity("bob")

	list := rep.Entities()
	if len(list) != 2 || list[0].Entity != "alice" || list[1].Entity != "bob" {
		t.Errorf("Entities() = %v, want alice then bob", list)
	}

	if rep.HasGaps() {
		t.Errorf("HasGaps() = true on an empty report")
	}
	a.Err = "boom"
	if !rep.HasGaps() {
		t.Errorf("HasGaps() = false with a failed entity")
	}

	// Merge replaces a previous report wholesale.
	fresh := NewEntityReport("alice")
	rep.Merge(fresh)
	if rep.Entity("alice").Err != "" {
		t.Errorf("Merge() did not replace the previous entity report")
	}
}
