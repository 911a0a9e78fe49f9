package perform

import (
	"errors"
	"testing"

	"github.com/etnz/perform/date"
)

// monthEndValuations builds one valuation per consecutive month, valued at
// the month's end. It is the shape the pipeline schedule produces.
func monthEndValuations(entity string, first date.Month, values ...float64) []Valuation {
	var list []Valuation
	for i, v := range values {
		m := first.Add(i)
		list = append(list, Valuation{Entity: entity, On: m.End(), Value: M(v, "INR")})
	}
	return list
}

func TestTrack(t *testing.T) {
	april := date.NewMonth(2024, 4)
	s, err := Track("alice", monthEndValuations("alice", april, 100, 110, 99))
	if err != nil {
		t.Fatalf("Track() returned error: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	points := s.Points()
	testCases := []struct {
		name       string
		i          int
		month      date.Month
		monthly    Return
		cumulative Return
	}{
		{"First month has no prior", 0, april, Return{}, NewReturn(0)},
		{"Ten percent up", 1, april.Add(1), NewReturn(10), NewReturn(10)},
		{"Ten percent down", 2, april.Add(2), NewReturn(-10), NewReturn(-1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := points[tc.i]
			if p.Month != tc.month {
				t.Errorf("point[%d].Month = %s, want %s", tc.i, p.Month, tc.month)
			}
			if !p.Monthly.Equal(tc.monthly) {
				t.Errorf("point[%d].Monthly = %s, want %s", tc.i, p.Monthly, tc.monthly)
			}
			if !p.Cumulative.Equal(tc.cumulative) {
				t.Errorf("point[%d].Cumulative = %s, want %s", tc.i, p.Cumulative, tc.cumulative)
			}
		})
	}

	// The first monthly return is undefined, which is not a zero return.
	if points[0].Monthly.IsDefined() {
		t.Errorf("point[0].Monthly is defined, want undefined")
	}
	if points[0].Monthly.Equal(NewReturn(0)) {
		t.Errorf("point[0].Monthly equals a zero return, want undefined to stay distinct")
	}
}

func TestTrackLatestDateWins(t *testing.T) {
	april := date.NewMonth(2024, 4)
	valuations := []Valuation{
		{Entity: "alice", On: date.New(2024, 4, 25), Value: M(120, "INR")},
		{Entity: "alice", On: date.New(2024, 4, 10), Value: M(100, "INR")},
	}
	s, err := Track("alice", valuations)
	if err != nil {
		t.Fatalf("Track() returned error: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want one bucket for the month", s.Len())
	}
	p, ok := s.AtMonth(april)
	if !ok {
		t.Fatalf("AtMonth(%s) found nothing", april)
	}
	if !p.Value.Equal(M(120, "INR")) || p.On != date.New(2024, 4, 25) {
		t.Errorf("bucket kept %s on %s, want the latest date 2024-04-25 at 120", p.Value, p.On)
	}
}

func TestTrackUnsortedInput(t *testing.T) {
	// Valuations arrive in any order; the series is always month-ascending.
	april := date.NewMonth(2024, 4)
	valuations := []Valuation{
		{Entity: "alice", On: date.New(2024, 6, 30), Value: M(99, "INR")},
		{Entity: "alice", On: date.New(2024, 4, 30), Value: M(100, "INR")},
		{Entity: "alice", On: date.New(2024, 5, 31), Value: M(110, "INR")},
	}
	s, err := Track("alice", valuations)
	if err != nil {
		t.Fatalf("Track() returned error: %v", err)
	}
	months := s.Months()
	want := []date.Month{april, april.Add(1), april.Add(2)}
	for i := range want {
		if months[i] != want[i] {
			t.Errorf("Months()[%d] = %s, want %s", i, months[i], want[i])
		}
	}
	if !s.At(1).Monthly.Equal(NewReturn(10)) {
		t.Errorf("At(1).Monthly = %s, want +10.00%%", s.At(1).Monthly)
	}
}

func TestTrackRejectsForeignValuations(t *testing.T) {
	valuations := monthEndValuations("bob", date.NewMonth(2024, 4), 100)
	_, err := Track("alice", valuations)
	if err == nil {
		t.Fatalf("Track() accepted a valuation of another entity, want error")
	}
	var cfg *ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("Track() error = %T, want *ConfigurationError", err)
	}
	if cfg.Entity != "alice" {
		t.Errorf("error entity = %q, want %q", cfg.Entity, "alice")
	}
}

func TestTrackRejectsEmptyEntity(t *testing.T) {
	var cfg *ConfigurationError
	if _, err := Track("", nil); !errors.As(err, &cfg) {
		t.Errorf("Track(\"\") error = %v, want a ConfigurationError", err)
	}
}

func TestTrackEmpty(t *testing.T) {
	s, err := Track("alice", nil)
	if err != nil {
		t.Fatalf("Track() returned error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if missing := s.MissingMonths(); missing != nil {
		t.Errorf("MissingMonths() = %v, want nil", missing)
	}
}

func TestMissingMonths(t *testing.T) {
	april := date.NewMonth(2024, 4)
	valuations := []Valuation{
		{Entity: "alice", On: date.New(2024, 4, 30), Value: M(100, "INR")},
		{Entity: "alice", On: date.New(2024, 7, 31), Value: M(130, "INR")},
	}
	s, err := Track("alice", valuations)
	if err != nil {
		t.Fatalf("Track() returned error: %v", err)
	}

	missing := s.MissingMonths()
	want := []date.Month{april.Add(1), april.Add(2)}
	if len(missing) != len(want) {
		t.Fatalf("MissingMonths() = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("MissingMonths()[%d] = %s, want %s", i, missing[i], want[i])
		}
	}

	// A missing month is skipped, never interpolated: July's monthly
	// return spans the whole gap from April.
	if !s.At(1).Monthly.Equal(NewReturn(30)) {
		t.Errorf("At(1).Monthly = %s, want +30.00%% across the gap", s.At(1).Monthly)
	}
}

func TestAtMonth(t *testing.T) {
	s, err := Track("alice", monthEndValuations("alice", date.NewMonth(2024, 4), 100, 110))
	if err != nil {
		t.Fatalf("Track() returned error: %v", err)
	}
	if _, ok := s.AtMonth(date.NewMonth(2024, 5)); !ok {
		t.Errorf("AtMonth(2024-05) found nothing, want a point")
	}
	if _, ok := s.AtMonth(date.NewMonth(2024, 6)); ok {
		t.Errorf("AtMonth(2024-06) found a point, want none")
	}
}

func TestCumulativeUndefinedOnZeroStart(t *testing.T) {
	// A first month valued at zero has no meaningful base: every
	// cumulative return of the series is undefined, never an infinity.
	valuations := []Valuation{
		{Entity: "alice", On: date.New(2024, 4, 30), Value: M(0, "INR")},
		{Entity: "alice", On: date.New(2024, 5, 31), Value: M(100, "INR")},
	}
	s, err := Track("alice", valuations)
	if err != nil {
		t.Fatalf("Track() returned error: %v", err)
	}
	for i := 0; i < s.Len(); i++ {
		if s.CumulativeAt(i).IsDefined() {
			t.Errorf("CumulativeAt(%d) is defined, want undefined on a zero base", i)
		}
	}
}
