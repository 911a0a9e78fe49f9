package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 7, 1), "25 Jul 1"
	d2, v2 := New(2024, 7, 1), "24 Jul 1"

	// Append two values in reverse order and check the history stays sorted.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v, want 0", h.Len())
	}

	h.Append(d1, v1)
	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Fatalf("History.Len() = %v, want 2", h.Len())
	}

	if day, value := h.First(); day != d2 || value != v2 {
		t.Errorf("First() = %v %q, want %v %q", day, value, d2, v2)
	}
	if day, value := h.Latest(); day != d1 || value != v1 {
		t.Errorf("Latest() = %v %q, want %v %q", day, value, d1, v1)
	}

	// Appending on an existing day overwrites: the last data wins.
	h.Append(d1, "overwritten")
	if h.Len() != 2 {
		t.Errorf("History.Len() after overwrite = %v, want 2", h.Len())
	}
	if v, ok := h.Get(d1); !ok || v != "overwritten" {
		t.Errorf("Get() = %q %v, want %q true", v, ok, "overwritten")
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2024, 4, 1), 100)
	h.Append(New(2024, 4, 5), 105)
	h.Append(New(2024, 4, 12), 99)

	tests := []struct {
		name   string
		day    Date
		want   float64
		wantOk bool
	}{
		{name: "exact day", day: New(2024, 4, 5), want: 105, wantOk: true},
		{name: "between days", day: New(2024, 4, 8), want: 105, wantOk: true},
		{name: "after last", day: New(2024, 12, 31), want: 99, wantOk: true},
		{name: "before first", day: New(2024, 3, 31), wantOk: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.day)
			if ok != tc.wantOk {
				t.Fatalf("ValueAsOf(%v) ok = %v, want %v", tc.day, ok, tc.wantOk)
			}
			if ok && got != tc.want {
				t.Errorf("ValueAsOf(%v) = %v, want %v", tc.day, got, tc.want)
			}
		})
	}
}

func TestIterate(t *testing.T) {
	a := new(History[float64])
	a.Append(New(2024, 4, 1), 1)
	a.Append(New(2024, 4, 3), 3)
	b := new(History[float64])
	b.Append(New(2024, 4, 2), 2)
	b.Append(New(2024, 4, 3), 30)

	var days []Date
	for on := range Iterate(a, b) {
		days = append(days, on)
	}
	want := []Date{New(2024, 4, 1), New(2024, 4, 2), New(2024, 4, 3)}
	if len(days) != len(want) {
		t.Fatalf("Iterate() yielded %d days, want %d", len(days), len(want))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("Iterate()[%d] = %v, want %v", i, days[i], want[i])
		}
	}
}
