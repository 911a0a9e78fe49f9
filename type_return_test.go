package perform

import (
	"encoding/json"
	"testing"
)

func TestReturnUndefined(t *testing.T) {
	var r Return

	// The zero value is the undefined return, distinct from a zero return.
	if r.IsDefined() {
		t.Errorf("zero Return is defined, want undefined")
	}
	if r.Equal(NewReturn(0)) {
		t.Errorf("undefined equals a zero return, want distinct")
	}
	if !r.Equal(Return{}) {
		t.Errorf("two undefined returns are not equal")
	}
	if got := r.String(); got != "n/a" {
		t.Errorf("String() = %q, want %q", got, "n/a")
	}
	if got := r.SignedString(); got != "n/a" {
		t.Errorf("SignedString() = %q, want %q", got, "n/a")
	}
	if _, ok := r.Percent(); ok {
		t.Errorf("Percent() of undefined = ok, want not ok")
	}
}

func TestReturnSub(t *testing.T) {
	testCases := []struct {
		name string
		a, b Return
		want Return
	}{
		{"Defined minus defined", NewReturn(10), NewReturn(2), NewReturn(8)},
		{"Defined minus undefined", NewReturn(10), Return{}, Return{}},
		{"Undefined minus defined", Return{}, NewReturn(2), Return{}},
		{"Zero difference stays defined", NewReturn(5), NewReturn(5), NewReturn(0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Sub(tc.b); !got.Equal(tc.want) {
				t.Errorf("Sub() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestReturnJSON(t *testing.T) {
	// A defined return is its number of points, an undefined one is null:
	// never a fake zero in persisted reports.
	data, err := json.Marshal(NewReturn(10.5))
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}
	if string(data) != "10.5" {
		t.Errorf("Marshal() = %s, want 10.5", data)
	}

	data, err = json.Marshal(Return{})
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Marshal() = %s, want null", data)
	}

	var back Return
	if err := json.Unmarshal([]byte("null"), &back); err != nil {
		t.Fatalf("Unmarshal(null) returned error: %v", err)
	}
	if back.IsDefined() {
		t.Errorf("Unmarshal(null) = defined, want undefined")
	}
	if err := json.Unmarshal([]byte("-1"), &back); err != nil {
		t.Fatalf("Unmarshal(-1) returned error: %v", err)
	}
	if !back.Equal(NewReturn(-1)) {
		t.Errorf("Unmarshal(-1) = %s, want -1.00%%", back)
	}
}
