package perform

import "encoding/json"

// Return is an optional Percent: a return that may be undefined. The first
// month of a series has no prior month, a benchmark may have no data for a
// month, a metric may need more history than an entity has. All of those
// are undefined, a state distinct from a zero return, and they never leak
// into averages or rankings.
//
// The zero value is the undefined return.
type Return struct {
	value   Percent
	defined bool
}

// NewReturn returns a defined return.
func NewReturn(p Percent) Return { return Return{value: p, defined: true} }

// IsDefined reports whether the return carries a value.
func (r Return) IsDefined() bool { return r.defined }

// Percent returns the value and true, or zero and false when undefined.
func (r Return) Percent() (Percent, bool) { return r.value, r.defined }

// Sub returns r minus o. The difference of an undefined return is
// undefined.
func (r Return) Sub(o Return) Return {
	if !r.defined || !o.defined {
		return Return{}
	}
	return NewReturn(r.value - o.value)
}

// Equal reports whether both returns are defined and equal, or both
// undefined.
func (r Return) Equal(o Return) bool {
	if r.defined != o.defined {
		return false
	}
	return !r.defined || r.value.Equal(o.value)
}

// String formats the return, "n/a" when undefined.
func (r Return) String() string {
	if !r.defined {
		return "n/a"
	}
	return r.value.String()
}

// SignedString formats the return with an explicit sign, "n/a" when
// undefined.
func (r Return) SignedString() string {
	if !r.defined {
		return "n/a"
	}
	return r.value.SignedString()
}

// MarshalJSON encodes a defined return as its number of percentage points
// and an undefined one as null.
func (r Return) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r.value))
}

func (r *Return) UnmarshalJSON(bytes []byte) error {
	if string(bytes) == "null" {
		*r = Return{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(bytes, &v); err != nil {
		return err
	}
	*r = NewReturn(Percent(v))
	return nil
}
