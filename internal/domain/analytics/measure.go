package analytics

import (
	"encoding/json"
	"math"
)

// Measure is a ratio that may be undefined, for example an efficiency over a
// zero cost. Undefined measures encode as JSON null.
type Measure struct {
	Value float64
	Valid bool
}

// Undefined returns the undefined measure.
func Undefined() Measure { return Measure{} }

// Defined wraps v. NaN and infinities collapse to Undefined so they never
// reach callers.
func Defined(v float64) Measure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Measure{Value: v, Valid: true}
}

// MarshalJSON encodes the value or null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts a number or null.
func (m *Measure) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*m = Undefined()
		return nil
	}
	*m = Defined(*v)
	return nil
}
