package domain

import "math"

// Record maps a column name to the value of one tabular row.
// Values are nil (missing), bool, int64, float64 or string.
type Record map[string]interface{}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ValuesEqual reports whether two cell values are equal.
// A missing value never equals anything, including another missing value.
// Numbers compare numerically regardless of int64/float64 representation.
func ValuesEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return false
	}

	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		if !ok {
			return false
		}
		if _, aInt := a.(int64); aInt {
			if _, bInt := b.(int64); bInt {
				return a.(int64) == b.(int64)
			}
		}
		return af == bf
	}

	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	}
	return false
}

// Truthy reports whether a cell value counts as set.
// NaN is a missing value and is false like nil.
func Truthy(v interface{}) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		return tv != ""
	case float64:
		return tv != 0 && !math.IsNaN(tv)
	case float32:
		return tv != 0 && !math.IsNaN(float64(tv))
	}
	if f, ok := asFloat(v); ok {
		return f != 0
	}
	return true
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
