package ast

import "fmt"

// ValueKind classifies the runtime shape of a policy value.
type ValueKind string

const (
	KindScalar  ValueKind = "scalar"
	KindList    ValueKind = "list"
	KindMapping ValueKind = "mapping"
	KindNull    ValueKind = "null"
)

// KindOf classifies a raw value. Anything that is not nil, a slice, or a map
// is treated as a scalar.
func KindOf(value interface{}) ValueKind {
	switch value.(type) {
	case nil:
		return KindNull
	case []interface{}:
		return KindList
	case map[string]interface{}:
		return KindMapping
	default:
		return KindScalar
	}
}

// DeepEqual compares two policy values by deep structural equality.
// Numeric values compare by their normalized float representation so YAML
// ints and floats with the same magnitude compare equal.
func DeepEqual(a, b interface{}) bool {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}

	switch av := a.(type) {
	case nil:
		return b == nil
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !DeepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, present := bv[k]
			if !present || !DeepEqual(v, bval) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// FormatValue renders a policy value for human-readable output.
func FormatValue(value interface{}) string {
	if value == nil {
		return "null"
	}
	return fmt.Sprintf("%v", value)
}
