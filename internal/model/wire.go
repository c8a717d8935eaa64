package model

import (
	"fmt"
	"strconv"
)

// Helpers shared by the wire mappings. Decoded JSON arrives as untyped maps,
// so numbers show up as float64 and identifiers can be either strings or
// numbers depending on which side produced them.

// putString sets key only when the value is non-empty, giving the sparse
// outbound payloads their omit-when-unset semantics.
func putString(w map[string]any, key, value string) {
	if value != "" {
		w[key] = value
	}
}

// AsString renders a decoded JSON value as a string. Whole-number floats are
// printed without a fractional part so numeric identifiers survive the
// round trip ("555", not "555.000000").
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// AsInt extracts an integer from a decoded JSON value, tolerating the
// float64 and string forms remote systems send.
func AsInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return 0
}
