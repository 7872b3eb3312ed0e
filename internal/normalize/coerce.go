package normalize

import (
	"fmt"
	"math"
	"strconv"
)

// Bool accepts the boundary's boolean encodings: numeric 1/0, string
// "1"/"0", or an actual boolean. Anything else is not a recognized encoding
// and is an error, never a guess.
func Bool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case float64:
		if val == 1 {
			return true, nil
		}
		if val == 0 {
			return false, nil
		}
	case int:
		if val == 1 {
			return true, nil
		}
		if val == 0 {
			return false, nil
		}
	case int64:
		if val == 1 {
			return true, nil
		}
		if val == 0 {
			return false, nil
		}
	case string:
		if val == "1" {
			return true, nil
		}
		if val == "0" {
			return false, nil
		}
	}
	return false, fmt.Errorf("unrecognized boolean encoding: %v (%T)", v, v)
}

// ID accepts a numeric identifier as a number or numeric string and rejects
// everything else, fractional numbers included.
func ID(v any) (int64, error) {
	switch val := v.(type) {
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("identifier is not an integer: %v", val)
		}
		return int64(val), nil
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case string:
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("identifier is not numeric: %q", val)
		}
		return id, nil
	}
	return 0, fmt.Errorf("identifier has unsupported type %T", v)
}

// Price accepts a non-negative number or numeric string.
func Price(v any) (float64, error) {
	var price float64
	switch val := v.(type) {
	case float64:
		price = val
	case int:
		price = float64(val)
	case int64:
		price = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("price is not numeric: %q", val)
		}
		price = parsed
	default:
		return 0, fmt.Errorf("price has unsupported type %T", v)
	}
	if price < 0 {
		return 0, fmt.Errorf("price is negative: %v", price)
	}
	return price, nil
}

// String accepts a string value and rejects other types rather than
// stringifying them.
func String(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string, got %T", v)
}
