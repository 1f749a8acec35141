package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseValue infers a typed value from a raw cell string.
func ParseValue(s string) interface{} {
	// Trim whitespace first
	s = strings.TrimSpace(s)

	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Stringify renders a record value the way a duplicate key or text field
// expects it: strings pass through, nil becomes empty, everything else uses
// the default formatting.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Truthy reports whether a record value counts as non-empty content:
// non-blank strings, non-zero numbers, true booleans, non-empty lists and
// non-empty nested records.
func Truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case float32:
		return val != 0
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return true
	}
}
