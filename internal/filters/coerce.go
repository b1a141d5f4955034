package filters

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseDate accepts only YYYY-MM-DD strings naming a real calendar day.
func parseDate(s string) (time.Time, bool) {
	if !datePattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsValidDate reports whether s is a YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	_, ok := parseDate(s)
	return ok
}

type numberStatus int

const (
	numberOK numberStatus = iota
	numberEmpty
	numberWrongType
	numberNotNumeric
	numberFractional
)

// coerceNumber reads a count field. Strings are parsed; nil, "" and 0 are empty.
func coerceNumber(raw interface{}) (float64, numberStatus) {
	var v float64

	switch n := raw.(type) {
	case nil:
		return 0, numberEmpty
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int8:
		v = float64(n)
	case int16:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint:
		v = float64(n)
	case uint8:
		v = float64(n)
	case uint16:
		v = float64(n)
	case uint32:
		v = float64(n)
	case uint64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, numberNotNumeric
		}
		v = f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, numberEmpty
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, numberNotNumeric
		}
		v = f
	default:
		return 0, numberWrongType
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, numberNotNumeric
	}
	if v == 0 {
		return 0, numberEmpty
	}
	if v != math.Trunc(v) {
		return v, numberFractional
	}
	return v, numberOK
}

// positiveInteger returns the coerced count when it is a whole number above zero.
func positiveInteger(raw interface{}) (int64, bool) {
	v, status := coerceNumber(raw)
	if status != numberOK || v <= 0 || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// toStringSlice accepts []string, []interface{} of strings, or a comma separated string.
// Entries that are blank after trimming are dropped; the rest are kept as given.
func toStringSlice(raw interface{}) []string {
	var result []string

	switch v := raw.(type) {
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				result = append(result, s)
			}
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				result = append(result, s)
			}
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}

	return result
}
