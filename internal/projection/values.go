package projection

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Stored numbers arrive as int64/float64 from Firestore and json.Number from the
// Postgres backend. Both are normalised here before cast sees them.

func toString(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// toInt reads a stored number as a 32-bit integer, rounding halves to even.
// Out-of-range and non-finite values are errors, never wrapped.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return roundInt(n)
	case float32:
		return roundInt(float64(n))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return checkInt(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return roundInt(f)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return checkInt(i)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return roundInt(f)
	case bool, nil:
		return 0, fmt.Errorf("not a number: %v", v)
	}
	i, err := cast.ToInt64E(v)
	if err != nil {
		return 0, err
	}
	return checkInt(i)
}

func roundInt(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", f)
	}
	r := math.RoundToEven(f)
	if r < math.MinInt32 || r > math.MaxInt32 {
		return 0, fmt.Errorf("number out of range: %v", f)
	}
	return int(r), nil
}

func checkInt(i int64) (int, error) {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, fmt.Errorf("number out of range: %d", i)
	}
	return int(i), nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case bool, nil:
		return 0, fmt.Errorf("not a number: %v", v)
	}
	return cast.ToFloat64E(v)
}

// toBool is lenient: anything cast cannot read as a bool is false.
func toBool(v any) bool {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

// toStrings returns an empty slice for any shape other than a list.
func toStrings(v any) []string {
	switch l := v.(type) {
	case []string:
		out := make([]string, len(l))
		copy(out, l)
		return out
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			out = append(out, toString(item))
		}
		return out
	}
	return []string{}
}

func toMaps(v any) []map[string]any {
	var out []map[string]any
	switch l := v.(type) {
	case []map[string]any:
		return l
	case []any:
		for _, item := range l {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}
