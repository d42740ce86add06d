package properties

import (
	"fmt"
	"math"
	"strconv"
)

// MaxPort is the largest valid TCP port.
const MaxPort = 65535

// ToString converts a scalar to its string form. Maps and lists are rejected.
func ToString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %T", v)
	}
}

// ToInt converts integral numbers and base-10 digit strings to int.
// Fractional numbers and any other string are rejected rather than coerced.
func ToInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int8:
		return int(val), nil
	case int16:
		return int(val), nil
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case uint:
		return int(val), nil
	case uint8:
		return int(val), nil
	case uint16:
		return int(val), nil
	case uint32:
		return int(val), nil
	case uint64:
		if val > math.MaxInt {
			return 0, fmt.Errorf("integer %d out of range", val)
		}
		return int(val), nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("expected an integer, got %v", val)
		}
		return int(val), nil
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

// ToPort converts v to an integer within 1..65535.
func ToPort(v any) (int, error) {
	n, err := ToInt(v)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > MaxPort {
		return 0, fmt.Errorf("port %d out of range 1-%d", n, MaxPort)
	}
	return n, nil
}

// ToStringSlice converts a list of scalars to []string.
func ToStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out, nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, err := ToString(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}

// ToMap converts a nested mapping to map[string]any.
func ToMap(v any) (map[string]any, error) {
	switch val := v.(type) {
	case map[string]any:
		return val, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", v)
	}
}
