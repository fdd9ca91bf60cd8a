package frame

import (
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Parser converts a raw ingested value into the representation stored in a
// field. Every Parser maps nil to nil.
type Parser func(v any) any

// ParserFor returns the parser used for values of type t.
func ParserFor(t FieldType) Parser {
	switch t {
	case FieldTypeNumber:
		return parseNumber
	case FieldTypeBoolean:
		return parseBoolean
	default:
		return parseIdentity
	}
}

func parseIdentity(v any) any {
	return v
}

// parseNumber returns a float64, or nil when v is not numeric.
func parseNumber(v any) any {
	var f float64
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case gojson.Number:
		parsed, err := val.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// parseBoolean treats strings starting with F, f or 0 as false and every
// other non-empty string as true.
func parseBoolean(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return val
	case string:
		if val == "" {
			return nil
		}
		switch val[0] {
		case 'F', 'f', '0':
			return false
		}
		return true
	default:
		if n, ok := parseNumber(v).(float64); ok {
			return n != 0
		}
		return nil
	}
}
