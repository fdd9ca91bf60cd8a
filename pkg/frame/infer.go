package frame

import (
	"regexp"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
)

var numberPattern = regexp.MustCompile(`(?i)^\s*(-?(\d+\.?\d*)|(\.\d+))(e[+-]?\d+)?\s*$`)

// timeLayouts are the string forms recognized as timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// GuessTypeFromValue classifies a single value.
func GuessTypeFromValue(v any) FieldType {
	switch val := v.(type) {
	case nil:
		return FieldTypeOther
	case time.Time:
		return FieldTypeTime
	case *time.Time:
		if val == nil {
			return FieldTypeOther
		}
		return FieldTypeTime
	case bool:
		return FieldTypeBoolean
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, gojson.Number:
		return FieldTypeNumber
	case string:
		return guessTypeFromString(val)
	case *Frame, Frame, *MutableFrame:
		return FieldTypeFrame
	default:
		return FieldTypeOther
	}
}

func guessTypeFromString(s string) FieldType {
	if numberPattern.MatchString(s) {
		return FieldTypeNumber
	}
	switch s {
	case "true", "TRUE", "True", "false", "FALSE", "False":
		return FieldTypeBoolean
	}
	if isTimeString(s) {
		return FieldTypeTime
	}
	return FieldTypeString
}

func isTimeString(s string) bool {
	s = strings.TrimSpace(s)
	// cheap reject before trying every layout
	if len(s) < len("2006-01-02") || s[4] != '-' {
		return false
	}
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// GuessTypeForField picks a type for a field from its name and values.
// Every non-nil value is classified; the result is only reported when all of
// them agree. The second return value is false when no confident
// determination is possible.
func GuessTypeForField(f *Field) (FieldType, bool) {
	if f == nil {
		return "", false
	}
	switch strings.ToLower(f.Name) {
	case "time", "date":
		return FieldTypeTime, true
	}
	if f.Values == nil {
		return "", false
	}

	var guessed FieldType
	for i := 0; i < f.Values.Len(); i++ {
		v, err := f.Values.Get(i)
		if err != nil || v == nil {
			continue
		}
		t := GuessTypeFromValue(v)
		if t == FieldTypeOther {
			return "", false
		}
		if guessed == "" {
			guessed = t
			continue
		}
		if t != guessed {
			return "", false
		}
	}
	if guessed == "" {
		return "", false
	}
	return guessed, true
}
