package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bft-labs/framekit/pkg/vector"
)

func TestGuessTypeFromValue(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		value any
		want  FieldType
	}{
		{"nil", nil, FieldTypeOther},
		{"int", 42, FieldTypeNumber},
		{"float", 1.5, FieldTypeNumber},
		{"uint8", uint8(3), FieldTypeNumber},
		{"numeric string", "12.5", FieldTypeNumber},
		{"exponent string", " -1e10 ", FieldTypeNumber},
		{"leading dot", ".5", FieldTypeNumber},
		{"bool", true, FieldTypeBoolean},
		{"bool string", "False", FieldTypeBoolean},
		{"mixed case bool is string", "fAlse", FieldTypeString},
		{"time", now, FieldTypeTime},
		{"time pointer", &now, FieldTypeTime},
		{"nil time pointer", (*time.Time)(nil), FieldTypeOther},
		{"rfc3339", "2024-03-01T10:00:00Z", FieldTypeTime},
		{"date", "2024-03-01", FieldTypeTime},
		{"bad date", "2024-13-45", FieldTypeString},
		{"string", "hello", FieldTypeString},
		{"frame", &Frame{}, FieldTypeFrame},
		{"map", map[string]any{}, FieldTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessTypeFromValue(tt.value))
		})
	}
}

func TestGuessTypeForField(t *testing.T) {
	tests := []struct {
		name   string
		field  *Field
		want   FieldType
		wantOK bool
	}{
		{"nil field", nil, "", false},
		{"named time", &Field{Name: "Time"}, FieldTypeTime, true},
		{"named date", &Field{Name: "DATE", Values: vector.NewArrayVector([]any{"x"})}, FieldTypeTime, true},
		{"no values", &Field{Name: "v", Values: vector.NewArrayVector[any](nil)}, "", false},
		{"all nil", &Field{Name: "v", Values: vector.NewArrayVector([]any{nil, nil})}, "", false},
		{"numbers after nil", &Field{Name: "v", Values: vector.NewArrayVector([]any{nil, 1, 2.5})}, FieldTypeNumber, true},
		{"numeric strings", &Field{Name: "v", Values: vector.NewArrayVector([]any{"1", "2"})}, FieldTypeNumber, true},
		{"disagreement", &Field{Name: "v", Values: vector.NewArrayVector([]any{1, "abc"})}, "", false},
		{"unclassifiable", &Field{Name: "v", Values: vector.NewArrayVector([]any{[]int{1}})}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GuessTypeForField(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFieldType(t *testing.T) {
	for _, ft := range FieldTypes {
		got, err := ParseFieldType(string(ft))
		assert.NoError(t, err)
		assert.Equal(t, ft, got)
	}

	got, err := ParseFieldType("")
	assert.NoError(t, err)
	assert.Equal(t, FieldTypeOther, got)

	_, err = ParseFieldType("decimal")
	assert.Error(t, err)
}

func TestParserFor(t *testing.T) {
	num := ParserFor(FieldTypeNumber)
	assert.Equal(t, 3.0, num(3))
	assert.Equal(t, 2.5, num(" 2.5 "))
	assert.Nil(t, num("NaN"))
	assert.Nil(t, num("abc"))
	assert.Nil(t, num(nil))
	assert.Nil(t, num(true))

	id := ParserFor(FieldTypeString)
	assert.Equal(t, "x", id("x"))
	assert.Nil(t, id(nil))
}

func TestField_ParserFollowsType(t *testing.T) {
	f := &Field{Name: "v", Type: FieldTypeString}
	assert.Equal(t, "1", f.Parser()("1"))

	f.Type = FieldTypeNumber
	assert.Equal(t, 1.0, f.Parser()("1"))
}
