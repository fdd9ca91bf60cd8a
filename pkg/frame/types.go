package frame

import (
	"fmt"

	"github.com/bft-labs/framekit/pkg/vector"
)

// FieldType is the semantic kind of a field's values.
type FieldType string

const (
	FieldTypeTime    FieldType = "time"
	FieldTypeNumber  FieldType = "number"
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeTrace   FieldType = "trace"
	FieldTypeGeo     FieldType = "geo"
	FieldTypeFrame   FieldType = "frame"

	// FieldTypeOther means the type has not been resolved yet.
	FieldTypeOther FieldType = "other"
)

// FieldTypes lists every valid FieldType.
var FieldTypes = []FieldType{
	FieldTypeTime,
	FieldTypeNumber,
	FieldTypeString,
	FieldTypeBoolean,
	FieldTypeTrace,
	FieldTypeGeo,
	FieldTypeFrame,
	FieldTypeOther,
}

// ParseFieldType converts s to a FieldType. The empty string is FieldTypeOther.
func ParseFieldType(s string) (FieldType, error) {
	if s == "" {
		return FieldTypeOther, nil
	}
	for _, t := range FieldTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("frame: unknown field type %q", s)
}

// Field is a named, typed column.
type Field struct {
	Name   string
	Type   FieldType
	Config map[string]any
	Labels map[string]string
	Values vector.Vector[any]

	// memoized value parser and the type it was derived for
	parser     Parser
	parserType FieldType
}

// Len returns the number of values in the field.
func (f *Field) Len() int {
	if f.Values == nil {
		return 0
	}
	return f.Values.Len()
}

// Parser returns the value parser for the field's current type, deriving it
// on first use and again whenever the type changes.
func (f *Field) Parser() Parser {
	if f.Type == "" {
		f.Type = FieldTypeOther
	}
	if f.parser == nil || f.parserType != f.Type {
		f.parser = ParserFor(f.Type)
		f.parserType = f.Type
	}
	return f.parser
}

// Meta carries optional information about a frame's origin.
type Meta struct {
	ExecutedQueryString    string         `json:"executedQueryString,omitempty"`
	PreferredVisualisation string         `json:"preferredVisualisationType,omitempty"`
	Custom                 map[string]any `json:"custom,omitempty"`
}

// Frame is an ordered collection of equal-length fields.
type Frame struct {
	Name   string
	RefID  string
	Labels map[string]string
	Meta   *Meta
	Fields []*Field
}

// Len returns the length of the first field, or 0 for a frame without fields.
func (f *Frame) Len() int {
	if f == nil || len(f.Fields) == 0 {
		return 0
	}
	return f.Fields[0].Len()
}

// CheckLengths returns ErrLengthMismatch if any field differs in length from the first.
func (f *Frame) CheckLengths() error {
	n := f.Len()
	for _, field := range f.Fields {
		if field.Len() != n {
			return fmt.Errorf("%w: field %q has %d values, expected %d", ErrLengthMismatch, field.Name, field.Len(), n)
		}
	}
	return nil
}
