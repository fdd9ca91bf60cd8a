package frame

import (
	"maps"

	gojson "github.com/goccy/go-json"

	"github.com/bft-labs/framekit/pkg/vector"
)

// DTO is a plain-data snapshot of a frame. It shares no storage with the
// frame it was taken from.
type DTO struct {
	Name   string            `json:"name,omitempty"`
	RefID  string            `json:"refId,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
	Meta   *Meta             `json:"meta,omitempty"`
	Fields []FieldDTO        `json:"fields"`
}

// FieldDTO is the plain-data form of a Field.
type FieldDTO struct {
	Name   string            `json:"name"`
	Type   FieldType         `json:"type"`
	Config map[string]any    `json:"config,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
	Values []any             `json:"values"`
}

// ToDTO copies f into a DTO.
func ToDTO(f *Frame) DTO {
	if f == nil {
		return DTO{Fields: []FieldDTO{}}
	}
	dto := DTO{
		Name:   f.Name,
		RefID:  f.RefID,
		Labels: maps.Clone(f.Labels),
		Fields: make([]FieldDTO, 0, len(f.Fields)),
	}
	if f.Meta != nil {
		meta := *f.Meta
		meta.Custom = maps.Clone(f.Meta.Custom)
		dto.Meta = &meta
	}
	for _, field := range f.Fields {
		values := vector.Values(field.Values)
		if values == nil {
			values = []any{}
		}
		dto.Fields = append(dto.Fields, FieldDTO{
			Name:   field.Name,
			Type:   field.Type,
			Config: maps.Clone(field.Config),
			Labels: maps.Clone(field.Labels),
			Values: values,
		})
	}
	return dto
}

// Len returns the length of the first field.
func (d DTO) Len() int {
	if len(d.Fields) == 0 {
		return 0
	}
	return len(d.Fields[0].Values)
}

// Frame converts the snapshot into a Frame backed by ArrayVectors. The
// result can seed NewMutableFrame or NewCircularFrame.
func (d DTO) Frame() *Frame {
	f := &Frame{
		Name:   d.Name,
		RefID:  d.RefID,
		Labels: maps.Clone(d.Labels),
		Fields: make([]*Field, 0, len(d.Fields)),
	}
	if d.Meta != nil {
		meta := *d.Meta
		meta.Custom = maps.Clone(d.Meta.Custom)
		f.Meta = &meta
	}
	for _, fd := range d.Fields {
		values := make([]any, len(fd.Values))
		copy(values, fd.Values)
		typ := fd.Type
		if typ == "" {
			typ = FieldTypeOther
		}
		f.Fields = append(f.Fields, &Field{
			Name:   fd.Name,
			Type:   typ,
			Config: maps.Clone(fd.Config),
			Labels: maps.Clone(fd.Labels),
			Values: vector.NewArrayVector(values),
		})
	}
	return f
}

// DecodeDTO parses a JSON snapshot.
func DecodeDTO(data []byte) (DTO, error) {
	var d DTO
	if err := gojson.Unmarshal(data, &d); err != nil {
		return DTO{}, err
	}
	return d, nil
}

// ToDTO snapshots the frame.
func (m *MutableFrame) ToDTO() DTO {
	return ToDTO(m.Frame())
}

// MarshalJSON encodes the frame's snapshot.
func (m *MutableFrame) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(m.ToDTO())
}
