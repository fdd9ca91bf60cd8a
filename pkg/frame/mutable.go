package frame

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/bft-labs/framekit/pkg/log"
	"github.com/bft-labs/framekit/pkg/vector"
)

// VectorCreator builds the vector for a new field, seeded with buffer.
type VectorCreator func(buffer []any) vector.Vector[any]

// ArrayCreator backs fields with growable ArrayVectors.
func ArrayCreator(buffer []any) vector.Vector[any] {
	return vector.NewArrayVector(buffer)
}

// FieldSpec describes a field to add. Values and Vector are alternatives;
// Vector wins when both are set. Both are copied, never adopted.
type FieldSpec struct {
	Name   string
	Type   FieldType
	Config map[string]any
	Labels map[string]string
	Values []any
	Vector vector.Vector[any]
}

// Option configures a MutableFrame.
type Option func(*MutableFrame)

// WithCreator sets the factory used for every field's vector.
func WithCreator(creator VectorCreator) Option {
	return func(m *MutableFrame) {
		m.creator = creator
	}
}

// WithLogger sets the logger for field registration events.
func WithLogger(logger log.Logger) Option {
	return func(m *MutableFrame) {
		m.logger = logger
	}
}

// MutableFrame builds a frame while keeping all fields the same length.
type MutableFrame struct {
	Name   string
	RefID  string
	Labels map[string]string
	Meta   *Meta

	fields  []*Field
	index   map[string]int // name -> position in fields
	creator VectorCreator
	logger  log.Logger
}

// NewMutableFrame creates an empty frame, or a copy of source when it is not
// nil. Source fields are added in order through AddField, so a name repeated
// in source returns ErrDuplicateField.
func NewMutableFrame(source *Frame, opts ...Option) (*MutableFrame, error) {
	m := &MutableFrame{
		index:   make(map[string]int),
		creator: ArrayCreator,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = log.OrNoop(m.logger)
	if m.creator == nil {
		m.creator = ArrayCreator
	}

	if source == nil {
		return m, nil
	}
	m.Name = source.Name
	m.RefID = source.RefID
	m.Labels = maps.Clone(source.Labels)
	if source.Meta != nil {
		meta := *source.Meta
		meta.Custom = maps.Clone(source.Meta.Custom)
		m.Meta = &meta
	}
	for _, f := range source.Fields {
		_, err := m.AddField(FieldSpec{
			Name:   f.Name,
			Type:   f.Type,
			Config: f.Config,
			Labels: f.Labels,
			Vector: f.Values,
		})
		if err != nil {
			return nil, fmt.Errorf("clone frame %q: %w", source.Name, err)
		}
	}
	return m, nil
}

// Len returns the number of rows.
func (m *MutableFrame) Len() int {
	if len(m.fields) == 0 {
		return 0
	}
	return m.fields[0].Len()
}

// Fields returns the fields in order. The slice is a copy; the fields are not.
func (m *MutableFrame) Fields() []*Field {
	return slices.Clone(m.fields)
}

// Field returns the field called name.
func (m *MutableFrame) Field(name string) (*Field, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.fields[i], true
}

// Frame returns a view of the frame sharing its fields.
func (m *MutableFrame) Frame() *Frame {
	return &Frame{
		Name:   m.Name,
		RefID:  m.RefID,
		Labels: m.Labels,
		Meta:   m.Meta,
		Fields: slices.Clone(m.fields),
	}
}

// CheckLengths returns ErrLengthMismatch if the fields differ in length.
func (m *MutableFrame) CheckLengths() error {
	return m.Frame().CheckLengths()
}

// AddField adds a field and pads every field to the longest length.
func (m *MutableFrame) AddField(spec FieldSpec) (*Field, error) {
	return m.addField(spec, 0)
}

// AddFieldWithLength adds a field padded to at least startLength values,
// then pads every field to the longest length. A startLength below Len()
// has no effect beyond AddField.
func (m *MutableFrame) AddFieldWithLength(spec FieldSpec, startLength int) (*Field, error) {
	return m.addField(spec, max(startLength, 0))
}

func (m *MutableFrame) addField(spec FieldSpec, startLength int) (*Field, error) {
	var buffer []any
	switch {
	case spec.Vector != nil:
		buffer = spec.Vector.ToSlice()
	case spec.Values != nil:
		buffer = slices.Clone(spec.Values)
	}

	typ := spec.Type
	if typ == "" && (spec.Name == "time" || spec.Name == "Time") {
		typ = FieldTypeTime
	} else if typ == "" && len(buffer) > 0 {
		typ = GuessTypeFromValue(buffer[0])
	}
	if typ == "" {
		typ = FieldTypeOther
	}

	name := spec.Name
	if name == "" {
		name = m.nextName(typ)
	}
	if _, exists := m.index[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateField, name)
	}

	config := maps.Clone(spec.Config)
	if config == nil {
		config = make(map[string]any)
	}
	field := &Field{
		Name:   name,
		Type:   typ,
		Config: config,
		Labels: maps.Clone(spec.Labels),
		Values: m.creator(buffer),
	}
	if field.Type == FieldTypeOther {
		if t, ok := GuessTypeForField(field); ok {
			field.Type = t
		}
	}

	m.index[name] = len(m.fields)
	m.fields = append(m.fields, field)
	m.logger.Debug("field added",
		log.String("frame", m.Name),
		log.String("field", name),
		log.String("type", string(field.Type)),
	)

	pad(field, startLength)
	m.Validate()
	return field, nil
}

// nextName generates the name for the n-th field when none was given.
func (m *MutableFrame) nextName(typ FieldType) string {
	n := len(m.fields) + 1
	if typ == FieldTypeTime {
		if _, exists := m.index["Time"]; exists {
			return fmt.Sprintf("Time %d", n)
		}
		return "Time"
	}
	return fmt.Sprintf("Field %d", n)
}

// AddFieldFor adds a field typed after value. An empty name is generated.
func (m *MutableFrame) AddFieldFor(value any, name string) (*Field, error) {
	return m.AddField(FieldSpec{Name: name, Type: GuessTypeFromValue(value)})
}

// Validate pads every field with nil up to the longest field's length.
func (m *MutableFrame) Validate() {
	target := 0
	for _, f := range m.fields {
		target = max(target, f.Len())
	}
	for _, f := range m.fields {
		pad(f, target)
	}
}

func pad(f *Field, length int) {
	for f.Values.Len() < length {
		before := f.Values.Len()
		f.Values.Add(nil)
		// a bounded vector may refuse to grow
		if f.Values.Len() == before {
			return
		}
	}
}

// AppendRow appends one positional row. Positions beyond the current fields
// create new fields named "Field {n}". While the frame is empty, fields still
// typed FieldTypeOther take their type from this row. Values are converted
// with each field's parser; positions missing from row are stored as nil.
func (m *MutableFrame) AppendRow(row []any) error {
	if err := m.checkNewNames(len(row)); err != nil {
		return err
	}
	for i := len(m.fields); i < len(row); i++ {
		spec := FieldSpec{Name: fmt.Sprintf("Field %d", i+1), Type: GuessTypeFromValue(row[i])}
		if _, err := m.AddField(spec); err != nil {
			return err
		}
	}

	if m.Len() < 1 {
		for i, f := range m.fields {
			if (f.Type == "" || f.Type == FieldTypeOther) && i < len(row) {
				f.Type = GuessTypeFromValue(row[i])
			}
		}
	}

	for i, f := range m.fields {
		var v any
		if i < len(row) {
			v = row[i]
		}
		f.Values.Add(f.Parser()(v))
	}
	return nil
}

// checkNewNames fails before any mutation if AppendRow would generate a
// field name that is already taken.
func (m *MutableFrame) checkNewNames(rowLen int) error {
	for i := len(m.fields); i < rowLen; i++ {
		name := fmt.Sprintf("Field %d", i+1)
		if _, exists := m.index[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateField, name)
		}
	}
	return nil
}

// Add appends one row keyed by field name. With addMissingFields, keys that
// do not match a field create one, in sorted key order. Fields absent from
// row receive nil.
func (m *MutableFrame) Add(row map[string]any, addMissingFields bool) error {
	if addMissingFields {
		if err := m.addMissing(row); err != nil {
			return err
		}
	}
	for _, f := range m.fields {
		f.Values.Add(f.Parser()(row[f.Name]))
	}
	return nil
}

func (m *MutableFrame) addMissing(row map[string]any) error {
	keys := make([]string, 0, len(row))
	for k := range row {
		// an empty key would get a generated name and never match again
		if _, exists := m.index[k]; !exists && k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := m.AddField(FieldSpec{Name: k, Type: GuessTypeFromValue(row[k])}); err != nil {
			return err
		}
	}
	return nil
}

// Set overwrites row index with the raw values from row; no parser is
// applied. Setting index Len() appends a new row through each field's
// vector, so it becomes the last row, or row 0 when the fields append at
// the head. An index beyond Len() returns ErrOutOfRange.
func (m *MutableFrame) Set(index int, row map[string]any, addMissingFields bool) error {
	length := m.Len()
	if index < 0 || index > length {
		return fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, index, length)
	}
	if addMissingFields {
		if err := m.addMissing(row); err != nil {
			return err
		}
	}
	if index == length {
		for _, f := range m.fields {
			f.Values.Add(row[f.Name])
		}
		return nil
	}
	for _, f := range m.fields {
		if err := f.Values.Set(index, row[f.Name]); err != nil {
			return fmt.Errorf("set field %q: %w", f.Name, err)
		}
	}
	return nil
}

// Get returns row index as a map from field name to value.
func (m *MutableFrame) Get(index int) (map[string]any, error) {
	row := make(map[string]any, len(m.fields))
	for _, f := range m.fields {
		v, err := f.Values.Get(index)
		if err != nil {
			return nil, fmt.Errorf("get field %q: %w", f.Name, err)
		}
		row[f.Name] = v
	}
	return row, nil
}

// ToSlice returns every row as a map.
func (m *MutableFrame) ToSlice() ([]map[string]any, error) {
	rows := make([]map[string]any, 0, m.Len())
	for i := 0; i < m.Len(); i++ {
		row, err := m.Get(i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Reverse reverses every field. Rows stay aligned across fields.
func (m *MutableFrame) Reverse() {
	for _, f := range m.fields {
		f.Values.Reverse()
	}
}
