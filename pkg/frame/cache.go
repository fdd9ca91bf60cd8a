package frame

import (
	"slices"

	"github.com/bft-labs/framekit/pkg/log"
)

// FieldWithIndex is a field together with its position in the frame.
type FieldWithIndex struct {
	*Field
	Index int
}

// FieldCache is a read-only index of a frame's fields by name and type.
// It reflects the frame at construction time and must be rebuilt after the
// frame's fields change.
type FieldCache struct {
	fields     []*Field
	byType     map[FieldType][]*Field
	byName     map[string]FieldWithIndex
	duplicates []string
}

type cacheOptions struct {
	logger log.Logger
}

// CacheOption configures NewFieldCache.
type CacheOption func(*cacheOptions)

// WithCacheLogger sets the logger used to report duplicate field names.
func WithCacheLogger(logger log.Logger) CacheOption {
	return func(o *cacheOptions) {
		o.logger = logger
	}
}

// NewFieldCache indexes the fields of f. Fields typed FieldTypeOther are
// resolved with GuessTypeForField and updated in place when a type is found.
// When several fields share a name the first one is kept and the rest are
// reported through Duplicates.
func NewFieldCache(f *Frame, opts ...CacheOption) *FieldCache {
	o := cacheOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrNoop(o.logger)

	c := &FieldCache{
		byType: make(map[FieldType][]*Field),
		byName: make(map[string]FieldWithIndex),
	}
	if f == nil {
		return c
	}
	c.fields = slices.Clone(f.Fields)

	for i, field := range c.fields {
		if field.Type == FieldTypeOther || field.Type == "" {
			if t, ok := GuessTypeForField(field); ok {
				field.Type = t
			} else {
				field.Type = FieldTypeOther
			}
		}
		c.byType[field.Type] = append(c.byType[field.Type], field)

		if _, exists := c.byName[field.Name]; exists {
			c.duplicates = append(c.duplicates, field.Name)
			logger.Warn("duplicate field name in frame",
				log.String("frame", f.Name),
				log.String("field", field.Name),
				log.Int("index", i),
			)
			continue
		}
		c.byName[field.Name] = FieldWithIndex{Field: field, Index: i}
	}
	return c
}

// Fields returns all fields in frame order.
func (c *FieldCache) Fields() []*Field {
	return slices.Clone(c.fields)
}

// FieldsOfType returns the fields of type t in frame order. The result is
// empty, never nil.
func (c *FieldCache) FieldsOfType(t FieldType) []*Field {
	out := make([]*Field, len(c.byType[t]))
	copy(out, c.byType[t])
	return out
}

// HasFieldOfType reports whether any field has type t.
func (c *FieldCache) HasFieldOfType(t FieldType) bool {
	return len(c.byType[t]) > 0
}

// FirstFieldOfType returns the first field of type t.
func (c *FieldCache) FirstFieldOfType(t FieldType) (*Field, bool) {
	fields := c.byType[t]
	if len(fields) == 0 {
		return nil, false
	}
	return fields[0], true
}

// HasFieldNamed reports whether a field called name exists.
func (c *FieldCache) HasFieldNamed(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// FieldByName returns the first field called name.
func (c *FieldCache) FieldByName(name string) (*Field, bool) {
	f, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return f.Field, true
}

// FieldWithIndexByName returns the first field called name and its position.
func (c *FieldCache) FieldWithIndexByName(name string) (FieldWithIndex, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// Duplicates returns the names that appeared more than once, in the order
// the repeats were found.
func (c *FieldCache) Duplicates() []string {
	return slices.Clone(c.duplicates)
}
