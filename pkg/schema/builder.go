package schema

import (
	"errors"
	"fmt"
)

// Builder declares the attributes of a Schema in order.
type Builder struct {
	formats Formats
	attrs   []*Attribute
	index   map[string]int
	errs    []error
}

// NewBuilder creates a builder whose attributes inherit the given options.
func NewBuilder(opts ...Option) *Builder {
	return newBuilder(newOptions(opts).formats)
}

func newBuilder(formats Formats) *Builder {
	return &Builder{
		formats: formats,
		index:   make(map[string]int),
	}
}

// Attribute declares an attribute. Declaring a name twice replaces the earlier
// definition but keeps its position.
func (b *Builder) Attribute(name string, opts ...AttributeOption) *Builder {
	a, err := newAttribute(name, b.formats, opts)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	if i, ok := b.index[a.name]; ok {
		b.attrs[i] = a
		return b
	}
	b.index[a.name] = len(b.attrs)
	b.attrs = append(b.attrs, a)
	return b
}

// Build returns the schema, or every declaration error joined together.
func (b *Builder) Build() (*Schema, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	s := &Schema{
		attributes: make([]*Attribute, len(b.attrs)),
		index:      make(map[string]*Attribute, len(b.attrs)),
		formats:    b.formats,
	}
	copy(s.attributes, b.attrs)
	for _, a := range s.attributes {
		s.index[a.name] = a
	}
	return s, nil
}

// New builds a schema from a builder function.
//
//	s, err := schema.New(func(b *schema.Builder) {
//		b.Attribute("age", schema.Typed(schema.TypeInteger))
//	})
func New(build func(*Builder), opts ...Option) (*Schema, error) {
	b := NewBuilder(opts...)
	if build != nil {
		build(b)
	}
	return b.Build()
}

// MustNew is like New but panics when the schema is invalid. It is meant for
// package-level schema declarations.
func MustNew(build func(*Builder), opts ...Option) *Schema {
	s, err := New(build, opts...)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return s
}
