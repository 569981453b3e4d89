package schema

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Schema is an ordered, immutable collection of attributes. It decodes untyped
// input into typed values (Parse) and encodes them back into their wire shape
// (Render). A Schema is safe for concurrent use.
type Schema struct {
	attributes []*Attribute
	index      map[string]*Attribute
	formats    Formats
}

// Attributes returns the attributes in declaration order.
func (s *Schema) Attributes() []*Attribute {
	out := make([]*Attribute, len(s.attributes))
	copy(out, s.attributes)
	return out
}

// Attribute returns the attribute declared under name.
func (s *Schema) Attribute(name string) (*Attribute, bool) {
	a, ok := s.index[name]
	return a, ok
}

// Len returns the number of declared attributes.
func (s *Schema) Len() int { return len(s.attributes) }

// Formats returns the casting formats the schema's attributes inherit.
func (s *Schema) Formats() Formats { return s.formats }

// Parse decodes data attribute by attribute in declaration order. Absent values
// are omitted from the output. Parsing stops at the first failing attribute and
// returns what was decoded before it along with the error.
func (s *Schema) Parse(data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.attributes))
	if data == nil {
		data = map[string]any{}
	}
	for _, a := range s.attributes {
		v, err := a.Process(data)
		if err != nil {
			return out, err
		}
		if v == nil {
			continue
		}
		if a.inline {
			if m, ok := v.(map[string]any); ok {
				for k, mv := range m {
					out[k] = mv
				}
				continue
			}
		}
		out[a.name] = v
	}
	return out, nil
}

// Render encodes decoded values into their output shape: keys are renamed by
// bind_to, values are translated by value maps, nested schemas are rendered
// recursively and inline or uplifted attributes are merged into the parent.
func (s *Schema) Render(decoded map[string]any) map[string]any {
	out := make(map[string]any, len(s.attributes))
	s.renderInto(decoded, out)
	return out
}

func (s *Schema) renderInto(decoded, out map[string]any) {
	for _, a := range s.attributes {
		a.render(decoded, out)
	}
}

// extractInline collects the values of the schema's attributes from a parent
// container. It returns nil when none is present.
func (s *Schema) extractInline(container map[string]any) map[string]any {
	out := map[string]any{}
	for _, a := range s.attributes {
		if a.inline {
			for k, v := range a.nested.extractInline(container) {
				out[k] = v
			}
			continue
		}
		if v := container[a.name]; v != nil {
			out[a.name] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Decode parses data and decodes the result into out, a pointer to a struct
// or map, using mapstructure field tags.
func (s *Schema) Decode(data map[string]any, out any) error {
	parsed, err := s.Parse(data)
	if err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		DecodeHook: dateToTimeHook,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(parsed); err != nil {
		return fmt.Errorf("failed to decode parsed data: %w", err)
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

func dateToTimeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if d, ok := data.(Date); ok && to == timeType {
		return d.Time, nil
	}
	return data, nil
}

// Result is the outcome of a one-shot validation.
type Result struct {
	Data map[string]any `json:"data"`
	Err  error          `json:"-"`
}

// Failed reports whether validation failed.
func (r Result) Failed() bool { return r.Err != nil }

// Validate builds a throwaway schema from spec and parses data with it. The
// returned error is set when spec is invalid, or when validation fails and
// WithRaiseOnError was given; otherwise validation failures are carried in
// Result.Err next to the partially decoded data.
func Validate(spec Spec, data map[string]any, opts ...Option) (Result, error) {
	return run(spec, data, opts, func(s *Schema, parsed map[string]any) map[string]any {
		return parsed
	})
}

// Convert is Validate followed by Render: the decoded values come back in their
// output shape.
func Convert(spec Spec, data map[string]any, opts ...Option) (Result, error) {
	return run(spec, data, opts, func(s *Schema, parsed map[string]any) map[string]any {
		return s.Render(parsed)
	})
}

func run(spec Spec, data map[string]any, opts []Option, finish func(*Schema, map[string]any) map[string]any) (Result, error) {
	o := newOptions(opts)
	s, err := fromSpec(spec, o.formats)
	if err != nil {
		return Result{}, err
	}
	parsed, err := s.Parse(data)
	if err != nil && o.raise {
		return Result{}, err
	}
	return Result{Data: finish(s, parsed), Err: err}, nil
}
