package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Spec is the declarative form of a schema: an ordered list of fields with
// their options. In YAML or JSON it is a mapping from attribute name to options:
//
//	age:
//	  type: integer
//	address:
//	  schema:
//	    street: {type: string}
//
// Recognized options are type, required, default, any_of, range, match,
// validate, bind_to, map, array, uplift, schema, schema_inline and the format
// options (date_format, datetime_format, time_format, decimal_precision,
// integer_base). When building specs in Go, assure may hold a func(any) bool,
// transform a func(any) any and any_of a Constraint.
type Spec []Field

// Field is one attribute declaration of a Spec.
type Field struct {
	Name    string
	Options map[string]any
}

// UnmarshalYAML decodes a mapping node while keeping the declaration order.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: schema specification MUST be a mapping (line %d)", ErrInvalidSpec, node.Line)
	}
	spec := make(Spec, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		opts, err := decodeFieldOptions(value)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", key.Value, err)
		}
		spec = append(spec, Field{Name: key.Value, Options: opts})
	}
	*s = spec
	return nil
}

// UnmarshalJSON decodes a JSON object while keeping the declaration order.
func (s *Spec) UnmarshalJSON(data []byte) error {
	return yaml.Unmarshal(data, s)
}

func decodeFieldOptions(node *yaml.Node) (map[string]any, error) {
	switch {
	case node.Kind == yaml.ScalarNode && node.Tag == "!!null":
		return map[string]any{}, nil
	case node.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("%w: options MUST be a mapping (line %d)", ErrInvalidSpec, node.Line)
	}
	opts := make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		if key == "schema" || key == "schema_inline" {
			var nested Spec
			if err := nested.UnmarshalYAML(value); err != nil {
				return nil, err
			}
			opts[key] = nested
			continue
		}
		var v any
		if err := value.Decode(&v); err != nil {
			return nil, err
		}
		opts[key] = v
	}
	return opts, nil
}

// ParseSpec decodes a YAML (or JSON) document into a Spec.
func ParseSpec(data []byte) (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse schema spec: %w", err)
	}
	return spec, nil
}

// LoadSpecFile reads a schema spec from a YAML or JSON file, chosen by extension.
func LoadSpecFile(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema spec: %w", err)
	}

	var spec Spec
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("unsupported schema spec extension %q", ext)
	}
	return spec, nil
}

// FromSpec builds a schema from its declarative form.
func FromSpec(spec Spec, opts ...Option) (*Schema, error) {
	return fromSpec(spec, newOptions(opts).formats)
}

// MustFromSpec is like FromSpec but panics when the spec is invalid.
func MustFromSpec(spec Spec, opts ...Option) *Schema {
	s, err := FromSpec(spec, opts...)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return s
}

func fromSpec(spec Spec, formats Formats) (*Schema, error) {
	b := newBuilder(formats)
	for _, f := range spec {
		opts, err := f.attributeOptions()
		if err != nil {
			b.errs = append(b.errs, fmt.Errorf("attribute %s: %w", strings.ToUpper(f.Name), err))
			continue
		}
		b.Attribute(f.Name, opts...)
	}
	return b.Build()
}

type fieldOptions struct {
	Type     string          `mapstructure:"type"`
	Required *bool           `mapstructure:"required"`
	Default  any             `mapstructure:"default"`
	AnyOf    []any           `mapstructure:"any_of"`
	Range    []any           `mapstructure:"range"`
	Match    string          `mapstructure:"match"`
	Validate string          `mapstructure:"validate"`
	BindTo   string          `mapstructure:"bind_to"`
	Map      map[string]any  `mapstructure:"map"`
	Array    bool            `mapstructure:"array"`
	Uplift   bool            `mapstructure:"uplift"`
	Formats  formatOverrides `mapstructure:",squash"`
}

// attributeOptions translates the declarative options of a field. Options
// holding Go values (functions, constraints, nested specs) are taken out before
// the rest is decoded.
func (f Field) attributeOptions() ([]AttributeOption, error) {
	raw := make(map[string]any, len(f.Options))
	for k, v := range f.Options {
		raw[k] = v
	}

	var opts []AttributeOption
	if v, ok := pop(raw, "assure"); ok {
		fn, ok := v.(func(any) bool)
		if !ok {
			return nil, specError("assure MUST be a func(any) bool, got %T", v)
		}
		opts = append(opts, Assure(fn))
	}
	if v, ok := pop(raw, "transform"); ok {
		fn, ok := v.(func(any) any)
		if !ok {
			return nil, specError("transform MUST be a func(any) any, got %T", v)
		}
		opts = append(opts, Transform(fn))
	}
	if c, ok := raw["any_of"].(Constraint); ok {
		delete(raw, "any_of")
		opts = append(opts, Allow(c))
	}
	for _, key := range []string{"schema", "schema_inline"} {
		v, ok := pop(raw, key)
		if !ok {
			continue
		}
		nested, err := toSpec(v)
		if err != nil {
			return nil, err
		}
		if key == "schema" {
			opts = append(opts, NestedSpec(nested))
		} else {
			opts = append(opts, NestedInlineSpec(nested))
		}
	}

	var fo fieldOptions
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &fo,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, specError("%v", err)
	}
	if n := len(fo.Range); n != 0 && n != 2 {
		return nil, specError("range MUST have exactly two bounds, got %d", n)
	}
	return append(fo.options(), opts...), nil
}

func (fo fieldOptions) options() []AttributeOption {
	opts := fo.Formats.options()
	if fo.Type != "" {
		opts = append(opts, Typed(Type(strings.ToLower(fo.Type))))
	}
	if fo.Required != nil {
		opts = append(opts, Required(*fo.Required))
	}
	if fo.Default != nil {
		opts = append(opts, Default(fo.Default))
	}
	if len(fo.AnyOf) > 0 {
		opts = append(opts, AnyOf(fo.AnyOf...))
	}
	if len(fo.Range) == 2 {
		opts = append(opts, Allow(Between(fo.Range[0], fo.Range[1])))
	}
	if fo.Match != "" {
		opts = append(opts, Match(fo.Match))
	}
	if fo.Validate != "" {
		opts = append(opts, ValidateTag(fo.Validate))
	}
	if fo.BindTo != "" {
		opts = append(opts, BindTo(fo.BindTo))
	}
	if fo.Map != nil {
		opts = append(opts, ValueMap(fo.Map))
	}
	if fo.Array {
		opts = append(opts, Array())
	}
	if fo.Uplift {
		opts = append(opts, Uplift())
	}
	return opts
}

func pop(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if ok {
		delete(m, key)
	}
	return v, ok
}

// toSpec accepts a Spec or a plain map for nested schemas. Plain maps have no
// order, so their fields are sorted by name.
func toSpec(v any) (Spec, error) {
	switch s := v.(type) {
	case Spec:
		return s, nil
	case []Field:
		return Spec(s), nil
	case map[string]any:
		names := make([]string, 0, len(s))
		for name := range s {
			names = append(names, name)
		}
		sort.Strings(names)
		spec := make(Spec, 0, len(names))
		for _, name := range names {
			opts, ok := s[name].(map[string]any)
			if !ok && s[name] != nil {
				return nil, specError("options of attribute %s MUST be a map, got %T", strings.ToUpper(name), s[name])
			}
			spec = append(spec, Field{Name: name, Options: opts})
		}
		return spec, nil
	}
	return nil, specError("nested schema MUST be a Spec, got %T", v)
}
