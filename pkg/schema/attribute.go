package schema

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/spf13/cast"
)

// Attribute is a single named field of a Schema with its casting and validation rules.
// Attributes are immutable once built; the value being processed is always passed
// as a parameter, so one Attribute can serve concurrent parses.
type Attribute struct {
	name        string
	displayName string
	bindTo      string
	valueMap    map[string]any
	typ         Type
	required    bool
	def         any
	constraint  Constraint
	pattern     *regexp2.Regexp
	patternExpr string
	assure      func(any) bool
	tag         string
	transform   func(any) any
	array       bool
	inline      bool
	uplift      bool
	nested      *Schema
	formats     Formats
}

// NewAttribute builds a standalone attribute. Most callers declare attributes
// through a Builder or a Spec instead.
func NewAttribute(name string, opts ...AttributeOption) (*Attribute, error) {
	return newAttribute(name, DefaultFormats(), opts)
}

func newAttribute(name string, inherited Formats, opts []AttributeOption) (*Attribute, error) {
	cfg := attributeConfig{required: true, formats: inherited}
	for _, opt := range opts {
		opt(&cfg)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, specError("attribute name is required")
	}
	a := &Attribute{
		name:        name,
		displayName: strings.ToUpper(name),
		bindTo:      cfg.bindTo,
		valueMap:    cfg.valueMap,
		typ:         cfg.typ,
		required:    cfg.required,
		constraint:  cfg.constraint,
		patternExpr: cfg.pattern,
		assure:      cfg.assure,
		tag:         cfg.tag,
		transform:   cfg.transform,
		array:       cfg.array,
		inline:      cfg.inline,
		uplift:      cfg.uplift,
		formats:     cfg.formats,
	}

	if a.typ != "" {
		if _, ok := typeHandlers[a.typ]; !ok {
			return nil, specError("UNKNOWN type for attribute %s: %s", a.displayName, a.typ)
		}
	}
	if cfg.hasNested {
		if a.typ != "" {
			return nil, specError("attribute %s cannot declare both a type and a nested schema", a.displayName)
		}
		if a.inline && a.array {
			return nil, specError("array attribute %s cannot have an inline schema", a.displayName)
		}
		nested, err := buildNested(cfg)
		if err != nil {
			return nil, fmt.Errorf("nested schema of attribute %s: %w", a.displayName, err)
		}
		a.nested = nested
	} else if a.uplift {
		return nil, specError("attribute %s cannot uplift without a nested schema", a.displayName)
	}

	if err := a.verify(cfg.def); err != nil {
		return nil, err
	}
	return a, nil
}

func buildNested(cfg attributeConfig) (*Schema, error) {
	if cfg.nested != nil {
		b := newBuilder(cfg.formats)
		cfg.nested(b)
		return b.Build()
	}
	return fromSpec(cfg.nestedSpec, cfg.formats)
}

func (a *Attribute) verify(def any) error {
	if a.patternExpr != "" {
		re, err := compilePattern(a.patternExpr)
		if err != nil {
			return specError("matching pattern of attribute %s: %v", a.displayName, err)
		}
		a.pattern = re
	}
	if a.tag != "" {
		if err := verifyTag(a.tag); err != nil {
			return specError("validation tag of attribute %s: %v", a.displayName, err)
		}
	}
	if n, ok := a.constraint.(normalizer); ok && a.Typed() {
		c, err := n.normalize(a.castScalar)
		if err != nil {
			return specError("allowed values of attribute %s: %v", a.displayName, err)
		}
		a.constraint = c
	}
	if def == nil {
		return nil
	}
	v, err := a.cast(def)
	if err == nil {
		err = a.Validate(v)
	}
	if err != nil {
		return fmt.Errorf("%w: default of attribute %s: %w", ErrInvalidSpec, a.displayName, err)
	}
	a.def = v
	return nil
}

// Name returns the attribute name, the key it is read from.
func (a *Attribute) Name() string { return a.name }

// DisplayName returns the upper-cased name used in error messages.
func (a *Attribute) DisplayName() string { return a.displayName }

// Key returns the key the attribute is rendered under.
func (a *Attribute) Key() string {
	if a.bindTo != "" {
		return a.bindTo
	}
	return a.name
}

func (a *Attribute) Type() Type { return a.typ }
func (a *Attribute) Required() bool { return a.required }
func (a *Attribute) Default() any { return a.def }
func (a *Attribute) Array() bool { return a.array }
func (a *Attribute) Inline() bool { return a.inline }
func (a *Attribute) Uplift() bool { return a.uplift }
func (a *Attribute) Nested() *Schema { return a.nested }
func (a *Attribute) Formats() Formats { return a.formats }
func (a *Attribute) Typed() bool { return a.typ != "" }
func (a *Attribute) HasDefault() bool { return a.def != nil }
func (a *Attribute) HasSchema() bool { return a.nested != nil }
func (a *Attribute) Pattern() string { return a.patternExpr }
func (a *Attribute) Tag() string { return a.tag }
func (a *Attribute) Allowed() Constraint { return a.constraint }

// Process extracts the attribute's value from container, casts it and validates
// the final value. A nil result with a nil error means the value is absent.
func (a *Attribute) Process(container map[string]any) (any, error) {
	v := a.extract(container)
	if v == nil && a.def != nil {
		v = a.def
	}
	v, err := a.cast(v)
	if err != nil {
		return nil, err
	}
	if a.transform != nil {
		v = a.transform(v)
	}
	if err := a.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (a *Attribute) extract(container map[string]any) any {
	if a.inline {
		if m := a.nested.extractInline(container); m != nil {
			return m
		}
		return nil
	}
	return container[a.name]
}

func (a *Attribute) cast(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if !a.array {
		return a.castElement(v)
	}
	items, ok := toSlice(v)
	if !ok {
		return nil, a.fail(KindNotArray, "", v, nil)
	}
	out := make([]any, len(items))
	for i, item := range items {
		cv, err := a.castElement(item)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

func (a *Attribute) castElement(v any) (any, error) {
	if a.nested != nil {
		if v == nil {
			return nil, nil
		}
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, a.fail(KindTypeCasting, err.Error(), v, err)
		}
		parsed, err := a.nested.Parse(m)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	}
	if a.typ == "" {
		return v, nil
	}
	if v == nil {
		err := fmt.Errorf("can't convert nil into %s", a.typ)
		return nil, a.fail(KindTypeCasting, err.Error(), v, err)
	}
	cv, err := a.castScalar(v)
	if err != nil {
		return nil, a.fail(KindTypeCasting, err.Error(), v, err)
	}
	return cv, nil
}

// castScalar casts v to the declared type unless it already has it.
func (a *Attribute) castScalar(v any) (any, error) {
	h := typeHandlers[a.typ]
	if h.is(v) {
		return v, nil
	}
	return h.cast(v, a.formats)
}

// Validate checks a final, already cast value against the attribute rules in
// order: presence, array shape, type, allowed values, pattern, assurance and
// validation tag.
func (a *Attribute) Validate(v any) error {
	if v == nil {
		if a.required {
			return a.fail(KindMissingRequired, "", nil, nil)
		}
		return nil
	}
	if !a.array {
		return a.validateElement(v, v)
	}
	items, ok := toSlice(v)
	if !ok {
		return a.fail(KindNotArray, "", v, nil)
	}
	for _, item := range items {
		if err := a.validateElement(item, v); err != nil {
			return err
		}
	}
	return nil
}

func (a *Attribute) validateElement(v, whole any) error {
	if a.Typed() && !typeHandlers[a.typ].is(v) {
		reason := fmt.Sprintf("MUST be an instance of %s", a.typ)
		if a.array {
			reason = fmt.Sprintf("MUST be an array of %s", a.typ)
		}
		return a.fail(KindTypeMismatched, reason, whole, nil)
	}
	if a.constraint != nil && !a.constraint.Includes(v) {
		return a.fail(KindInvalidValue, fmt.Sprintf("%s is NOT one of %s", inspect(v), a.constraint), v, nil)
	}
	if a.pattern != nil && !matchPattern(a.pattern, v) {
		return a.fail(KindInvalidValue, fmt.Sprintf("%s does NOT match /%s/", inspect(v), a.patternExpr), v, nil)
	}
	if a.assure != nil && !a.assure(v) {
		return a.fail(KindInvalidValue, fmt.Sprintf("%s does NOT meet the assurance.", inspect(v)), v, nil)
	}
	if a.tag != "" {
		if err := checkTag(v, a.tag); err != nil {
			return a.fail(KindInvalidValue, fmt.Sprintf("%s does NOT satisfy %q", inspect(v), a.tag), v, err)
		}
	}
	return nil
}

func (a *Attribute) fail(kind Kind, reason string, v any, err error) *ValidationError {
	return &ValidationError{Kind: kind, Attribute: a.displayName, Reason: reason, Value: v, Err: err}
}

// render writes the attribute's entry of decoded into out.
func (a *Attribute) render(decoded, out map[string]any) {
	if a.inline {
		a.nested.renderInto(decoded, out)
		return
	}
	v, ok := decoded[a.name]
	if !ok || v == nil {
		return
	}
	switch {
	case a.nested != nil:
		v = a.renderNested(v)
		if a.uplift {
			if m, ok := v.(map[string]any); ok {
				for k, mv := range m {
					out[k] = mv
				}
				return
			}
		}
	case a.valueMap != nil:
		v = a.mapValue(v)
	}
	out[a.Key()] = v
}

func (a *Attribute) renderNested(v any) any {
	if !a.array {
		return a.renderNestedElement(v)
	}
	items, ok := toSlice(v)
	if !ok {
		return v
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = a.renderNestedElement(item)
	}
	return out
}

func (a *Attribute) renderNestedElement(v any) any {
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return v
	}
	return a.nested.Render(m)
}

func (a *Attribute) mapValue(v any) any {
	if !a.array {
		return a.valueMap[fmt.Sprint(v)]
	}
	items, ok := toSlice(v)
	if !ok {
		return a.valueMap[fmt.Sprint(v)]
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = a.valueMap[fmt.Sprint(item)]
	}
	return out
}

// inspect formats a value for error messages, quoting strings.
func inspect(v any) string {
	switch s := v.(type) {
	case string:
		return fmt.Sprintf("%q", s)
	case Symbol:
		return ":" + string(s)
	case nil:
		return "nil"
	}
	return fmt.Sprint(v)
}
