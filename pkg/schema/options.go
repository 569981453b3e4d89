package schema

// Option configures a Schema or a one-shot Validate/Convert call.
type Option func(*options)

type options struct {
	formats Formats
	raise   bool
}

func newOptions(opts []Option) options {
	o := options{formats: DefaultFormats()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFormats replaces the format options at once. Zero fields keep their
// defaults; use WithDecimalPrecision or WithIntegerBase to set a zero on purpose.
func WithFormats(f Formats) Option {
	return func(o *options) {
		o.formats = f.withDefaults()
	}
}

// WithDateFormat sets the strftime format used for date values.
func WithDateFormat(format string) Option {
	return func(o *options) {
		o.formats.DateFormat = format
	}
}

// WithDatetimeFormat sets the strftime format used for datetime values.
func WithDatetimeFormat(format string) Option {
	return func(o *options) {
		o.formats.DatetimeFormat = format
	}
}

// WithTimeFormat sets the strftime format used for time values.
func WithTimeFormat(format string) Option {
	return func(o *options) {
		o.formats.TimeFormat = format
	}
}

// WithDecimalPrecision sets the number of decimal places kept by decimal attributes.
func WithDecimalPrecision(precision int) Option {
	return func(o *options) {
		o.formats.DecimalPrecision = precision
	}
}

// WithIntegerBase sets the base used to parse integer strings.
func WithIntegerBase(base int) Option {
	return func(o *options) {
		o.formats.IntegerBase = base
	}
}

// WithRaiseOnError makes Validate and Convert return validation failures as their
// error instead of inside the Result.
func WithRaiseOnError() Option {
	return func(o *options) {
		o.raise = true
	}
}

// AttributeOption configures a single attribute.
type AttributeOption func(*attributeConfig)

type attributeConfig struct {
	typ        Type
	required   bool
	def        any
	constraint Constraint
	pattern    string
	assure     func(any) bool
	tag        string
	bindTo     string
	valueMap   map[string]any
	transform  func(any) any
	array      bool
	inline     bool
	uplift     bool
	nested     func(*Builder)
	nestedSpec Spec
	hasNested  bool
	formats    Formats
}

// Typed declares the attribute type.
func Typed(t Type) AttributeOption {
	return func(c *attributeConfig) {
		c.typ = t
	}
}

// Required sets whether the attribute must be present. Attributes are required by default.
func Required(required bool) AttributeOption {
	return func(c *attributeConfig) {
		c.required = required
	}
}

// Optional is shorthand for Required(false).
func Optional() AttributeOption {
	return Required(false)
}

// Default sets the value used when the attribute is absent or nil.
func Default(v any) AttributeOption {
	return func(c *attributeConfig) {
		c.def = v
	}
}

// AnyOf restricts the attribute to the given values.
func AnyOf(values ...any) AttributeOption {
	return Allow(OneOf(values...))
}

// Allow restricts the attribute with an arbitrary constraint.
func Allow(constraint Constraint) AttributeOption {
	return func(c *attributeConfig) {
		c.constraint = constraint
	}
}

// Match requires the string form of the value to match the pattern.
func Match(pattern string) AttributeOption {
	return func(c *attributeConfig) {
		c.pattern = pattern
	}
}

// Assure requires the predicate to hold for the value.
func Assure(fn func(any) bool) AttributeOption {
	return func(c *attributeConfig) {
		c.assure = fn
	}
}

// ValidateTag requires the value to satisfy a go-playground validator tag, e.g. "email" or "min=1".
func ValidateTag(tag string) AttributeOption {
	return func(c *attributeConfig) {
		c.tag = tag
	}
}

// BindTo renders the attribute under a different key.
func BindTo(key string) AttributeOption {
	return func(c *attributeConfig) {
		c.bindTo = key
	}
}

// ValueMap translates rendered values through the table, keyed by the value's string form.
func ValueMap(m map[string]any) AttributeOption {
	return func(c *attributeConfig) {
		c.valueMap = m
	}
}

// Transform applies fn to the cast value before validation.
func Transform(fn func(any) any) AttributeOption {
	return func(c *attributeConfig) {
		c.transform = fn
	}
}

// Array makes the attribute hold a sequence of values.
func Array() AttributeOption {
	return func(c *attributeConfig) {
		c.array = true
	}
}

// Nested gives the attribute a nested schema read from under the attribute name.
func Nested(build func(*Builder)) AttributeOption {
	return func(c *attributeConfig) {
		c.nested, c.nestedSpec, c.hasNested = build, nil, true
	}
}

// NestedInline gives the attribute a nested schema whose fields live at the same
// level as the parent's fields.
func NestedInline(build func(*Builder)) AttributeOption {
	return func(c *attributeConfig) {
		c.nested, c.nestedSpec, c.hasNested, c.inline = build, nil, true, true
	}
}

// NestedSpec is Nested with a declarative spec.
func NestedSpec(spec Spec) AttributeOption {
	return func(c *attributeConfig) {
		c.nested, c.nestedSpec, c.hasNested = nil, spec, true
	}
}

// NestedInlineSpec is NestedInline with a declarative spec.
func NestedInlineSpec(spec Spec) AttributeOption {
	return func(c *attributeConfig) {
		c.nested, c.nestedSpec, c.hasNested, c.inline = nil, spec, true, true
	}
}

// Uplift renders a nested attribute's fields into the parent without a wrapping key.
func Uplift() AttributeOption {
	return func(c *attributeConfig) {
		c.uplift = true
	}
}

// DateFormat overrides the inherited date format.
func DateFormat(format string) AttributeOption {
	return func(c *attributeConfig) {
		c.formats.DateFormat = format
	}
}

// DatetimeFormat overrides the inherited datetime format.
func DatetimeFormat(format string) AttributeOption {
	return func(c *attributeConfig) {
		c.formats.DatetimeFormat = format
	}
}

// TimeFormat overrides the inherited time format.
func TimeFormat(format string) AttributeOption {
	return func(c *attributeConfig) {
		c.formats.TimeFormat = format
	}
}

// DecimalPrecision overrides the inherited decimal precision.
func DecimalPrecision(precision int) AttributeOption {
	return func(c *attributeConfig) {
		c.formats.DecimalPrecision = precision
	}
}

// IntegerBase overrides the inherited integer base.
func IntegerBase(base int) AttributeOption {
	return func(c *attributeConfig) {
		c.formats.IntegerBase = base
	}
}
