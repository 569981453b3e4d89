package schema

// Default casting formats. Date and time formats use strftime directives.
const (
	DefaultDateFormat       = "%Y-%m-%d"
	DefaultDatetimeFormat   = "%Y-%m-%dT%H:%M:%S.%L"
	DefaultTimeFormat       = DefaultDatetimeFormat
	DefaultDecimalPrecision = 2
	DefaultIntegerBase      = 10
)

// Formats holds the casting options an attribute inherits from its schema.
type Formats struct {
	DateFormat       string `json:"date_format" yaml:"date_format" mapstructure:"date_format"`
	DatetimeFormat   string `json:"datetime_format" yaml:"datetime_format" mapstructure:"datetime_format"`
	TimeFormat       string `json:"time_format" yaml:"time_format" mapstructure:"time_format"`
	DecimalPrecision int    `json:"decimal_precision" yaml:"decimal_precision" mapstructure:"decimal_precision"`
	IntegerBase      int    `json:"integer_base" yaml:"integer_base" mapstructure:"integer_base"`
}

// DefaultFormats returns the formats used when nothing is overridden.
func DefaultFormats() Formats {
	return Formats{
		DateFormat:       DefaultDateFormat,
		DatetimeFormat:   DefaultDatetimeFormat,
		TimeFormat:       DefaultTimeFormat,
		DecimalPrecision: DefaultDecimalPrecision,
		IntegerBase:      DefaultIntegerBase,
	}
}

// withDefaults fills the zero fields of f from DefaultFormats.
func (f Formats) withDefaults() Formats {
	d := DefaultFormats()
	if f.DateFormat == "" {
		f.DateFormat = d.DateFormat
	}
	if f.DatetimeFormat == "" {
		f.DatetimeFormat = d.DatetimeFormat
	}
	if f.TimeFormat == "" {
		f.TimeFormat = d.TimeFormat
	}
	if f.DecimalPrecision == 0 {
		f.DecimalPrecision = d.DecimalPrecision
	}
	if f.IntegerBase == 0 {
		f.IntegerBase = d.IntegerBase
	}
	return f
}

// formatOverrides carries optional per-attribute format options decoded from a spec.
type formatOverrides struct {
	DateFormat       *string `mapstructure:"date_format"`
	DatetimeFormat   *string `mapstructure:"datetime_format"`
	TimeFormat       *string `mapstructure:"time_format"`
	DecimalPrecision *int    `mapstructure:"decimal_precision"`
	IntegerBase      *int    `mapstructure:"integer_base"`
}

func (o formatOverrides) options() []AttributeOption {
	var opts []AttributeOption
	if o.DateFormat != nil {
		opts = append(opts, DateFormat(*o.DateFormat))
	}
	if o.DatetimeFormat != nil {
		opts = append(opts, DatetimeFormat(*o.DatetimeFormat))
	}
	if o.TimeFormat != nil {
		opts = append(opts, TimeFormat(*o.TimeFormat))
	}
	if o.DecimalPrecision != nil {
		opts = append(opts, DecimalPrecision(*o.DecimalPrecision))
	}
	if o.IntegerBase != nil {
		opts = append(opts, IntegerBase(*o.IntegerBase))
	}
	return opts
}
