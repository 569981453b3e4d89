package cli

import (
	"github.com/aretw0/citrine/pkg/schema"
)

// FormatFlags holds the casting format overrides given on the command line.
// Empty strings and nil numbers keep the schema defaults.
type FormatFlags struct {
	DateFormat       string
	DatetimeFormat   string
	TimeFormat       string
	DecimalPrecision *int
	IntegerBase      *int
}

func (f FormatFlags) schemaOptions() []schema.Option {
	var opts []schema.Option
	if f.DateFormat != "" {
		opts = append(opts, schema.WithDateFormat(f.DateFormat))
	}
	if f.DatetimeFormat != "" {
		opts = append(opts, schema.WithDatetimeFormat(f.DatetimeFormat))
	}
	if f.TimeFormat != "" {
		opts = append(opts, schema.WithTimeFormat(f.TimeFormat))
	}
	if f.DecimalPrecision != nil {
		opts = append(opts, schema.WithDecimalPrecision(*f.DecimalPrecision))
	}
	if f.IntegerBase != nil {
		opts = append(opts, schema.WithIntegerBase(*f.IntegerBase))
	}
	return opts
}

// CheckOptions contains the configuration of the validate and convert commands.
type CheckOptions struct {
	SchemaPath string
	DataPath   string // "-" or empty reads standard input
	Render     bool   // Render the decoded data (convert)
	Raise      bool
	Pretty     bool // Indent the JSON output
	Formats    FormatFlags
}

// OpenAPIOptions contains the configuration of the openapi command.
type OpenAPIOptions struct {
	SchemaPath string
	Format     string // "yaml" or "json"
	Formats    FormatFlags
}
