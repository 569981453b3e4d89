package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/citrine/pkg/schema"
)

// ErrInvalidData is returned by Check when the data does not satisfy the schema.
var ErrInvalidData = errors.New("data is invalid")

// Report is the JSON document printed by Check.
type Report struct {
	Data  map[string]any `json:"data"`
	Error string         `json:"error,omitempty"`
	Code  string         `json:"code,omitempty"`
}

// Check validates (or converts) a data document against a schema file and
// writes a Report to out. Validation failures are reported and returned as
// ErrInvalidData; with Raise set, nothing is printed and the validation error
// itself is returned.
func Check(opts CheckOptions, in io.Reader, out io.Writer, logger *slog.Logger) (*Report, error) {
	spec, err := schema.LoadSpecFile(opts.SchemaPath)
	if err != nil {
		return nil, err
	}
	data, err := readData(opts.DataPath, in)
	if err != nil {
		return nil, err
	}
	logger.Debug("data loaded", "schema", opts.SchemaPath, "fields", len(spec), "keys", len(data))

	schemaOpts := opts.Formats.schemaOptions()
	if opts.Raise {
		schemaOpts = append(schemaOpts, schema.WithRaiseOnError())
	}

	check := schema.Validate
	if opts.Render {
		check = schema.Convert
	}
	res, err := check(spec, data, schemaOpts...)
	if err != nil {
		return nil, err
	}

	report := &Report{Data: res.Data}
	if res.Failed() {
		report.Error = res.Err.Error()
		if verr, ok := schema.AsValidationError(res.Err); ok {
			report.Code = verr.Category()
		}
		logger.Info("validation failed", "schema", opts.SchemaPath, "error", res.Err)
	}

	if err := writeJSON(out, report, opts.Pretty); err != nil {
		return report, err
	}
	if res.Failed() {
		return report, ErrInvalidData
	}
	return report, nil
}

// readData decodes a YAML or JSON document from path, or from in when path is
// empty or "-". An empty document is an empty map.
func readData(path string, in io.Reader) (map[string]any, error) {
	var raw []byte
	var err error
	if path == "" || path == "-" {
		raw, err = io.ReadAll(in)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	if raw, err = sanitizeInput(raw); err != nil {
		return nil, err
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
