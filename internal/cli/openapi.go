package cli

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/citrine/pkg/schema"
)

// OpenAPI writes the OpenAPI description of a schema file to out.
func OpenAPI(opts OpenAPIOptions, out io.Writer) error {
	spec, err := schema.LoadSpecFile(opts.SchemaPath)
	if err != nil {
		return err
	}
	s, err := schema.FromSpec(spec, opts.Formats.schemaOptions()...)
	if err != nil {
		return err
	}
	doc := s.OpenAPI()

	switch opts.Format {
	case "json":
		return writeJSON(out, doc, true)
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}
