// Package schema validates and coerces untyped data against a declarative description.
//
// A Schema is an ordered list of attributes. Each attribute names a field, may declare
// a type (string, integer, float, decimal, symbol, time, date, datetime, bool), a default,
// value constraints and a nested schema. Parse decodes a loosely typed map (query
// parameters, JSON bodies, SQL rows) into typed values; Render performs the inverse
// transform, applying output key and value renames.
//
// Schemas can be built programmatically:
//
//	s, err := schema.New(func(b *schema.Builder) {
//	    b.Attribute("age", schema.Typed(schema.TypeInteger))
//	    b.Attribute("tags", schema.Typed(schema.TypeString), schema.Array(), schema.Optional())
//	    b.Attribute("address", schema.Nested(func(b *schema.Builder) {
//	        b.Attribute("city")
//	    }))
//	})
//
// or from an ordered declarative spec, usually loaded from YAML or JSON:
//
//	age:
//	  type: integer
//	address:
//	  schema:
//	    city: {}
//
// Parsing stops at the first failing attribute, in declaration order, and returns the
// attributes decoded so far together with a *ValidationError:
//
//	data, err := s.Parse(map[string]any{"age": "42"})
//	// data == map[string]any{"age": 42}
//
// Schemas are immutable once built and safe for concurrent use.
package schema
