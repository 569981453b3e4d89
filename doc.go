/*
Package citrine casts and validates data with declarative schemas and runs
business logic as railway-oriented operations.

It is organized in two layers that can be used independently.

# Schemas

A schema is an ordered set of attributes. Parsing a map through a schema
extracts each attribute, applies defaults, casts values to the declared type
(integer, float, decimal, string, symbol, date, time, datetime, bool), and
validates them against constraints: allowed values, ranges, regular
expressions, assurance functions and validator tags. Rendering turns decoded
values back into their output shape, applying bound keys and value maps.

Schemas are built in Go with package schema, or loaded from YAML and JSON:

	spec, err := schema.LoadSpecFile("user.yaml")
	res, err := citrine.Validate(spec, params)

# Operations

An operation is an ordered pipeline of step, pass and failure tasks sharing a
per-call context. Each call yields exactly one result whose code and message
describe the outcome. A contract validates the call parameters before any
step runs.

	eng := citrine.New(citrine.WithLogger(logger))

	eng.Operation("CreateUser").
		ContractFunc(func(b *schema.Builder) {
			b.Attribute("email", schema.ValidateTag("email"))
		}).
		Step("persist", persist)

	res, err := eng.Call(ctx, "CreateUser", params)

# Packages

  - pkg/schema: attributes, schemas, declarative specs, OpenAPI export.
  - pkg/operation: contexts, results, tasks and operations.
  - pkg/registry: name based dispatch of operations.
  - pkg/metrics: Prometheus metrics fed by operation hooks.
*/
package citrine
