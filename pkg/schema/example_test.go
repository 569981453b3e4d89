package schema_test

import (
	"fmt"

	"github.com/aretw0/citrine/pkg/schema"
)

func ExampleSchema_Parse() {
	s := schema.MustNew(func(b *schema.Builder) {
		b.Attribute("age", schema.Typed(schema.TypeInteger))
		b.Attribute("tags", schema.Typed(schema.TypeString), schema.Array(), schema.Optional())
	})

	data, err := s.Parse(map[string]any{"age": "42"})
	fmt.Println(data, err)

	data, err = s.Parse(map[string]any{"tags": "x"})
	fmt.Println(data, err)
	// Output:
	// map[age:42] <nil>
	// map[] Missing required attribute AGE
}

func ExampleValidate() {
	spec, _ := schema.ParseSpec([]byte(`
status:
  type: string
  any_of: [active, inactive]
  bind_to: state
`))

	res, _ := schema.Convert(spec, map[string]any{"status": "active"})
	fmt.Println(res.Data)

	res, _ = schema.Validate(spec, map[string]any{"status": "gone"})
	fmt.Println(res.Err)
	// Output:
	// map[state:active]
	// Invalid value for attribute STATUS: "gone" is NOT one of active, inactive
}

func ExampleMustFromSpec() {
	s := schema.MustFromSpec(schema.Spec{
		{Name: "page", Options: map[string]any{"type": "integer", "default": 1}},
		{Name: "per_page", Options: map[string]any{"type": "integer", "range": []any{1, 100}, "required": false}},
	})

	data, err := s.Parse(map[string]any{"per_page": "25"})
	fmt.Println(data, err)
	// Output:
	// map[page:1 per_page:25]
}
