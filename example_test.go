package citrine_test

import (
	"context"
	"fmt"

	"github.com/aretw0/citrine"
	"github.com/aretw0/citrine/pkg/operation"
	"github.com/aretw0/citrine/pkg/schema"
)

// ExampleNew demonstrates declaring an operation on an engine and calling it by name.
func ExampleNew() {
	eng := citrine.New()

	eng.Operation("Greet").
		ContractFunc(func(b *schema.Builder) {
			b.Attribute("name")
		}).
		DefineResult(func(t *operation.ResultType) {
			t.Data(func(c *operation.Context) map[string]any {
				return map[string]any{"greeting": fmt.Sprintf("Hello, %s!", c.Contract()["name"])}
			})
		})

	res, _ := eng.Call(context.Background(), "Greet", map[string]any{"name": "Ada"})
	fmt.Println(res.Code(), res.Data()["greeting"])

	res, _ = eng.Call(context.Background(), "Greet", nil)
	fmt.Println(res)
	// Output:
	// OK Hello, Ada!
	// MissingRequiredAttribute: Missing required attribute NAME
}

func ExampleValidate() {
	spec, _ := schema.ParseSpec([]byte(`
age:
  type: integer
nickname:
  required: false
`))
	res, _ := citrine.Validate(spec, map[string]any{"age": "42"})
	fmt.Println(res.Data, res.Err)
	// Output:
	// map[age:42] <nil>
}
