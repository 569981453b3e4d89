package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/citrine/pkg/schema"
)

func TestAttribute_Required(t *testing.T) {
	attr, err := schema.NewAttribute("age", schema.Typed(schema.TypeInteger))
	require.NoError(t, err)
	assert.True(t, attr.Required())
	assert.Equal(t, "AGE", attr.DisplayName())

	_, err = attr.Process(map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "Missing required attribute AGE", err.Error())
	assert.True(t, errors.Is(err, schema.ErrMissingRequiredAttribute))

	verr, ok := schema.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, schema.KindMissingRequired, verr.Kind)
	assert.Equal(t, "MissingRequiredAttribute", verr.Category())

	_, err = attr.Process(map[string]any{"age": nil})
	assert.ErrorIs(t, err, schema.ErrMissingRequiredAttribute)
}

func TestAttribute_OptionalAbsent(t *testing.T) {
	attr, err := schema.NewAttribute("nickname", schema.Typed(schema.TypeString), schema.Optional())
	require.NoError(t, err)

	v, err := attr.Process(map[string]any{})
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestAttribute_Default(t *testing.T) {
	attr, err := schema.NewAttribute("page", schema.Typed(schema.TypeInteger), schema.Default("1"))
	require.NoError(t, err)
	assert.Equal(t, 1, attr.Default(), "default is cast when the attribute is built")

	v, err := attr.Process(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = attr.Process(map[string]any{"page": "3"})
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestAttribute_UntypedAndNestedDefaults(t *testing.T) {
	role, err := schema.NewAttribute("role", schema.AnyOf("admin", "user"), schema.Default("user"))
	require.NoError(t, err)
	assert.False(t, role.Typed())
	assert.Equal(t, schema.OneOf("admin", "user"), role.Allowed())

	v, err := role.Process(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "user", v)

	page, err := schema.NewAttribute("paging",
		schema.Nested(func(b *schema.Builder) { b.Attribute("size", schema.Typed(schema.TypeInteger)) }),
		schema.Default(map[string]any{"size": "10"}),
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"size": 10}, page.Default(), "nested defaults are parsed when the attribute is built")

	v, err = page.Process(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"size": 10}, v)
}

func TestAttribute_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		opts []schema.AttributeOption
		msg  string
	}{
		{"unknown type", []schema.AttributeOption{schema.Typed("money")}, "UNKNOWN type for attribute PRICE: money"},
		{"default cast", []schema.AttributeOption{schema.Typed(schema.TypeInteger), schema.Default("abc")}, "default of attribute PRICE"},
		{"default constraint", []schema.AttributeOption{schema.Typed(schema.TypeInteger), schema.Default(0), schema.Allow(schema.Between(1, 9))}, "is NOT one of 1..9"},
		{"bad pattern", []schema.AttributeOption{schema.Match("(")}, "matching pattern of attribute PRICE"},
		{"bad tag", []schema.AttributeOption{schema.ValidateTag("notatag")}, "validation tag of attribute PRICE"},
		{"uncastable allowed value", []schema.AttributeOption{schema.Typed(schema.TypeInteger), schema.AnyOf("one")}, "allowed values of attribute PRICE"},
		{"nested and typed", []schema.AttributeOption{schema.Typed(schema.TypeString), schema.Nested(func(b *schema.Builder) { b.Attribute("x") })}, "both a type and a nested schema"},
		{"inline array", []schema.AttributeOption{schema.Array(), schema.NestedInline(func(b *schema.Builder) { b.Attribute("x") })}, "cannot have an inline schema"},
		{"uplift scalar", []schema.AttributeOption{schema.Uplift()}, "cannot uplift"},
		{"untyped default not allowed", []schema.AttributeOption{schema.AnyOf("admin", "user"), schema.Default("root")}, `"root" is NOT one of admin, user`},
		{"untyped default pattern", []schema.AttributeOption{schema.Match(`^\d+$`), schema.Default("abc")}, `"abc" does NOT match`},
		{"nested default", []schema.AttributeOption{
			schema.Nested(func(b *schema.Builder) { b.Attribute("x", schema.Typed(schema.TypeInteger)) }),
			schema.Default(map[string]any{"x": "abc"}),
		}, "default of attribute PRICE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.NewAttribute("price", tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrInvalidSpec)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := schema.NewAttribute("  ")
	assert.ErrorIs(t, err, schema.ErrInvalidSpec)
}

func TestAttribute_CastingFailure(t *testing.T) {
	attr, err := schema.NewAttribute("age", schema.Typed(schema.TypeInteger))
	require.NoError(t, err)

	_, err = attr.Process(map[string]any{"age": "abc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrTypeCasting)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to cast attribute AGE: "), err.Error())

	verr, ok := schema.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "TypeCastingError", verr.Category())
	assert.Equal(t, "abc", verr.Value)
	assert.NotNil(t, errors.Unwrap(err), "the cast error is kept as the cause")
}

func TestAttribute_AlreadyTypedIsUnchanged(t *testing.T) {
	attr, err := schema.NewAttribute("price", schema.Typed(schema.TypeDecimal))
	require.NoError(t, err)

	v, err := attr.Process(map[string]any{"price": 1.23456})
	require.NoError(t, err)
	assert.Equal(t, 1.23456, v)

	v, err = attr.Process(map[string]any{"price": "1.23456"})
	require.NoError(t, err)
	assert.Equal(t, 1.23, v)
}

func TestAttribute_TypeMismatch(t *testing.T) {
	attr, err := schema.NewAttribute("age",
		schema.Typed(schema.TypeInteger),
		schema.Transform(func(v any) any { return "forty-two" }),
	)
	require.NoError(t, err)

	_, err = attr.Process(map[string]any{"age": 42})
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrTypeMismatched)
	assert.Equal(t, "Type MISMATCHED for attribute AGE: MUST be an instance of integer", err.Error())
}

func TestAttribute_Transform(t *testing.T) {
	attr, err := schema.NewAttribute("email",
		schema.Typed(schema.TypeString),
		schema.Transform(func(v any) any { return strings.ToLower(v.(string)) }),
	)
	require.NoError(t, err)

	v, err := attr.Process(map[string]any{"email": "Ann@Example.COM"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", v)
}

func TestAttribute_Constraints(t *testing.T) {
	even := func(v any) bool { return v.(int)%2 == 0 }

	tests := []struct {
		name    string
		opts    []schema.AttributeOption
		value   any
		want    any
		wantMsg string
	}{
		{
			name:  "any of accepts",
			opts:  []schema.AttributeOption{schema.Typed(schema.TypeString), schema.AnyOf("red", "green")},
			value: "green",
			want:  "green",
		},
		{
			name:    "any of rejects",
			opts:    []schema.AttributeOption{schema.Typed(schema.TypeString), schema.AnyOf("red", "green")},
			value:   "blue",
			wantMsg: `Invalid value for attribute F: "blue" is NOT one of red, green`,
		},
		{
			name:  "any of operands are cast",
			opts:  []schema.AttributeOption{schema.Typed(schema.TypeInteger), schema.AnyOf("1", "2")},
			value: "2",
			want:  2,
		},
		{
			name:    "range",
			opts:    []schema.AttributeOption{schema.Typed(schema.TypeInteger), schema.Allow(schema.Between(1, 10))},
			value:   11,
			wantMsg: "Invalid value for attribute F: 11 is NOT one of 1..10",
		},
		{
			name:    "pattern",
			opts:    []schema.AttributeOption{schema.Typed(schema.TypeString), schema.Match(`^\d{3}$`)},
			value:   "12a",
			wantMsg: `Invalid value for attribute F: "12a" does NOT match /^\d{3}$/`,
		},
		{
			name:  "pattern with lookahead",
			opts:  []schema.AttributeOption{schema.Match(`^(?=.*\d).{4,}$`)},
			value: "abc1",
			want:  "abc1",
		},
		{
			name:  "pattern on stringified value",
			opts:  []schema.AttributeOption{schema.Typed(schema.TypeInteger), schema.Match(`^\d{3}$`)},
			value: "123",
			want:  123,
		},
		{
			name:    "assurance",
			opts:    []schema.AttributeOption{schema.Typed(schema.TypeInteger), schema.Assure(even)},
			value:   3,
			wantMsg: "Invalid value for attribute F: 3 does NOT meet the assurance.",
		},
		{
			name:    "validation tag",
			opts:    []schema.AttributeOption{schema.Typed(schema.TypeString), schema.ValidateTag("email")},
			value:   "nope",
			wantMsg: `Invalid value for attribute F: "nope" does NOT satisfy "email"`,
		},
		{
			name:  "validation tag accepts",
			opts:  []schema.AttributeOption{schema.Typed(schema.TypeInteger), schema.ValidateTag("min=1,max=5")},
			value: 4,
			want:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := schema.NewAttribute("f", tt.opts...)
			require.NoError(t, err)

			v, err := attr.Process(map[string]any{"f": tt.value})
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, schema.ErrInvalidAttributeValue)
				assert.Equal(t, tt.wantMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestAttribute_ValidationOrder(t *testing.T) {
	// A value failing both the allowed values and the pattern reports the allowed values.
	attr, err := schema.NewAttribute("code",
		schema.Typed(schema.TypeString),
		schema.AnyOf("AA", "BB"),
		schema.Match(`^[A-Z]{2}$`),
	)
	require.NoError(t, err)

	_, err = attr.Process(map[string]any{"code": "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is NOT one of")
}

func TestAttribute_Array(t *testing.T) {
	attr, err := schema.NewAttribute("ids", schema.Typed(schema.TypeInteger), schema.Array())
	require.NoError(t, err)

	v, err := attr.Process(map[string]any{"ids": []string{"1", "2", "3"}})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, v)

	v, err = attr.Process(map[string]any{"ids": []any{}})
	require.NoError(t, err, "an empty sequence satisfies required")
	assert.Equal(t, []any{}, v)

	_, err = attr.Process(map[string]any{"ids": "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrNotArray)
	assert.Equal(t, "Value for attribute IDS MUST be an array", err.Error())

	_, err = attr.Process(map[string]any{"ids": []any{"1", "x"}})
	assert.ErrorIs(t, err, schema.ErrTypeCasting)

	_, err = attr.Process(map[string]any{"ids": []any{"1", nil}})
	assert.ErrorIs(t, err, schema.ErrTypeCasting)

	_, err = attr.Process(map[string]any{})
	assert.ErrorIs(t, err, schema.ErrMissingRequiredAttribute)
}

func TestAttribute_ArrayNotArrayBeforeElementChecks(t *testing.T) {
	attr, err := schema.NewAttribute("tags", schema.Array(), schema.AnyOf("a", "b"), schema.Optional())
	require.NoError(t, err)

	_, err = attr.Process(map[string]any{"tags": "z"})
	assert.ErrorIs(t, err, schema.ErrNotArray)

	v, err := attr.Process(map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestAttribute_ArrayElementwise(t *testing.T) {
	attr, err := schema.NewAttribute("colors",
		schema.Typed(schema.TypeSymbol),
		schema.Array(),
		schema.AnyOf("red", "green"),
	)
	require.NoError(t, err)

	v, err := attr.Process(map[string]any{"colors": []any{"red", "green"}})
	require.NoError(t, err)
	assert.Equal(t, []any{schema.Symbol("red"), schema.Symbol("green")}, v)

	_, err = attr.Process(map[string]any{"colors": []any{"red", "blue"}})
	require.Error(t, err)
	assert.Equal(t, "Invalid value for attribute COLORS: :blue is NOT one of red, green", err.Error())

	mismatch, err := schema.NewAttribute("ids",
		schema.Typed(schema.TypeInteger),
		schema.Array(),
		schema.Transform(func(v any) any { return []any{"x"} }),
	)
	require.NoError(t, err)
	_, err = mismatch.Process(map[string]any{"ids": []any{1}})
	require.Error(t, err)
	assert.Equal(t, "Type MISMATCHED for attribute IDS: MUST be an array of integer", err.Error())
}

func TestAttribute_NestedArray(t *testing.T) {
	attr, err := schema.NewAttribute("items", schema.Array(), schema.Nested(func(b *schema.Builder) {
		b.Attribute("sku", schema.Typed(schema.TypeString))
		b.Attribute("qty", schema.Typed(schema.TypeInteger), schema.Default(1))
	}))
	require.NoError(t, err)
	require.NotNil(t, attr.Nested())

	v, err := attr.Process(map[string]any{"items": []any{
		map[string]any{"sku": "A-1", "qty": "2"},
		map[string]any{"sku": "B-2"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"sku": "A-1", "qty": 2},
		map[string]any{"sku": "B-2", "qty": 1},
	}, v)

	_, err = attr.Process(map[string]any{"items": []any{map[string]any{"qty": 1}}})
	require.Error(t, err)
	assert.Equal(t, "Missing required attribute SKU", err.Error(), "nested errors propagate unchanged")
}
