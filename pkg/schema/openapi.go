package schema

import (
	"sort"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ncruces/go-strftime"
	"github.com/spf13/cast"
)

// OpenAPI describes the rendered shape of the schema as an OpenAPI object schema.
// Properties use the output keys, inline and uplifted attributes contribute their
// properties to the parent, and required attributes without a default are listed
// as required.
func (s *Schema) OpenAPI() *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	s.describeInto(out)
	return out
}

func (s *Schema) describeInto(out *openapi3.Schema) {
	for _, a := range s.attributes {
		if a.inline || a.uplift {
			a.nested.describeInto(out)
			continue
		}
		out.WithProperty(a.Key(), a.describe())
		if a.required && a.def == nil {
			out.Required = append(out.Required, a.Key())
		}
	}
}

func (a *Attribute) describe() *openapi3.Schema {
	item := a.describeElement()
	if !a.array {
		if a.def != nil {
			item.WithDefault(describeValue(a.def, a.formats))
		}
		return item
	}
	arr := openapi3.NewArraySchema().WithItems(item)
	if a.def != nil {
		arr.WithDefault(describeValue(a.def, a.formats))
	}
	return arr
}

func (a *Attribute) describeElement() *openapi3.Schema {
	switch {
	case a.nested != nil:
		return a.nested.OpenAPI()
	case a.valueMap != nil:
		// Rendered values come from the map, not from the declared type.
		keys := make([]string, 0, len(a.valueMap))
		for k := range a.valueMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		values := make([]any, len(keys))
		for i, k := range keys {
			values[i] = a.valueMap[k]
		}
		return openapi3.NewSchema().WithEnum(values...)
	}

	var out *openapi3.Schema
	switch a.typ {
	case TypeString, TypeSymbol:
		out = openapi3.NewStringSchema()
	case TypeInteger:
		out = openapi3.NewIntegerSchema()
	case TypeFloat, TypeDecimal:
		out = openapi3.NewFloat64Schema()
	case TypeBool:
		out = openapi3.NewBoolSchema()
	case TypeDate:
		out = openapi3.NewStringSchema().WithFormat("date")
	case TypeTime, TypeDatetime:
		out = openapi3.NewDateTimeSchema()
	default:
		out = openapi3.NewSchema()
	}

	switch c := a.Allowed().(type) {
	case oneOf:
		values := make([]any, len(c.values))
		for i, v := range c.values {
			values[i] = describeValue(v, a.formats)
		}
		out.WithEnum(values...)
	case between:
		if lo, ok := toFloat(c.min); ok {
			out.WithMin(lo)
		}
		if hi, ok := toFloat(c.max); ok {
			out.WithMax(hi)
		}
	}
	if a.patternExpr != "" {
		out.WithPattern(a.patternExpr)
	}
	return out
}

func describeValue(v any, f Formats) any {
	switch t := v.(type) {
	case Date:
		return strftime.Format(f.DateFormat, t.Time)
	case time.Time:
		return strftime.Format(f.DatetimeFormat, t)
	case Symbol:
		return string(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = describeValue(e, f)
		}
		return out
	}
	return v
}

func toFloat(v any) (float64, bool) {
	if !isNumber(v) {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	return f, err == nil
}
