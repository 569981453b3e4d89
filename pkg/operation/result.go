package operation

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mohae/deepcopy"
	"github.com/spf13/cast"

	"github.com/aretw0/citrine/pkg/schema"
)

// Fields every result type declares.
const (
	FieldCode    = "code"
	FieldMessage = "message"
	FieldData    = "data"
	FieldError   = "error"
)

const (
	DefaultSuccessCode    = "OK"
	DefaultSuccessMessage = "Request is now completed."
)

// Resolver computes the value of a result field from the run context. The
// result is passed so resolvers can build on other fields.
type Resolver func(r *Result, c *Context) any

// ResultType declares the fields of a family of results. Derived types
// inherit every field and may override their resolvers. Types are meant to be
// configured once, before any operation uses them.
type ResultType struct {
	name      string
	parent    *ResultType
	fields    []string
	resolvers map[string]Resolver
	ignored   []error
}

// NewResultType creates a root type with the code, message, data and error fields.
// The code defaults to the type name.
func NewResultType(name string) *ResultType {
	t := &ResultType{name: name, resolvers: make(map[string]Resolver)}
	t.Define(FieldCode, func(r *Result, _ *Context) any { return r.typ.name })
	t.Set(FieldMessage, "")
	t.Define(FieldData, func(*Result, *Context) any { return map[string]any{} })
	t.Define(FieldError, func(_ *Result, c *Context) any { return c.Err() })
	return t
}

// Extend derives a named type that inherits all fields, resolvers and ignored errors.
func (t *ResultType) Extend(name string) *ResultType {
	return &ResultType{
		name:      name,
		parent:    t,
		fields:    slices.Clone(t.fields),
		resolvers: cloneResolvers(t.resolvers),
		ignored:   slices.Clone(t.ignored),
	}
}

func cloneResolvers(m map[string]Resolver) map[string]Resolver {
	out := make(map[string]Resolver, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Define declares field, or replaces its resolver when it already exists.
func (t *ResultType) Define(field string, fn Resolver) *ResultType {
	if _, ok := t.resolvers[field]; !ok {
		t.fields = append(t.fields, field)
	}
	t.resolvers[field] = fn
	return t
}

// Set declares field with a constant value.
func (t *ResultType) Set(field string, v any) *ResultType {
	return t.Define(field, func(*Result, *Context) any { return v })
}

// Code sets a constant result code.
func (t *ResultType) Code(code string) *ResultType {
	return t.Set(FieldCode, code)
}

// Message sets a constant result message.
func (t *ResultType) Message(msg string) *ResultType {
	return t.Set(FieldMessage, msg)
}

// Data computes the data field.
func (t *ResultType) Data(fn func(c *Context) map[string]any) *ResultType {
	return t.Define(FieldData, func(_ *Result, c *Context) any { return fn(c) })
}

// Ignore marks errors that results of this type tolerate. Callers decide what
// tolerating means; operations log ignored errors as warnings instead of errors.
func (t *ResultType) Ignore(errs ...error) *ResultType {
	t.ignored = append(t.ignored, errs...)
	return t
}

// Ignores reports whether err matches one of the ignored errors.
func (t *ResultType) Ignores(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range t.ignored {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (t *ResultType) Name() string { return t.name }
func (t *ResultType) Parent() *ResultType { return t.parent }

// Fields returns the declared fields in declaration order.
func (t *ResultType) Fields() []string {
	return slices.Clone(t.fields)
}

// Is reports whether t is other or derives from it.
func (t *ResultType) Is(other *ResultType) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (t *ResultType) String() string { return t.name }

// New builds a result from c. Every field is resolved once, in declaration
// order, and kept for the lifetime of the result.
func (t *ResultType) New(c *Context) *Result {
	if c == nil {
		c = NewContext(nil)
	}
	r := &Result{typ: t, ctx: c, values: make(map[string]any, len(t.fields))}
	for _, f := range t.fields {
		r.Get(f)
	}
	return r
}

// Base result types. Operations derive their own Success and Failure from
// these; see Operation.DefineResult.
var (
	BaseResult = NewResultType("Result")

	Success = BaseResult.Extend("Success").
		Code(DefaultSuccessCode).
		Message(DefaultSuccessMessage)

	Failure = BaseResult.Extend("Failure").
		Define(FieldMessage, func(_ *Result, c *Context) any {
			return "Request failed due to unexpected error: " + errorMessage(c.Err())
		})

	InvalidContract = BaseResult.Extend("InvalidContract").
		Define(FieldCode, contractCode).
		Define(FieldMessage, func(_ *Result, c *Context) any { return errorMessage(c.Err()) })
)

func contractCode(_ *Result, c *Context) any {
	if verr, ok := schema.AsValidationError(c.Err()); ok {
		return verr.Category()
	}
	return "InvalidContract"
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// failureMessage describes the failed task and its error.
func failureMessage(_ *Result, c *Context) any {
	if t := c.FailedTask(); t != nil {
		return fmt.Sprintf("Failed to %s: %s", t.Words(), errorMessage(c.Err()))
	}
	return "Request failed due to unexpected error: " + errorMessage(c.Err())
}

// Result is the outcome of an operation run.
type Result struct {
	typ    *ResultType
	ctx    *Context
	values map[string]any
}

// Get returns the value of field, resolving and memoizing it on first use.
func (r *Result) Get(field string) any {
	if v, ok := r.values[field]; ok {
		return v
	}
	fn, ok := r.typ.resolvers[field]
	if !ok {
		return nil
	}
	v := fn(r, r.ctx)
	r.values[field] = v
	return v
}

func (r *Result) Type() *ResultType { return r.typ }
func (r *Result) Context() *Context { return r.ctx }
func (r *Result) Is(t *ResultType) bool { return r.typ.Is(t) }

func (r *Result) Code() string { return cast.ToString(r.Get(FieldCode)) }
func (r *Result) Message() string { return cast.ToString(r.Get(FieldMessage)) }

// Data returns the data field as a map.
func (r *Result) Data() map[string]any {
	switch d := r.Get(FieldData).(type) {
	case nil:
		return nil
	case map[string]any:
		return d
	default:
		m, err := cast.ToStringMapE(d)
		if err != nil {
			return map[string]any{FieldData: d}
		}
		return m
	}
}

// Err returns the error field.
func (r *Result) Err() error {
	err, _ := r.Get(FieldError).(error)
	return err
}

// OK reports whether the code is the success code.
func (r *Result) OK() bool { return r.Code() == DefaultSuccessCode }

func (r *Result) HasData() bool { return len(r.Data()) > 0 }
func (r *Result) HasErr() bool { return r.Err() != nil }

// IgnoreError reports whether the result's error is one its type ignores.
func (r *Result) IgnoreError() bool {
	return r.typ.Ignores(r.Err())
}

// ToMap flattens the result: every declared field except data, followed by the
// entries of data at the top level. Errors become their messages and a nil
// error is left out. Values are deep copies.
func (r *Result) ToMap() map[string]any {
	out := make(map[string]any, len(r.typ.fields))
	for _, f := range r.typ.fields {
		if f == FieldData {
			continue
		}
		v := r.Get(f)
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		if f == FieldError && v == nil {
			continue
		}
		out[f] = deepcopy.Copy(v)
	}
	for k, v := range r.Data() {
		out[k] = deepcopy.Copy(v)
	}
	return out
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

func (r *Result) String() string {
	var b strings.Builder
	b.WriteString(r.Code())
	if msg := r.Message(); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}
