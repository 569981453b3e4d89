package operation

import (
	"maps"
)

// Reserved context keys.
const (
	KeyParams     = "params"
	KeyError      = "error"
	KeyFailedTask = "failed_task"
	KeyResult     = "result"
	KeyContract   = "contract"
	KeyRunID      = "run_id"
)

// Context is the working memory of one operation run. It is seeded with the
// call parameters and threaded through every task. A Context belongs to a
// single run and is not safe for concurrent use.
type Context struct {
	values map[string]any
	op     *Operation
}

// NewContext creates a context seeded with params.
func NewContext(params map[string]any) *Context {
	if params == nil {
		params = map[string]any{}
	}
	c := &Context{values: map[string]any{KeyParams: params}}
	c.Reset()
	return c
}

// Get returns the value stored under key, or nil.
func (c *Context) Get(key string) any {
	return c.values[key]
}

// Lookup returns the value stored under key and whether the key is present.
func (c *Context) Lookup(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set stores v under key.
func (c *Context) Set(key string, v any) {
	c.values[key] = v
}

// Has reports whether key is present, even with a nil value.
func (c *Context) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Delete removes key.
func (c *Context) Delete(key string) {
	delete(c.values, key)
}

// Merge copies every entry of m into the context.
func (c *Context) Merge(m map[string]any) {
	maps.Copy(c.values, m)
}

// Slice returns the entries for the given keys that are present.
func (c *Context) Slice(keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := c.values[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Dig follows keys through nested maps, e.g. Dig("params", "user", "id").
// It returns nil as soon as a key is missing or a value is not a map.
func (c *Context) Dig(keys ...string) any {
	var cur any = c.values
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}

// Keys returns the present keys in no particular order.
func (c *Context) Keys() []string {
	out := make([]string, 0, len(c.values))
	for k := range c.values {
		out = append(out, k)
	}
	return out
}

// Params returns the call parameters.
func (c *Context) Params() map[string]any {
	m, _ := c.values[KeyParams].(map[string]any)
	return m
}

// Contract returns the parameters decoded by the operation contract.
func (c *Context) Contract() map[string]any {
	m, _ := c.values[KeyContract].(map[string]any)
	return m
}

// Err returns the error that failed the run, if any.
func (c *Context) Err() error {
	err, _ := c.values[KeyError].(error)
	return err
}

// SetErr records err as the error of the run.
func (c *Context) SetErr(err error) {
	c.values[KeyError] = err
}

// Failed reports whether an error has been recorded.
func (c *Context) Failed() bool {
	return c.Err() != nil
}

// Succeeded is the negation of Failed.
func (c *Context) Succeeded() bool {
	return !c.Failed()
}

// FailedTask returns the task that stopped the run, if any.
func (c *Context) FailedTask() *Task {
	t, _ := c.values[KeyFailedTask].(*Task)
	return t
}

// Result returns the result attached to the run, if any.
func (c *Context) Result() *Result {
	r, _ := c.values[KeyResult].(*Result)
	return r
}

// SetResult attaches r as the result of the run.
func (c *Context) SetResult(r *Result) {
	c.values[KeyResult] = r
}

// RunID returns the identifier of the current run.
func (c *Context) RunID() string {
	id, _ := c.values[KeyRunID].(string)
	return id
}

// Halt records err (when non-nil), attaches a result of type t and returns
// Stop. Steps use it to fail with a specific result instead of the
// operation's default failure.
//
//	if token == "" {
//		return c.Halt(ErrNoToken, UndefinedAuthorization)
//	}
func (c *Context) Halt(err error, t *ResultType) Outcome {
	if err != nil {
		c.SetErr(err)
	}
	c.SetResult(t.New(c))
	return Stop
}

// Reset clears the error, failed task and result.
func (c *Context) Reset() {
	c.values[KeyError] = nil
	c.values[KeyFailedTask] = nil
	c.values[KeyResult] = nil
}

// Value returns the value under key converted to T.
func Value[T any](c *Context, key string) (T, bool) {
	v, ok := c.values[key].(T)
	return v, ok
}
