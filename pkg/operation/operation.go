package operation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/citrine/internal/logging"
	"github.com/aretw0/citrine/pkg/schema"
)

// ContractTask is the name of the step registered by Contract.
const ContractTask = "validate_contract"

// Operation is an ordered pipeline of tasks run against a fresh Context on
// every Call. Operations are declared once, usually at package level, and are
// safe for concurrent calls once declared.
type Operation struct {
	name      string
	steps     []*Task
	failures  []*Task
	contract  *schema.Schema
	custom    *ResultType
	success   *ResultType
	failure   *ResultType
	invalid   *ResultType
	failHooks map[string]Action
	logger    *slog.Logger
	hooks     Hooks
}

// Option configures an Operation.
type Option func(*Operation)

// WithLogger sets the logger used to report failed runs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Operation) {
		o.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(o *Operation) {
		o.hooks = hooks
	}
}

// New declares an empty operation. The name is used in logs and in the code
// of the default failure result ("<name>Failure").
func New(name string, opts ...Option) *Operation {
	o := &Operation{
		name:      name,
		failHooks: make(map[string]Action),
	}
	o.apply(opts)
	o.deriveResults()
	return o
}

func (o *Operation) apply(opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
}

// deriveResults builds the Success, Failure and InvalidContract types from the
// custom base type, or from the package base types when there is none.
func (o *Operation) deriveResults() {
	failureCode := o.name + "Failure"
	if o.custom == nil {
		o.success = Success
		o.invalid = InvalidContract
		o.failure = Failure.Extend(failureCode).
			Code(failureCode).
			Define(FieldMessage, failureMessage)
		return
	}
	o.success = o.custom.Extend("Success").
		Code(DefaultSuccessCode).
		Message(DefaultSuccessMessage)
	o.invalid = o.custom.Extend("InvalidContract").
		Define(FieldCode, contractCode).
		Define(FieldMessage, func(_ *Result, c *Context) any { return errorMessage(c.Err()) })
	o.failure = o.custom.Extend(failureCode).
		Code(failureCode).
		Define(FieldMessage, failureMessage)
}

// Name returns the operation name.
func (o *Operation) Name() string { return o.name }

// Step appends a step task. A step ends the run by returning an error or Stop.
func (o *Operation) Step(name string, action Action, opts ...TaskOption) *Operation {
	o.steps = append(o.steps, newTask(KindStep, name, action, opts))
	return o
}

// Pass appends a pass task. Its outcome is ignored; only an error ends the run.
func (o *Operation) Pass(name string, action Action, opts ...TaskOption) *Operation {
	o.steps = append(o.steps, newTask(KindPass, name, action, opts))
	return o
}

// Failure appends a failure task. Failure tasks run in order after a failed
// run; their errors are logged and otherwise ignored.
func (o *Operation) Failure(name string, action Action, opts ...TaskOption) *Operation {
	o.failures = append(o.failures, newTask(KindFailure, name, action, opts))
	return o
}

// OnFail registers the compensation FailByTask runs when task fails.
func (o *Operation) OnFail(task string, action Action) *Operation {
	o.failHooks[task] = action
	return o
}

// Contract validates the call parameters with s before any other step. The
// decoded parameters are stored under KeyContract; a violation ends the run
// with an InvalidContract result.
func (o *Operation) Contract(s *schema.Schema) *Operation {
	o.contract = s
	o.steps = slices.DeleteFunc(o.steps, func(t *Task) bool { return t.Name == ContractTask })
	o.steps = slices.Insert(o.steps, 0, newTask(KindStep, ContractTask, validateContract, nil))
	return o
}

// ContractFunc is Contract with a schema built in place. It panics when the
// schema is invalid, since contracts are declared at program start.
func (o *Operation) ContractFunc(build func(*schema.Builder), opts ...schema.Option) *Operation {
	s, err := schema.New(build, opts...)
	if err != nil {
		panic(fmt.Sprintf("operation %s: invalid contract: %v", o.name, err))
	}
	return o.Contract(s)
}

// ContractSpec is Contract with a declarative schema. It panics when the spec is invalid.
func (o *Operation) ContractSpec(spec schema.Spec, opts ...schema.Option) *Operation {
	s, err := schema.FromSpec(spec, opts...)
	if err != nil {
		panic(fmt.Sprintf("operation %s: invalid contract: %v", o.name, err))
	}
	return o.Contract(s)
}

// DefineResult gives the operation its own base result type, configured by fn,
// and derives the operation's Success, Failure and InvalidContract types from it.
func (o *Operation) DefineResult(fn func(t *ResultType)) *Operation {
	base := BaseResult.Extend(o.name + "Result")
	if fn != nil {
		fn(base)
	}
	o.custom = base
	o.deriveResults()
	return o
}

func (o *Operation) ContractSchema() *schema.Schema { return o.contract }

func (o *Operation) SuccessResult() *ResultType { return o.success }

func (o *Operation) FailureResult() *ResultType { return o.failure }

func (o *Operation) InvalidContractResult() *ResultType { return o.invalid }

// ResultType returns the base type given by DefineResult, or BaseResult.
func (o *Operation) ResultType() *ResultType {
	if o.custom == nil {
		return BaseResult
	}
	return o.custom
}

// Tasks returns the step and pass tasks followed by the failure tasks.
func (o *Operation) Tasks() []*Task {
	return slices.Concat(o.steps, o.failures)
}

// Extend declares a new operation that starts with every task, the contract,
// the custom result type and the failure hooks of o. Tasks added to either
// operation afterwards do not affect the other.
func (o *Operation) Extend(name string, opts ...Option) *Operation {
	child := &Operation{
		name:      name,
		steps:     slices.Clone(o.steps),
		failures:  slices.Clone(o.failures),
		contract:  o.contract,
		custom:    o.custom,
		failHooks: maps.Clone(o.failHooks),
		logger:    o.logger,
		hooks:     o.hooks,
	}
	child.apply(opts)
	child.deriveResults()
	return child
}

// Call runs the operation with params and returns its result. Call never
// panics and never returns nil: task errors and panics are captured in the
// Context and turned into a failure result.
func (o *Operation) Call(ctx context.Context, params map[string]any) *Result {
	start := time.Now()
	c := NewContext(params)
	c.op = o
	runID := uuid.NewString()
	c.Set(KeyRunID, runID)

	for _, t := range o.steps {
		if stop := o.runStep(ctx, t, c); stop || c.Failed() {
			break
		}
	}

	if c.Failed() {
		for _, t := range o.failures {
			o.runFailure(ctx, t, c)
		}
	}

	if c.Result() == nil {
		rt := o.success
		if c.Failed() {
			rt = o.failure
		}
		c.SetResult(rt.New(c))
	}

	r := c.Result()
	o.report(ctx, c, r, time.Since(start))
	return r
}

// runStep runs a step or pass task and reports whether the run must stop.
func (o *Operation) runStep(ctx context.Context, t *Task, c *Context) bool {
	out, err := o.invoke(ctx, t, c)
	if err == nil && out == Stop && t.Kind == KindStep && c.Result() == nil {
		err = &FailedTaskError{Task: t}
	}
	if err != nil {
		c.Set(KeyFailedTask, t)
		c.SetErr(err)
		return true
	}
	if out == Stop && t.Kind == KindStep {
		c.Set(KeyFailedTask, t)
		return true
	}
	return false
}

func (o *Operation) runFailure(ctx context.Context, t *Task, c *Context) {
	if _, err := o.invoke(ctx, t, c); err != nil {
		o.logger.Error("failure task failed",
			"operation", o.name,
			"run_id", c.RunID(),
			"task", t.Name,
			"error", err,
		)
	}
}

func (o *Operation) invoke(ctx context.Context, t *Task, c *Context) (out Outcome, err error) {
	start := time.Now()
	if o.hooks.OnTaskStart != nil {
		o.hooks.OnTaskStart(ctx, &TaskEvent{
			Timestamp: start,
			Operation: o.name,
			RunID:     c.RunID(),
			Task:      t,
		})
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = Stop, &PanicError{Task: t.Name, Value: r}
		}
		if o.hooks.OnTaskFinish != nil {
			o.hooks.OnTaskFinish(ctx, &TaskEvent{
				Timestamp: time.Now(),
				Operation: o.name,
				RunID:     c.RunID(),
				Task:      t,
				Outcome:   out,
				Err:       err,
				Duration:  time.Since(start),
			})
		}
	}()
	if t.action == nil {
		return Continue, nil
	}
	return t.action(ctx, c)
}

func (o *Operation) report(ctx context.Context, c *Context, r *Result, elapsed time.Duration) {
	var failedTask string
	if t := c.FailedTask(); t != nil {
		failedTask = t.Name
	}

	if err := c.Err(); err != nil {
		level := slog.LevelError
		if r.IgnoreError() {
			level = slog.LevelWarn
		}
		o.logger.Log(ctx, level, "operation failed",
			"operation", o.name,
			"run_id", c.RunID(),
			"task", failedTask,
			"code", r.Code(),
			"error", err,
		)
	} else {
		o.logger.Debug("operation completed",
			"operation", o.name,
			"run_id", c.RunID(),
			"code", r.Code(),
			"duration", elapsed,
		)
	}

	if o.hooks.OnResult != nil {
		o.hooks.OnResult(ctx, &ResultEvent{
			Timestamp:  time.Now(),
			Operation:  o.name,
			RunID:      c.RunID(),
			Result:     r,
			Failed:     c.Failed(),
			FailedTask: failedTask,
			Duration:   elapsed,
		})
	}
}

func validateContract(_ context.Context, c *Context) (Outcome, error) {
	decoded, err := c.op.contract.Parse(c.Params())
	c.Set(KeyContract, decoded)
	if err != nil {
		return c.Halt(err, c.op.invalid), nil
	}
	return Continue, nil
}

// errNoOperation is returned by FailByTask outside of a run.
var errNoOperation = errors.New("context does not belong to an operation run")

// FailByTask is a failure task that runs the compensation registered with
// OnFail for the failed task and attaches the operation's Failure result,
// unless a result is already attached.
//
//	op.OnFail("charge_card", refund).
//		Failure("fail_operation_by_task", operation.FailByTask)
func FailByTask(ctx context.Context, c *Context) (Outcome, error) {
	if c.op == nil {
		return Stop, errNoOperation
	}
	var err error
	if t := c.FailedTask(); t != nil {
		if hook, ok := c.op.failHooks[t.Name]; ok {
			_, err = hook(ctx, c)
		}
	}
	if c.Result() == nil {
		c.SetResult(c.op.failure.New(c))
	}
	return Continue, err
}
