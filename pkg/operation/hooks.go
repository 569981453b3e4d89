package operation

import (
	"context"
	"time"
)

// TaskEvent describes a task about to run or that just ran.
type TaskEvent struct {
	Timestamp time.Time
	Operation string
	RunID     string
	Task      *Task
	Outcome   Outcome       // Set on finish
	Err       error         // Set on finish when the task failed
	Duration  time.Duration // Set on finish
}

// ResultEvent describes a completed run.
type ResultEvent struct {
	Timestamp  time.Time
	Operation  string
	RunID      string
	Result     *Result
	Failed     bool
	FailedTask string
	Duration   time.Duration
}

// Hooks are observability callbacks invoked synchronously during a run.
type Hooks struct {
	OnTaskStart  func(context.Context, *TaskEvent)
	OnTaskFinish func(context.Context, *TaskEvent)
	OnResult     func(context.Context, *ResultEvent)
}

// ComposeHooks returns hooks that call each of the given hooks in order.
func ComposeHooks(hooks ...Hooks) Hooks {
	return Hooks{
		OnTaskStart: func(ctx context.Context, e *TaskEvent) {
			for _, h := range hooks {
				if h.OnTaskStart != nil {
					h.OnTaskStart(ctx, e)
				}
			}
		},
		OnTaskFinish: func(ctx context.Context, e *TaskEvent) {
			for _, h := range hooks {
				if h.OnTaskFinish != nil {
					h.OnTaskFinish(ctx, e)
				}
			}
		},
		OnResult: func(ctx context.Context, e *ResultEvent) {
			for _, h := range hooks {
				if h.OnResult != nil {
					h.OnResult(ctx, e)
				}
			}
		},
	}
}
