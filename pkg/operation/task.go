package operation

import (
	"context"
	"strings"
)

// TaskKind tells how the pipeline treats a task.
type TaskKind int

const (
	// KindStep tasks must return Continue; Stop or an error ends the run.
	KindStep TaskKind = iota
	// KindPass tasks only end the run by returning an error.
	KindPass
	// KindFailure tasks run after the run failed, for compensation and cleanup.
	KindFailure
)

func (k TaskKind) String() string {
	switch k {
	case KindStep:
		return "step"
	case KindPass:
		return "pass"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is what a task asks the pipeline to do next.
type Outcome int

const (
	Continue Outcome = iota
	Stop
)

func (o Outcome) String() string {
	if o == Stop {
		return "stop"
	}
	return "continue"
}

// Action is the body of a task. Returning an error fails the run. Returning
// Stop from a step without attaching a result fails it with a FailedTaskError.
type Action func(ctx context.Context, c *Context) (Outcome, error)

// Task is one declared entry of an operation pipeline.
type Task struct {
	Kind    TaskKind
	Name    string
	Options map[string]any

	action Action
}

// TaskOption configures a task.
type TaskOption func(*Task)

// WithTaskOption attaches an arbitrary option to the task. Options are not
// interpreted by the pipeline; hooks and actions may read them.
func WithTaskOption(key string, value any) TaskOption {
	return func(t *Task) {
		if t.Options == nil {
			t.Options = make(map[string]any)
		}
		t.Options[key] = value
	}
}

func newTask(kind TaskKind, name string, action Action, opts []TaskOption) *Task {
	t := &Task{Kind: kind, Name: name, action: action}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Words returns the task name with underscores replaced by spaces, as used in
// failure messages.
func (t *Task) Words() string {
	return strings.ReplaceAll(t.Name, "_", " ")
}

func (t *Task) String() string {
	return t.Kind.String() + " " + t.Name
}
