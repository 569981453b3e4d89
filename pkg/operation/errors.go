package operation

import (
	"errors"
	"fmt"
)

// ErrFailedTask matches every FailedTaskError with errors.Is.
var ErrFailedTask = errors.New("failed task")

// FailedTaskError is recorded when a step returns Stop without attaching a result.
type FailedTaskError struct {
	Task *Task
}

func (e *FailedTaskError) Error() string {
	return fmt.Sprintf("Failed to run %s task: %s", e.Task.Kind, e.Task.Name)
}

func (e *FailedTaskError) Is(target error) bool {
	return target == ErrFailedTask
}

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Task  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.Task, e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
