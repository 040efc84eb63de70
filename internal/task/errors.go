package task

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID rejects a submit whose id is already present.
	ErrDuplicateID = errors.New("task id already exists")
	// ErrNotFound reports an unknown task id.
	ErrNotFound = errors.New("task not found")
	// ErrTaskFinished rejects re-execution of a task in a terminal state.
	ErrTaskFinished = errors.New("task already finished")
)

// CapabilityError reports a failure in an external capability (script
// runner, field generator, simulator). It is fatal to the single operation
// that triggered it, never to the process.
type CapabilityError struct {
	Capability string
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %s: %v", e.Capability, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}
