// Package task implements the task store and lifecycle state machine, and
// the processor that orchestrates submit/execute against it.
package task

import (
	"github.com/google/uuid"

	"mmss/internal/engine"
	"mmss/internal/metrics"
)

// Command describes one task: what operator to apply, with which parameters,
// and which metric the caller expects it to move.
type Command struct {
	TaskName             string          `json:"task_name"`
	Operator             engine.Operator `json:"operator"`
	TargetModule         string          `json:"target_module"`
	Parameters           engine.Params   `json:"parameters,omitempty"`
	ExpectedOutputMetric string          `json:"expected_output_metric"`
	TaskID               *uuid.UUID      `json:"task_id,omitempty"`
}

// State is the lifecycle position of a task. Transitions are monotonic and
// one-way: pending -> in_progress -> completed or failed.
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Status pairs the lifecycle state with its payload: the resulting snapshot
// on completion, the failure reason on failure.
type Status struct {
	State   State             `json:"state"`
	Metrics *metrics.Snapshot `json:"metrics,omitempty"`
	Reason  string            `json:"reason,omitempty"`
}

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s.State == StateCompleted || s.State == StateFailed
}

// Record is one entry of the store listing.
type Record struct {
	ID      uuid.UUID `json:"id"`
	Command Command   `json:"command"`
	Status  Status    `json:"status"`
}

// ExecutionResult is what execute returns to the caller.
type ExecutionResult struct {
	TaskID  uuid.UUID        `json:"task_id"`
	Success bool             `json:"success"`
	Metrics metrics.Snapshot `json:"metrics"`
	Output  map[string]any   `json:"output,omitempty"`
	Error   string           `json:"error,omitempty"`
}
