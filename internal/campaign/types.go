// Package campaign implements the goal-seeking controller: a bounded
// plan/execute/measure loop that drives the shared metrics toward a caller
// goal, consulting a planner for the next task each step and falling back to
// a deterministic command table when planning fails.
package campaign

import (
	"mmss/internal/metrics"
	"mmss/internal/task"
)

// DefaultMaxSteps bounds a campaign whose request does not say otherwise.
const DefaultMaxSteps = 5

// Request describes one campaign: the natural-language goal, the metric to
// optimize, and optionally how far to push it. A nil TargetValue picks the
// per-metric default.
type Request struct {
	Goal               string         `json:"goal"`
	MaxSteps           int            `json:"max_steps,omitempty"`
	OptimizationTarget string         `json:"optimization_target"`
	TargetValue        *float64       `json:"target_value,omitempty"`
	Context            map[string]any `json:"context,omitempty"`
}

// StepRecord summarizes one executed campaign step.
type StepRecord struct {
	Step          int              `json:"step"`
	Task          task.Command     `json:"task"`
	ResultMetrics metrics.Snapshot `json:"result_metrics"`
	Improvement   float64          `json:"improvement"`
	Progress      float64          `json:"progress"`
}

// Result is the full campaign outcome: every step taken, the best progress
// reached, and the final shared state.
type Result struct {
	Goal               string           `json:"goal"`
	OptimizationTarget string           `json:"optimization_target"`
	TargetValue        float64          `json:"target_value"`
	CompletedSteps     int              `json:"completed_steps"`
	GoalProgress       float64          `json:"goal_progress"`
	History            []StepRecord     `json:"history"`
	FinalMetrics       metrics.Snapshot `json:"final_metrics"`
}
