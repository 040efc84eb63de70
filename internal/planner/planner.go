// Package planner turns campaign queries into task commands. The Gemini
// planner asks the model for a single strict-JSON command; the offline
// planner always declines so callers drop to their deterministic fallback.
package planner

import (
	"context"
	"errors"

	"mmss/internal/task"
)

// ErrOffline reports that no model-backed planner is configured.
var ErrOffline = errors.New("planner offline: no model configured")

// Offline is the planner used when no API key is available. Every plan
// request fails with ErrOffline.
type Offline struct{}

// PlanTask always returns ErrOffline.
func (Offline) PlanTask(context.Context, string, map[string]any) (task.Command, error) {
	return task.Command{}, ErrOffline
}
