package campaign

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mmss/internal/metrics"
	"mmss/internal/task"
)

// Planner proposes the next task command for a campaign step from a query
// and a context payload.
type Planner interface {
	PlanTask(ctx context.Context, query string, payload map[string]any) (task.Command, error)
}

// TaskRunner is the slice of the task processor a campaign drives.
type TaskRunner interface {
	Submit(cmd task.Command) (uuid.UUID, error)
	Execute(ctx context.Context, id uuid.UUID) (task.ExecutionResult, error)
	CurrentMetrics() metrics.Snapshot
}

// Controller runs campaigns against one task runner and one planner.
type Controller struct {
	tasks   TaskRunner
	planner Planner
	log     *zap.Logger
}

// NewController wires a controller. A nil logger is replaced with a no-op.
func NewController(tasks TaskRunner, planner Planner, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{tasks: tasks, planner: planner, log: log}
}

// Run executes the campaign loop: plan a task, execute it, measure progress,
// repeat until convergence or the step budget runs out. Planner failures fall
// back to the deterministic command table; execution failures abort the
// campaign with the partial result.
func (c *Controller) Run(ctx context.Context, req Request) (Result, error) {
	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	current := c.tasks.CurrentMetrics()

	targetValue := DefaultTarget(req.OptimizationTarget)
	if req.TargetValue != nil {
		targetValue = *req.TargetValue
	}

	best := Progress(current, req.OptimizationTarget, targetValue)
	history := make([]StepRecord, 0, maxSteps)

	result := func() Result {
		return Result{
			Goal:               req.Goal,
			OptimizationTarget: req.OptimizationTarget,
			TargetValue:        targetValue,
			CompletedSteps:     len(history),
			GoalProgress:       best,
			History:            history,
			FinalMetrics:       current,
		}
	}

	c.log.Info("campaign started",
		zap.String("goal", req.Goal),
		zap.String("target", req.OptimizationTarget),
		zap.Float64("target_value", targetValue),
		zap.Int("max_steps", maxSteps))

	for step := 1; step <= maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return result(), err
		}

		cmd := c.planStep(ctx, req, current, history, best, targetValue)
		// Steps never collide on caller-supplied task ids.
		cmd.TaskID = nil

		id, err := c.tasks.Submit(cmd)
		if err != nil {
			return result(), fmt.Errorf("submit step %d: %w", step, err)
		}
		execution, err := c.tasks.Execute(ctx, id)
		if err != nil {
			return result(), fmt.Errorf("execute step %d: %w", step, err)
		}

		current = execution.Metrics
		progress := Progress(current, req.OptimizationTarget, targetValue)
		improvement := math.Max(progress-best, 0)
		if progress > best {
			best = progress
		}

		history = append(history, StepRecord{
			Step:          step,
			Task:          cmd,
			ResultMetrics: current,
			Improvement:   improvement,
			Progress:      progress,
		})

		c.log.Debug("campaign step done",
			zap.Int("step", step),
			zap.Float64("progress", progress),
			zap.Float64("improvement", improvement))

		if progress >= ConvergenceThreshold {
			break
		}
	}

	c.log.Info("campaign finished",
		zap.String("goal", req.Goal),
		zap.Int("completed_steps", len(history)),
		zap.Float64("goal_progress", best))
	return result(), nil
}

func (c *Controller) planStep(ctx context.Context, req Request, current metrics.Snapshot, history []StepRecord, best, targetValue float64) task.Command {
	payload := map[string]any{
		"goal":                req.Goal,
		"optimization_target": req.OptimizationTarget,
		"target_value":        targetValue,
		"current_metrics":     current,
		"history":             history,
		"goal_progress":       best,
		"user_context":        req.Context,
	}
	query := fmt.Sprintf(
		"Design the next operator to move the system toward `%s` focusing on `%s`. Return a single task command JSON.",
		req.Goal, req.OptimizationTarget)

	if c.planner != nil {
		cmd, err := c.planner.PlanTask(ctx, query, payload)
		if err == nil {
			return cmd
		}
		c.log.Warn("planner step failed, using fallback command", zap.Error(err))
	}
	return FallbackCommand(req.OptimizationTarget, targetValue)
}
