package campaign

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mmss/internal/engine"
	"mmss/internal/metrics"
	"mmss/internal/task"
)

type plannerFunc func(ctx context.Context, query string, payload map[string]any) (task.Command, error)

func (f plannerFunc) PlanTask(ctx context.Context, query string, payload map[string]any) (task.Command, error) {
	return f(ctx, query, payload)
}

func unreachablePlanner() plannerFunc {
	return func(context.Context, string, map[string]any) (task.Command, error) {
		return task.Command{}, errors.New("planner offline")
	}
}

func newController(planner Planner) (*Controller, *task.Processor) {
	proc := task.NewProcessor(task.ProcessorConfig{})
	return NewController(proc, planner, zap.NewNop()), proc
}

func TestRunFallsBackWhenPlannerUnreachable(t *testing.T) {
	ctrl, proc := newController(unreachablePlanner())

	target := 9.0
	res, err := ctrl.Run(context.Background(), Request{
		Goal:               "raise the winding number",
		MaxSteps:           1,
		OptimizationTarget: metrics.MetricTopologicalWinding,
		TargetValue:        &target,
	})
	require.NoError(t, err)

	require.Len(t, res.History, 1)
	step := res.History[0]
	assert.Equal(t, 1, step.Step)
	assert.Equal(t, engine.OpZitterbewegung, step.Task.Operator)
	assert.Equal(t, 1.0, step.Task.Parameters.Float("frequency_scale", 0))

	// The fallback step really ran against the store.
	records := proc.List()
	require.Len(t, records, 1)
	assert.Equal(t, task.StateCompleted, records[0].Status.State)

	assert.Equal(t, 1, res.CompletedSteps)
	assert.GreaterOrEqual(t, res.GoalProgress, 0.0)
	assert.LessOrEqual(t, res.GoalProgress, 1.0)
}

func TestRunStopsAtMaxSteps(t *testing.T) {
	ctrl, proc := newController(unreachablePlanner())

	target := 500.0
	res, err := ctrl.Run(context.Background(), Request{
		Goal:               "impossible volume",
		MaxSteps:           3,
		OptimizationTarget: metrics.MetricVGeometric,
		TargetValue:        &target,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.CompletedSteps)
	assert.Len(t, proc.List(), 3)
	assert.Less(t, res.GoalProgress, ConvergenceThreshold)
}

func TestRunStopsEarlyOnConvergence(t *testing.T) {
	ctrl, _ := newController(unreachablePlanner())

	// The default winding target sits within a hair of the baseline, so the
	// first step converges and the remaining budget goes unused.
	res, err := ctrl.Run(context.Background(), Request{
		Goal:               "hold the winding number",
		MaxSteps:           5,
		OptimizationTarget: metrics.MetricTopologicalWinding,
	})
	require.NoError(t, err)

	assert.Equal(t, 9.0, res.TargetValue)
	assert.Equal(t, 1, res.CompletedSteps)
	assert.GreaterOrEqual(t, res.GoalProgress, ConvergenceThreshold)
}

func TestRunUsesPlannerCommandAndStripsTaskID(t *testing.T) {
	fixed := uuid.New()
	var sawPayload map[string]any
	planner := plannerFunc(func(_ context.Context, _ string, payload map[string]any) (task.Command, error) {
		sawPayload = payload
		return task.Command{
			TaskName:             "planned derivation",
			Operator:             engine.OpGeometricDerivation,
			TargetModule:         "sys5_topology",
			Parameters:           engine.Params{"delta": 10.0},
			ExpectedOutputMetric: metrics.MetricSGeometric,
			TaskID:               &fixed,
		}, nil
	})

	ctrl, proc := newController(planner)
	target := 500.0
	res, err := ctrl.Run(context.Background(), Request{
		Goal:               "stability sweep",
		MaxSteps:           2,
		OptimizationTarget: metrics.MetricSGeometric,
		TargetValue:        &target,
	})
	require.NoError(t, err)

	// Both steps used the planned command; the fixed id was stripped so the
	// second submit could not collide.
	require.Equal(t, 2, res.CompletedSteps)
	assert.Len(t, proc.List(), 2)
	for _, step := range res.History {
		assert.Equal(t, "planned derivation", step.Task.TaskName)
		assert.Nil(t, step.Task.TaskID)
	}

	require.NotNil(t, sawPayload)
	assert.Equal(t, "stability sweep", sawPayload["goal"])
	assert.Equal(t, metrics.MetricSGeometric, sawPayload["optimization_target"])
	assert.Contains(t, sawPayload, "current_metrics")
	assert.Contains(t, sawPayload, "history")
}

func TestRunAbortsOnExecutionFailure(t *testing.T) {
	planner := plannerFunc(func(context.Context, string, map[string]any) (task.Command, error) {
		// No script runner is configured, so execution fails.
		return task.Command{
			TaskName: "doomed script",
			Operator: engine.OpCustomScript,
		}, nil
	})

	ctrl, _ := newController(planner)
	target := 500.0
	res, err := ctrl.Run(context.Background(), Request{
		Goal:               "script it",
		MaxSteps:           3,
		OptimizationTarget: metrics.MetricVGeometric,
		TargetValue:        &target,
	})
	require.Error(t, err)

	var capErr *task.CapabilityError
	assert.ErrorAs(t, err, &capErr)
	assert.Zero(t, res.CompletedSteps)
}

func TestRunHonorsCancelledContext(t *testing.T) {
	ctrl, proc := newController(unreachablePlanner())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := 500.0
	_, err := ctrl.Run(ctx, Request{
		Goal:               "never starts",
		MaxSteps:           3,
		OptimizationTarget: metrics.MetricVGeometric,
		TargetValue:        &target,
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, proc.List())
}

func TestProgressBounds(t *testing.T) {
	snap := metrics.Baseline()

	tests := []struct {
		name   string
		target string
		value  float64
	}{
		{"exact", metrics.MetricTopologicalWinding, snap.TopologicalWinding},
		{"far", metrics.MetricVGeometric, 1e9},
		{"zero target", metrics.MetricQOscillator, 0},
		{"negative target", metrics.MetricVGeometric, -2.5},
		{"unknown metric", "does_not_exist", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Progress(snap, tt.target, tt.value)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		})
	}

	// An exact hit scores a perfect 1.
	assert.Equal(t, 1.0, Progress(snap, metrics.MetricTopologicalWinding, snap.TopologicalWinding))

	// Unknown names score against v_geometric.
	assert.Equal(t,
		Progress(snap, metrics.MetricVGeometric, 42.0),
		Progress(snap, "does_not_exist", 42.0))
}

func TestDefaultTargetTable(t *testing.T) {
	assert.Equal(t, 9.0, DefaultTarget(metrics.MetricTopologicalWinding))
	assert.Equal(t, 0.9999, DefaultTarget(metrics.MetricQuaternionCoherence))
	assert.Equal(t, metrics.ElectronMass(), DefaultTarget(metrics.MetricEmergentElectronMass))
	assert.Equal(t, metrics.FineStructure(), DefaultTarget(metrics.MetricFineStructureConstant))
	assert.Equal(t, 1.0, DefaultTarget("anything_else"))
}
