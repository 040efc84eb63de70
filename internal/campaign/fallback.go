package campaign

import (
	"mmss/internal/engine"
	"mmss/internal/metrics"
	"mmss/internal/task"
)

// FallbackCommand returns the deterministic command used when planning a
// step fails. Each optimization target maps to the operator known to move
// it; anything unrecognized gets a mild geometric derivation.
func FallbackCommand(target string, targetValue float64) task.Command {
	switch target {
	case metrics.MetricTopologicalWinding, metrics.MetricQOscillator:
		return task.Command{
			TaskName:             "Fallback Zitterbewegung tuning",
			Operator:             engine.OpZitterbewegung,
			TargetModule:         "sys6_resonator",
			Parameters:           engine.Params{"frequency_scale": targetValue / 9.0},
			ExpectedOutputMetric: target,
		}
	case metrics.MetricQuaternionCoherence, metrics.MetricVGeometric:
		return task.Command{
			TaskName:             "Fallback Quaternion coherence",
			Operator:             engine.OpQuaternionRotation,
			TargetModule:         "sys7_core",
			Parameters:           engine.Params{"theta": 0.25, "axis": []any{0.0, 1.0, 0.0}},
			ExpectedOutputMetric: target,
		}
	case metrics.MetricEmergentElectronMass:
		return task.Command{
			TaskName:             "Fallback mass adjustment",
			Operator:             engine.OpZitterbewegung,
			TargetModule:         "sys6_resonator",
			Parameters:           engine.Params{"frequency_scale": 1.0},
			ExpectedOutputMetric: target,
		}
	case metrics.MetricFineStructureConstant:
		return task.Command{
			TaskName:             "Fallback alpha tuning",
			Operator:             engine.OpQuaternionRotation,
			TargetModule:         "sys7_alpha",
			Parameters:           engine.Params{"theta": 0.1},
			ExpectedOutputMetric: target,
		}
	}
	return task.Command{
		TaskName:             "Fallback geometric derivation",
		Operator:             engine.OpGeometricDerivation,
		TargetModule:         "sys5_topology",
		Parameters:           engine.Params{"delta": 0.01},
		ExpectedOutputMetric: target,
	}
}
