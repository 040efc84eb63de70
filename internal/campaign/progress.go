package campaign

import (
	"math"

	"mmss/internal/metrics"
)

// ConvergenceThreshold ends a campaign early once progress reaches it.
const ConvergenceThreshold = 0.999

// Progress scores how close the named metric sits to its target, normalized
// by the target magnitude and clamped to [0, 1]. An unknown target name
// scores against v_geometric.
func Progress(snap metrics.Snapshot, target string, targetValue float64) float64 {
	current, ok := snap.Value(target)
	if !ok {
		current = snap.VGeometric
	}

	denominator := math.Max(math.Abs(targetValue), 1e-6)
	distance := math.Abs(targetValue - current)
	return math.Min(math.Max(1-distance/denominator, 0), 1)
}

// DefaultTarget supplies the target value for a metric when the request
// leaves it out.
func DefaultTarget(target string) float64 {
	switch target {
	case metrics.MetricTopologicalWinding:
		return 9.0
	case metrics.MetricQuaternionCoherence:
		return 0.9999
	case metrics.MetricEmergentElectronMass:
		return metrics.ElectronMass()
	case metrics.MetricFineStructureConstant:
		return metrics.FineStructure()
	}
	return 1.0
}
