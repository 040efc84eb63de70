// Package engine implements the deterministic operator-transform engine: a
// pure function from (current snapshot, operator tag, parameters) to a new
// snapshot, with numeric safety clamps and an invariant-repair pass.
package engine

import (
	"math"

	"mmss/internal/metrics"
)

// Operator tags the transform a task applies.
type Operator string

const (
	OpQuaternionRotation  Operator = "quaternion_rotation"
	OpZitterbewegung      Operator = "zitterbewegung"
	OpGeometricDerivation Operator = "geometric_derivation"
	OpSemanticSynthesis   Operator = "semantic_synthesis"

	// Delegate operators are never computed locally; the task processor
	// routes them to an external capability.
	OpSimulateAsymmetry Operator = "simulate_asymmetry"
	OpGenerateField     Operator = "generate_field"
	OpCustomScript      Operator = "custom_script"
)

// Delegated reports whether the operator must be routed to an external
// capability. The local set is closed; unknown or extension tags delegate
// rather than silently doing nothing.
func (op Operator) Delegated() bool {
	switch op {
	case OpQuaternionRotation, OpZitterbewegung, OpGeometricDerivation, OpSemanticSynthesis:
		return false
	}
	return true
}

// Config carries the baseline constants the engine clamps and repairs
// against. Injected at construction; the engine holds no mutable state.
type Config struct {
	Alpha             float64
	Hbar              float64
	C                 float64
	ZitterAmplitude   float64
	BaselineCoherence float64
	BaselineEntropy   float64
	BaselineMass      float64
	DefaultWinding    float64
}

// DefaultConfig returns the config derived from the physical constant table.
func DefaultConfig() Config {
	return Config{
		Alpha:             metrics.FineStructure(),
		Hbar:              metrics.ReducedPlanck,
		C:                 metrics.SpeedOfLight,
		ZitterAmplitude:   metrics.ZitterAmplitude,
		BaselineCoherence: metrics.QuaternionCoherence(),
		BaselineEntropy:   metrics.ZitterEntropy(),
		BaselineMass:      metrics.ElectronMass(),
		DefaultWinding:    metrics.DefaultWinding,
	}
}

// Engine applies operator transforms. Stateless and safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an engine with the given constant table.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Apply computes the new snapshot for a local operator. Malformed parameters
// degrade to defaults; the arithmetic never fails. Delegate operators pass
// through untouched apart from the repair pass.
func (e *Engine) Apply(snap metrics.Snapshot, op Operator, params Params) metrics.Snapshot {
	out := snap.Clone()

	magnitude := 1.0
	if v, ok := params.Scalar(); ok {
		magnitude = v
	}

	switch op {
	case OpQuaternionRotation:
		theta := params.Float("theta", magnitude)
		axis := params.Axis("axis")
		norm := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
		boost := math.Abs(math.Sin(theta*0.5)) * 0.005 * math.Max(norm, 1e-6)

		out.QuaternionCoherence = clamp(out.QuaternionCoherence+boost, 0, 0.9999)
		out.VGeometric = out.QuaternionCoherence

	case OpZitterbewegung:
		freqScale := params.Float("frequency_scale", math.Abs(magnitude))
		amplitude := math.Abs(e.cfg.ZitterAmplitude / math.Max(freqScale, 1e-6))

		out.EmergentElectronMass = e.cfg.Hbar / (2 * e.cfg.C * amplitude)
		out.TopologicalWinding = math.Max(out.TopologicalWinding+(freqScale-1)*0.0001, 0)
		out.QOscillator = out.TopologicalWinding

	case OpGeometricDerivation:
		delta := params.Float("delta", magnitude)
		out.SGeometric = clamp(out.SGeometric+delta*0.001, 0.0001, 1.0)
		out.ZitterbewegungEntropy = out.SGeometric

	case OpSemanticSynthesis:
		hint := params.Float("coherence_hint", 0.95)
		anchor := params.String("anchor", "quantum-atom")
		strength := math.Max(out.QuaternionCoherence*hint*10, 0)
		out.SetCustom("anchor:"+anchor, strength)
	}

	e.repair(&out)
	return out
}

// repair re-derives the fine-structure value and restores any of the four
// guarded fields that went non-positive back to their baseline-computed
// defaults, so the snapshot never carries a non-positive mass, entropy,
// coherence, or winding number.
func (e *Engine) repair(m *metrics.Snapshot) {
	m.FineStructureConstant = math.Min(e.cfg.Alpha/math.Max(m.QuaternionCoherence, 1e-6), 1.0)

	if m.ZitterbewegungEntropy <= 0 {
		m.ZitterbewegungEntropy = e.cfg.BaselineEntropy
	}
	if m.EmergentElectronMass <= 0 {
		m.EmergentElectronMass = e.cfg.BaselineMass
	}
	if m.QuaternionCoherence <= 0 {
		m.QuaternionCoherence = e.cfg.BaselineCoherence
	}
	if m.TopologicalWinding <= 0 {
		m.TopologicalWinding = m.QOscillator
		if m.TopologicalWinding <= 0 {
			m.TopologicalWinding = e.cfg.DefaultWinding
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
