// Package metrics holds the shared numeric state of the engine: a snapshot of
// named geometric metrics plus an open-ended custom-metric map, and the
// physical-constant table the baseline snapshot is derived from.
package metrics

// Core metric names, as they appear on the wire and in campaign targets.
const (
	MetricVGeometric            = "v_geometric"
	MetricSGeometric            = "s_geometric"
	MetricQOscillator           = "q_oscillator"
	MetricQuaternionCoherence   = "quaternion_coherence"
	MetricEmergentElectronMass  = "emergent_electron_mass"
	MetricFineStructureConstant = "fine_structure_constant"
	MetricZitterbewegungEntropy = "zitterbewegung_entropy"
	MetricTopologicalWinding    = "topological_winding"
)

// Snapshot is the full named numeric state describing the system's current
// condition. It is pure data: all mutation happens through the operator
// engine and the rule registry.
type Snapshot struct {
	// VGeometric mirrors the quaternion coherence into a volume metric.
	VGeometric float64 `json:"v_geometric"`
	// SGeometric is the stability metric, held in [0.0001, 1.0].
	SGeometric float64 `json:"s_geometric"`
	// QOscillator is the oscillator quality factor.
	QOscillator float64 `json:"q_oscillator"`
	// QuaternionCoherence is held in [0, 0.9999].
	QuaternionCoherence float64 `json:"quaternion_coherence"`
	// EmergentElectronMass is the mass derived from zitterbewegung, in kg.
	EmergentElectronMass float64 `json:"emergent_electron_mass"`
	// FineStructureConstant is re-derived after every operator application.
	FineStructureConstant float64 `json:"fine_structure_constant"`
	// ZitterbewegungEntropy mirrors stability.
	ZitterbewegungEntropy float64 `json:"zitterbewegung_entropy"`
	// TopologicalWinding never goes below zero.
	TopologicalWinding float64 `json:"topological_winding"`
	// Custom carries open-ended extension metrics.
	Custom map[string]any `json:"custom_metrics"`
}

// Baseline returns the snapshot every engine instance starts from, computed
// from the physical constant table.
func Baseline() Snapshot {
	coherence := QuaternionCoherence()
	entropy := ZitterEntropy()

	return Snapshot{
		VGeometric:            coherence,
		SGeometric:            entropy,
		QOscillator:           DefaultWinding,
		QuaternionCoherence:   coherence,
		EmergentElectronMass:  ElectronMass(),
		FineStructureConstant: FineStructure(),
		ZitterbewegungEntropy: entropy,
		TopologicalWinding:    DefaultWinding,
		Custom:                map[string]any{},
	}
}

// Clone returns a copy whose custom-metric map is independent of the
// receiver's. Values inside the map are shared; they are treated as
// immutable once stored.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Custom = make(map[string]any, len(s.Custom))
	for k, v := range s.Custom {
		out.Custom[k] = v
	}
	return out
}

// SetCustom stores an extension metric, allocating the map if needed.
func (s *Snapshot) SetCustom(key string, value any) {
	if s.Custom == nil {
		s.Custom = map[string]any{}
	}
	s.Custom[key] = value
}

// Value looks up a core metric by wire name. Unknown names report ok=false
// so callers can pick their own default field.
func (s Snapshot) Value(name string) (float64, bool) {
	switch name {
	case MetricVGeometric:
		return s.VGeometric, true
	case MetricSGeometric:
		return s.SGeometric, true
	case MetricQOscillator:
		return s.QOscillator, true
	case MetricQuaternionCoherence:
		return s.QuaternionCoherence, true
	case MetricEmergentElectronMass:
		return s.EmergentElectronMass, true
	case MetricFineStructureConstant:
		return s.FineStructureConstant, true
	case MetricZitterbewegungEntropy:
		return s.ZitterbewegungEntropy, true
	case MetricTopologicalWinding:
		return s.TopologicalWinding, true
	}
	return 0, false
}

// CoreValues returns the eight core metrics keyed by wire name, in no
// particular order. Used by the Prometheus gauges.
func (s Snapshot) CoreValues() map[string]float64 {
	return map[string]float64{
		MetricVGeometric:            s.VGeometric,
		MetricSGeometric:            s.SGeometric,
		MetricQOscillator:           s.QOscillator,
		MetricQuaternionCoherence:   s.QuaternionCoherence,
		MetricEmergentElectronMass:  s.EmergentElectronMass,
		MetricFineStructureConstant: s.FineStructureConstant,
		MetricZitterbewegungEntropy: s.ZitterbewegungEntropy,
		MetricTopologicalWinding:    s.TopologicalWinding,
	}
}
