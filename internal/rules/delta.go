package rules

import (
	"math"

	"mmss/internal/metrics"
)

// DeltaRule declares an additive adjustment to the three headline metrics.
// It is the wire form rules take over HTTP and in the rules file; Build
// compiles it into a registry closure.
type DeltaRule struct {
	Name   string   `json:"name" yaml:"name"`
	DeltaV *float64 `json:"delta_v,omitempty" yaml:"delta_v,omitempty"`
	DeltaS *float64 `json:"delta_s,omitempty" yaml:"delta_s,omitempty"`
	DeltaQ *float64 `json:"delta_q,omitempty" yaml:"delta_q,omitempty"`
}

// Build compiles the declaration into a Rule. The stability delta is clamped
// to [0, 1]; the other two apply unclamped. Each application leaves a marker
// custom metric recording that the rule fired.
func (d DeltaRule) Build() Rule {
	name := d.Name
	dv, ds, dq := d.DeltaV, d.DeltaS, d.DeltaQ

	return func(m *metrics.Snapshot) {
		if dv != nil {
			m.VGeometric += *dv
		}
		if ds != nil {
			m.SGeometric = math.Min(math.Max(m.SGeometric+*ds, 0), 1)
		}
		if dq != nil {
			m.QOscillator += *dq
		}
		m.SetCustom("rule:"+name, 1.0)
	}
}

// RegisterDelta validates and registers the declaration in one step,
// returning the resulting rule count.
func (r *Registry) RegisterDelta(d DeltaRule) (int, error) {
	if err := r.Register(d.Name, d.Build()); err != nil {
		return r.Len(), err
	}
	return r.Len(), nil
}
