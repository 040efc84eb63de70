package task

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mmss/internal/engine"
	"mmss/internal/field"
	"mmss/internal/metrics"
	"mmss/internal/rules"
)

// ScriptRunner executes an embedded script and reports a metrics payload
// plus an optional artifact path.
type ScriptRunner interface {
	Run(ctx context.Context, script string) (map[string]any, string, error)
}

// FieldGenerator produces an opaque soliton field snapshot.
type FieldGenerator interface {
	Generate() field.SolitonField
}

// AsymmetrySimulator models the external polarization-asymmetry phenomenon.
type AsymmetrySimulator interface {
	Simulate(kappa float64, events uint64) field.Asymmetry
}

// ProcessorConfig wires a processor. Zero-value fields fall back to the
// defaults noted per field; a nil Script leaves the custom_script operator
// without a capability.
type ProcessorConfig struct {
	Engine    *engine.Engine     // default: engine.New(engine.DefaultConfig())
	Rules     *rules.Registry    // default: empty registry
	Script    ScriptRunner       // optional
	Fields    FieldGenerator     // default: field.Hopfion{}
	Simulator AsymmetrySimulator // default: field.LeadingOrder{}
	Logger    *zap.Logger        // default: zap.NewNop()
}

// Processor orchestrates submit/execute against the store, applying local
// operators through the engine and routing delegate operators to external
// capabilities. Capability calls run outside the store's exclusive window;
// they are bounded only by the caller's context.
type Processor struct {
	store  *Store
	engine *engine.Engine
	rules  *rules.Registry
	script ScriptRunner
	fields FieldGenerator
	sim    AsymmetrySimulator
	log    *zap.Logger

	fieldMu   sync.RWMutex
	lastField *field.SolitonField
}

// NewProcessor creates a processor with a fresh store seeded at baseline.
func NewProcessor(cfg ProcessorConfig) *Processor {
	if cfg.Engine == nil {
		cfg.Engine = engine.New(engine.DefaultConfig())
	}
	if cfg.Rules == nil {
		cfg.Rules = rules.NewRegistry()
	}
	if cfg.Fields == nil {
		cfg.Fields = field.Hopfion{}
	}
	if cfg.Simulator == nil {
		cfg.Simulator = field.LeadingOrder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Processor{
		store:  NewStore(),
		engine: cfg.Engine,
		rules:  cfg.Rules,
		script: cfg.Script,
		fields: cfg.Fields,
		sim:    cfg.Simulator,
		log:    cfg.Logger,
	}
}

// Submit inserts the task as pending.
func (p *Processor) Submit(cmd Command) (uuid.UUID, error) {
	id, err := p.store.Submit(cmd)
	if err != nil {
		return uuid.Nil, err
	}
	p.log.Info("task submitted",
		zap.Stringer("task_id", id),
		zap.String("name", cmd.TaskName),
		zap.String("operator", string(cmd.Operator)))
	return id, nil
}

// Execute runs the task to its terminal state. A capability failure marks
// the task failed and surfaces as a *CapabilityError.
func (p *Processor) Execute(ctx context.Context, id uuid.UUID) (ExecutionResult, error) {
	cmd, err := p.store.begin(id)
	if err != nil {
		return ExecutionResult{}, err
	}

	snap, output, err := p.run(ctx, cmd)
	if err != nil {
		p.store.fail(id, err.Error())
		p.log.Warn("task failed", zap.Stringer("task_id", id), zap.Error(err))
		return ExecutionResult{TaskID: id, Success: false, Metrics: p.store.Metrics(), Error: err.Error()}, err
	}

	p.store.complete(id, snap)
	p.log.Info("task completed", zap.Stringer("task_id", id), zap.String("operator", string(cmd.Operator)))
	return ExecutionResult{TaskID: id, Success: true, Metrics: snap, Output: output}, nil
}

func (p *Processor) run(ctx context.Context, cmd Command) (metrics.Snapshot, map[string]any, error) {
	if !cmd.Operator.Delegated() {
		snap := p.store.updateMetrics(func(m *metrics.Snapshot) {
			*m = p.engine.Apply(*m, cmd.Operator, cmd.Parameters)
		})
		return snap, map[string]any{"status": "completed"}, nil
	}

	switch cmd.Operator {
	case engine.OpSimulateAsymmetry:
		if p.sim == nil {
			return metrics.Snapshot{}, nil, &CapabilityError{Capability: "simulator", Err: errors.New("no simulator configured")}
		}
		kappa := cmd.Parameters.Float("kappa", 0.2)
		events := asymmetryEvents(cmd.Parameters)

		res := p.sim.Simulate(kappa, events)

		snap := p.store.updateMetrics(func(m *metrics.Snapshot) {
			// Delegate result replaces the whole custom-metric map.
			m.Custom = map[string]any{
				"polarization_asymmetry": res.A,
				"sensitivity_curve":      res.Sigma,
			}
		})
		return snap, map[string]any{"status": "completed"}, nil

	case engine.OpGenerateField:
		if p.fields == nil {
			return metrics.Snapshot{}, nil, &CapabilityError{Capability: "field_generator", Err: errors.New("no field generator configured")}
		}
		f := p.fields.Generate()

		// The field artifact is stored beside the metrics, never in them.
		p.fieldMu.Lock()
		p.lastField = &f
		p.fieldMu.Unlock()

		return p.store.Metrics(), map[string]any{"status": "completed", "hopf_index": f.NH}, nil

	case engine.OpCustomScript:
		if p.script == nil {
			return metrics.Snapshot{}, nil, &CapabilityError{Capability: "script_runner", Err: errors.New("no script runner configured")}
		}
		code := cmd.Parameters.String("script", "")

		payload, artifact, err := p.script.Run(ctx, code)
		if err != nil {
			return metrics.Snapshot{}, nil, &CapabilityError{Capability: "script_runner", Err: err}
		}

		snap := p.store.updateMetrics(func(m *metrics.Snapshot) {
			m.Custom = payload
		})
		output := map[string]any{"status": "completed"}
		if artifact != "" {
			output["artifact_path"] = artifact
		}
		return snap, output, nil
	}

	return metrics.Snapshot{}, nil, &CapabilityError{
		Capability: "operator",
		Err:        fmt.Errorf("no capability bound for operator %q", cmd.Operator),
	}
}

const (
	defaultAsymmetryEvents = 50000
	// maxAsymmetryEvents bounds the simulator's sensitivity sweep; the curve
	// grows by one point per thousand events.
	maxAsymmetryEvents = 10_000_000
)

// asymmetryEvents reads the n_events parameter, degrading malformed values
// (negative, NaN, non-numeric) to the default and capping the rest so a
// single task cannot run the simulator unbounded.
func asymmetryEvents(p engine.Params) uint64 {
	n := p.Float("n_events", defaultAsymmetryEvents)
	if math.IsNaN(n) || n <= 0 {
		n = defaultAsymmetryEvents
	}
	if n > maxAsymmetryEvents {
		n = maxAsymmetryEvents
	}
	return uint64(n)
}

// Status returns the task's lifecycle status.
func (p *Processor) Status(id uuid.UUID) (Status, error) {
	return p.store.Status(id)
}

// List returns the full task history.
func (p *Processor) List() []Record {
	return p.store.List()
}

// CurrentMetrics returns a copy of the shared metrics state.
func (p *Processor) CurrentMetrics() metrics.Snapshot {
	return p.store.Metrics()
}

// Rules exposes the registry for rule administration.
func (p *Processor) Rules() *rules.Registry {
	return p.rules
}

// ApplyRule runs one registered rule against the shared state under the
// store's write lock, reporting whether the rule existed.
func (p *Processor) ApplyRule(name string) (metrics.Snapshot, bool) {
	applied := false
	snap := p.store.updateMetrics(func(m *metrics.Snapshot) {
		applied = p.rules.Apply(name, m)
	})
	return snap, applied
}

// ApplyAllRules runs every registered rule against the shared state.
func (p *Processor) ApplyAllRules() metrics.Snapshot {
	return p.store.updateMetrics(func(m *metrics.Snapshot) {
		p.rules.ApplyAll(m)
	})
}

// FieldSnapshot returns the most recent generated field, if any.
func (p *Processor) FieldSnapshot() *field.SolitonField {
	p.fieldMu.RLock()
	defer p.fieldMu.RUnlock()

	if p.lastField == nil {
		return nil
	}
	f := *p.lastField
	return &f
}
