// Package rules implements the dynamic rule registry: a name-keyed table of
// independently registered ad hoc transforms over the metrics snapshot,
// applied on demand or all at once.
package rules

import (
	"errors"
	"strings"
	"sync"

	"mmss/internal/metrics"
)

// ErrEmptyName rejects registration under a blank rule name.
var ErrEmptyName = errors.New("rule name cannot be empty")

// Rule mutates a metrics snapshot in place. Ownership of the closure belongs
// exclusively to the registry.
type Rule func(*metrics.Snapshot)

// Registry stores named rules. It is guarded independently of the task
// store, so rules may be registered or removed while tasks execute.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register inserts the rule, replacing any prior rule of the same name
// without growing the table. A replaced rule keeps its original position in
// the application order.
func (r *Registry) Register(name string, rule Rule) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[name]; !exists {
		r.order = append(r.order, name)
	}
	r.rules[name] = rule
	return nil
}

// Remove deletes the named rule, reporting whether anything was removed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[name]; !exists {
		return false
	}
	delete(r.rules, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Apply runs a single rule against the snapshot, reporting false when the
// name is unknown.
func (r *Registry) Apply(name string, m *metrics.Snapshot) bool {
	r.mu.RLock()
	rule, ok := r.rules[name]
	r.mu.RUnlock()

	if !ok {
		return false
	}
	rule(m)
	return true
}

// ApplyAll runs every registered rule in insertion order. An empty registry
// leaves the snapshot untouched.
func (r *Registry) ApplyAll(m *metrics.Snapshot) {
	r.mu.RLock()
	ordered := make([]Rule, 0, len(r.order))
	for _, name := range r.order {
		ordered = append(ordered, r.rules[name])
	}
	r.mu.RUnlock()

	for _, rule := range ordered {
		rule(m)
	}
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// IsEmpty reports whether no rules are registered.
func (r *Registry) IsEmpty() bool {
	return r.Len() == 0
}

// Names returns the rule names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
