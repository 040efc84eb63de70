package task

import (
	"sync"

	"github.com/google/uuid"

	"mmss/internal/metrics"
)

// Store holds the task records and the single authoritative metrics state.
// One RWMutex guards both: every mutation takes the write lock for the
// minimal duration of one change, reads take the shared lock. Records are
// never deleted; List returns the full history in submission order.
type Store struct {
	mu      sync.RWMutex
	tasks   map[uuid.UUID]*taskInfo
	order   []uuid.UUID
	metrics metrics.Snapshot
}

type taskInfo struct {
	command Command
	status  Status
}

// NewStore creates a store seeded with the baseline metrics.
func NewStore() *Store {
	return &Store{
		tasks:   make(map[uuid.UUID]*taskInfo),
		metrics: metrics.Baseline(),
	}
}

// Submit inserts the command as pending under its caller-supplied id, or a
// fresh one. A colliding id fails with ErrDuplicateID and leaves the
// existing record untouched.
func (s *Store) Submit(cmd Command) (uuid.UUID, error) {
	id := uuid.New()
	if cmd.TaskID != nil {
		id = *cmd.TaskID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; exists {
		return uuid.Nil, ErrDuplicateID
	}
	s.tasks[id] = &taskInfo{
		command: cmd,
		status:  Status{State: StatePending},
	}
	s.order = append(s.order, id)
	return id, nil
}

// Status returns the task's current status.
func (s *Store) Status(id uuid.UUID) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.tasks[id]
	if !ok {
		return Status{}, ErrNotFound
	}
	return info.status, nil
}

// List returns every known task in submission order.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		info := s.tasks[id]
		out = append(out, Record{ID: id, Command: info.command, Status: info.status})
	}
	return out
}

// Metrics returns a copy of the current shared metrics state.
func (s *Store) Metrics() metrics.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics.Clone()
}

// begin moves a pending task to in_progress and hands its command to the
// processor. Terminal tasks are rejected: the lifecycle is strictly one-way.
func (s *Store) begin(id uuid.UUID) (Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.tasks[id]
	if !ok {
		return Command{}, ErrNotFound
	}
	if info.status.Terminal() {
		return Command{}, ErrTaskFinished
	}
	info.status = Status{State: StateInProgress}
	return info.command, nil
}

// complete records the terminal snapshot for the task.
func (s *Store) complete(id uuid.UUID, snap metrics.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, ok := s.tasks[id]; ok {
		info.status = Status{State: StateCompleted, Metrics: &snap}
	}
}

// fail records the terminal failure reason for the task.
func (s *Store) fail(id uuid.UUID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, ok := s.tasks[id]; ok {
		info.status = Status{State: StateFailed, Reason: reason}
	}
}

// updateMetrics applies one exclusive mutation to the shared metrics state
// and returns the resulting copy.
func (s *Store) updateMetrics(fn func(*metrics.Snapshot)) metrics.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.metrics)
	return s.metrics.Clone()
}
