package task

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmss/internal/engine"
	"mmss/internal/metrics"
)

func TestSubmitGeneratesFreshID(t *testing.T) {
	s := NewStore()

	id, err := s.Submit(Command{TaskName: "t", Operator: engine.OpQuaternionRotation})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	status, err := s.Status(id)
	require.NoError(t, err)
	assert.Equal(t, StatePending, status.State)
}

func TestSubmitDuplicateIDKeepsFirstRecord(t *testing.T) {
	s := NewStore()
	id := uuid.New()

	first := Command{TaskName: "first", Operator: engine.OpQuaternionRotation, TaskID: &id}
	_, err := s.Submit(first)
	require.NoError(t, err)

	second := Command{TaskName: "second", Operator: engine.OpZitterbewegung, TaskID: &id}
	_, err = s.Submit(second)
	assert.ErrorIs(t, err, ErrDuplicateID)

	// The original record is unaffected.
	status, err := s.Status(id)
	require.NoError(t, err)
	assert.Equal(t, StatePending, status.State)

	records := s.List()
	require.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Command.TaskName)
}

func TestStatusUnknownID(t *testing.T) {
	s := NewStore()
	_, err := s.Status(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPreservesSubmissionOrder(t *testing.T) {
	s := NewStore()
	names := []string{"a", "b", "c"}
	for _, n := range names {
		_, err := s.Submit(Command{TaskName: n, Operator: engine.OpGeometricDerivation})
		require.NoError(t, err)
	}

	records := s.List()
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, names[i], r.Command.TaskName)
	}
}

func TestBeginRejectsTerminalTask(t *testing.T) {
	s := NewStore()
	id, err := s.Submit(Command{TaskName: "t", Operator: engine.OpQuaternionRotation})
	require.NoError(t, err)

	_, err = s.begin(id)
	require.NoError(t, err)
	s.complete(id, metrics.Baseline())

	_, err = s.begin(id)
	assert.ErrorIs(t, err, ErrTaskFinished)

	// Failed tasks are terminal too.
	id2, err := s.Submit(Command{TaskName: "t2", Operator: engine.OpQuaternionRotation})
	require.NoError(t, err)
	_, err = s.begin(id2)
	require.NoError(t, err)
	s.fail(id2, "boom")

	_, err = s.begin(id2)
	assert.ErrorIs(t, err, ErrTaskFinished)
}

func TestMetricsReturnsIndependentCopy(t *testing.T) {
	s := NewStore()

	snap := s.Metrics()
	snap.SetCustom("mutated", true)

	_, ok := s.Metrics().Custom["mutated"]
	assert.False(t, ok)
}
