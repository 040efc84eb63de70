package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmss/internal/engine"
)

func TestParseCommandPlainJSON(t *testing.T) {
	raw := `{
		"task_name": "Boost coherence",
		"operator": "quaternion_rotation",
		"target_module": "sys7_core",
		"parameters": {"theta": 0.25, "axis": [0, 1, 0]},
		"expected_output_metric": "quaternion_coherence"
	}`

	cmd, err := ParseCommand(raw)
	require.NoError(t, err)
	assert.Equal(t, "Boost coherence", cmd.TaskName)
	assert.Equal(t, engine.OpQuaternionRotation, cmd.Operator)
	assert.Equal(t, "sys7_core", cmd.TargetModule)
	assert.Equal(t, 0.25, cmd.Parameters.Float("theta", 0))
	assert.Equal(t, "quaternion_coherence", cmd.ExpectedOutputMetric)
	assert.Nil(t, cmd.TaskID)
}

func TestParseCommandFencedMarkdown(t *testing.T) {
	raw := "Here is the plan:\n```json\n" +
		`{"task_name": "Tune resonator", "operator": "zitterbewegung", "target_module": "sys6_resonator", "parameters": {"frequency_scale": 2.0}, "expected_output_metric": "emergent_electron_mass"}` +
		"\n```\nGood luck!"

	cmd, err := ParseCommand(raw)
	require.NoError(t, err)
	assert.Equal(t, "Tune resonator", cmd.TaskName)
	assert.Equal(t, engine.OpZitterbewegung, cmd.Operator)
	assert.Equal(t, 2.0, cmd.Parameters.Float("frequency_scale", 0))
}

func TestParseCommandSurroundingProse(t *testing.T) {
	raw := `I recommend the following: {"task_name": "Derive", "operator": "geometric_derivation", "target_module": "sys5_topology", "parameters": {"delta": 0.01}, "expected_output_metric": "s_geometric"} as the next step.`

	cmd, err := ParseCommand(raw)
	require.NoError(t, err)
	assert.Equal(t, engine.OpGeometricDerivation, cmd.Operator)
}

func TestParseCommandNestedBracesInStrings(t *testing.T) {
	raw := `{"task_name": "odd {name}", "operator": "semantic_synthesis", "target_module": "sys4", "parameters": {"anchor": "brace}y"}, "expected_output_metric": "v_geometric"}`

	cmd, err := ParseCommand(raw)
	require.NoError(t, err)
	assert.Equal(t, "odd {name}", cmd.TaskName)
	assert.Equal(t, "brace}y", cmd.Parameters.String("anchor", ""))
}

func TestParseCommandRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json", "I cannot help with that."},
		{"unbalanced", `{"task_name": "x", "operator":`},
		{"missing task name", `{"operator": "zitterbewegung"}`},
		{"missing operator", `{"task_name": "x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommand(tt.raw)
			require.Error(t, err)

			var perr *Error
			assert.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.raw, perr.Raw)
		})
	}
}

func TestBuildPromptIncludesQueryAndContext(t *testing.T) {
	prompt := BuildPrompt("raise the winding number", map[string]any{
		"optimization_target": "topological_winding",
		"target_value":        9.0,
	})

	assert.Contains(t, prompt, "raise the winding number")
	assert.Contains(t, prompt, "topological_winding")
	assert.Contains(t, prompt, "exactly one JSON object")
	assert.Contains(t, prompt, "quaternion_rotation")
}

func TestOfflinePlannerDeclines(t *testing.T) {
	_, err := Offline{}.PlanTask(context.Background(), "anything", nil)
	assert.ErrorIs(t, err, ErrOffline)
}
