package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

const commandSchema = `{
  "task_name": "short human-readable name",
  "operator": "one of: quaternion_rotation | zitterbewegung | geometric_derivation | semantic_synthesis | simulate_asymmetry | generate_field | custom_script",
  "target_module": "subsystem identifier, e.g. sys7_core",
  "parameters": { "operator-specific keys": "numeric or string values" },
  "expected_output_metric": "wire name of the metric this task should move"
}`

// BuildPrompt assembles the planning prompt: the caller query, the context
// payload as JSON, and the strict output contract.
func BuildPrompt(query string, payload map[string]any) string {
	var b strings.Builder

	b.WriteString("You are the planning module of a geometric task engine.\n\n")
	fmt.Fprintf(&b, "Request: %s\n\n", query)

	if len(payload) > 0 {
		ctxJSON, err := json.MarshalIndent(payload, "", "  ")
		if err == nil {
			b.WriteString("Context:\n")
			b.Write(ctxJSON)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("Respond with exactly one JSON object matching this shape, no prose:\n")
	b.WriteString(commandSchema)
	b.WriteString("\n")
	return b.String()
}
