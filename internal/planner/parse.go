package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"mmss/internal/task"
)

// Error wraps a planning failure with the raw model output, so callers can
// log what the model actually said.
type Error struct {
	Raw string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("plan response: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseCommand extracts the task command from a model response. Markdown
// fences and surrounding prose are tolerated; the first balanced JSON object
// is decoded and validated.
func ParseCommand(raw string) (task.Command, error) {
	body := extractJSON(raw)
	if body == "" {
		return task.Command{}, &Error{Raw: raw, Err: fmt.Errorf("no JSON object found")}
	}

	var cmd task.Command
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(&cmd); err != nil {
		return task.Command{}, &Error{Raw: raw, Err: fmt.Errorf("decode command: %w", err)}
	}

	if cmd.TaskName == "" {
		return task.Command{}, &Error{Raw: raw, Err: fmt.Errorf("missing task_name")}
	}
	if cmd.Operator == "" {
		return task.Command{}, &Error{Raw: raw, Err: fmt.Errorf("missing operator")}
	}
	return cmd, nil
}

// extractJSON returns the first balanced top-level JSON object in the text,
// skipping markdown fences.
func extractJSON(raw string) string {
	cleaned := raw
	if idx := strings.Index(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[idx+3:]
		cleaned = strings.TrimPrefix(cleaned, "json")
		if end := strings.Index(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
	}

	start := strings.Index(cleaned, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return cleaned[start : i+1]
			}
		}
	}
	return ""
}
