package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"mmss/internal/task"
)

// DefaultModel is the Gemini model used when the config names none.
const DefaultModel = "gemini-2.0-flash"

// Gemini plans tasks through the Google GenAI API.
type Gemini struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// NewGemini creates a Gemini-backed planner.
func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{client: client, model: model, log: log}, nil
}

// PlanTask asks the model for the next task command and parses its reply.
func (g *Gemini) PlanTask(ctx context.Context, query string, payload map[string]any) (task.Command, error) {
	prompt := BuildPrompt(query, payload)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return task.Command{}, fmt.Errorf("gemini generate: %w", err)
	}

	raw := resp.Text()
	cmd, err := ParseCommand(raw)
	if err != nil {
		g.log.Warn("unparseable plan response", zap.String("model", g.model), zap.Error(err))
		return task.Command{}, err
	}

	g.log.Debug("plan produced",
		zap.String("model", g.model),
		zap.String("task_name", cmd.TaskName),
		zap.String("operator", string(cmd.Operator)))
	return cmd, nil
}
