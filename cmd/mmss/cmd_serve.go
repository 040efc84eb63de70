package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mmss/internal/campaign"
	"mmss/internal/config"
	"mmss/internal/planner"
	"mmss/internal/rules"
	"mmss/internal/script"
	"mmss/internal/server"
	"mmss/internal/task"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the engine HTTP server",
	Long: `Starts the task engine: operator execution over the shared metrics
state, rule administration, campaign planning, and Prometheus exposition.

The planner provider comes from the config file; setting GEMINI_API_KEY in
the environment switches it to Gemini automatically.`,
	RunE: runServe,
}

// timeoutScript bounds each script run with the configured timeout.
type timeoutScript struct {
	runner  *script.Runner
	timeout time.Duration
}

func (t timeoutScript) Run(ctx context.Context, code string) (map[string]any, string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.runner.Run(ctx, code)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scriptTimeout, err := time.ParseDuration(cfg.Script.Timeout)
	if err != nil {
		return fmt.Errorf("invalid script timeout %q: %w", cfg.Script.Timeout, err)
	}

	registry := rules.NewRegistry()
	proc := task.NewProcessor(task.ProcessorConfig{
		Rules:  registry,
		Script: timeoutScript{runner: script.NewRunner(), timeout: scriptTimeout},
		Logger: logger,
	})

	if cfg.Rules.Path != "" {
		watcher, err := rules.NewWatcher(registry, cfg.Rules.Path, logger)
		if err != nil {
			return fmt.Errorf("create rules watcher: %w", err)
		}
		if cfg.Rules.Watch {
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("start rules watcher: %w", err)
			}
			defer watcher.Stop()
		} else if err := watcher.Load(); err != nil {
			logger.Warn("rules file not loaded", zap.String("path", cfg.Rules.Path), zap.Error(err))
		}
	}

	var plan campaign.Planner
	switch cfg.Planner.Provider {
	case "gemini":
		gemini, err := planner.NewGemini(ctx, cfg.Planner.APIKey, cfg.Planner.Model, logger)
		if err != nil {
			return fmt.Errorf("configure gemini planner: %w", err)
		}
		plan = gemini
	default:
		logger.Info("no planner configured, campaigns use fallback commands only")
		plan = planner.Offline{}
	}

	controller := campaign.NewController(proc, plan, logger)

	srv := server.New(server.Options{
		Addr:               cfg.Server.Addr,
		Processor:          proc,
		Campaigns:          controller,
		Rules:              registry,
		Logger:             logger,
		CampaignRatePerSec: cfg.Server.CampaignRatePerSec,
		CampaignBurst:      cfg.Server.CampaignBurst,
	})
	return srv.Run(ctx)
}
