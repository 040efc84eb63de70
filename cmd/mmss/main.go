// mmss is the geometric task engine: an HTTP server orchestrating operator
// tasks over a shared metrics state, plus client subcommands for driving a
// running instance.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	serverURL  string

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mmss",
	Short: "mmss - geometric metric task engine",
	Long: `mmss orchestrates operator tasks over a shared set of geometric
metrics: quaternion rotations, zitterbewegung tuning, emergence rules, and
LLM-planned research campaigns.

Run "mmss serve" to start the engine, then drive it with the task, rules,
campaign, and export subcommands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mmss.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "base URL of a running engine")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(campaignCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
