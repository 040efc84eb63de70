package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mmss/internal/campaign"
	"mmss/internal/export"
)

var (
	campaignGoal        string
	campaignTarget      string
	campaignTargetValue float64
	campaignMaxSteps    int
	campaignExportPath  string
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Run a goal-seeking research campaign",
	Long: `Runs a bounded plan/execute/measure loop that drives a metric toward
a target value. The engine consults its planner for each step and falls back
to deterministic commands when the planner is unavailable.

Example:
  mmss campaign --goal "maximize coherence" --target quaternion_coherence`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := campaign.Request{
			Goal:               campaignGoal,
			OptimizationTarget: campaignTarget,
			MaxSteps:           campaignMaxSteps,
		}
		if cmd.Flags().Changed("target-value") {
			req.TargetValue = &campaignTargetValue
		}

		var result campaign.Result
		if err := apiPost("/campaigns", req, &result); err != nil {
			return err
		}

		if campaignExportPath != "" {
			records := export.CampaignRecords(result, time.Now().Unix())
			if err := export.WriteFile(campaignExportPath, records); err != nil {
				return fmt.Errorf("export campaign history: %w", err)
			}
			fmt.Printf("history written to %s\n", campaignExportPath)
		}
		return printJSON(result)
	},
}

func init() {
	campaignCmd.Flags().StringVar(&campaignGoal, "goal", "", "natural-language campaign goal")
	campaignCmd.Flags().StringVar(&campaignTarget, "target", "", "metric to optimize, e.g. topological_winding")
	campaignCmd.Flags().Float64Var(&campaignTargetValue, "target-value", 0, "target value (defaults per metric)")
	campaignCmd.Flags().IntVar(&campaignMaxSteps, "max-steps", 0, "step budget (default 5)")
	campaignCmd.Flags().StringVar(&campaignExportPath, "export", "", "write step history to a CSV file")
	_ = campaignCmd.MarkFlagRequired("goal")
	_ = campaignCmd.MarkFlagRequired("target")
}
