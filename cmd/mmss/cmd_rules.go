package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mmss/internal/metrics"
	"mmss/internal/rules"
)

var (
	ruleDeltaV float64
	ruleDeltaS float64
	ruleDeltaQ float64
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Administer emergence rules on a running engine",
}

var rulesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Register a delta rule",
	Long: `Registers an additive adjustment rule. Only the deltas you pass are
applied; re-adding an existing name replaces the rule in place.

Example:
  mmss rules add volume_boost --delta-v 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rule := rules.DeltaRule{Name: args[0]}
		if cmd.Flags().Changed("delta-v") {
			rule.DeltaV = &ruleDeltaV
		}
		if cmd.Flags().Changed("delta-s") {
			rule.DeltaS = &ruleDeltaS
		}
		if cmd.Flags().Changed("delta-q") {
			rule.DeltaQ = &ruleDeltaQ
		}

		var resp struct {
			Name  string `json:"name"`
			Rules int    `json:"rules"`
		}
		if err := apiPost("/rules", rule, &resp); err != nil {
			return err
		}
		fmt.Printf("registered %q (%d rules)\n", resp.Name, resp.Rules)
		return nil
	},
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Rules int `json:"rules"`
		}
		if err := apiDelete("/rules/"+args[0], &resp); err != nil {
			return err
		}
		fmt.Printf("removed %q (%d rules remain)\n", args[0], resp.Rules)
		return nil
	},
}

var rulesApplyCmd = &cobra.Command{
	Use:   "apply [name]",
	Short: "Apply one rule, or every rule when no name is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/rules/apply"
		if len(args) == 1 {
			path = fmt.Sprintf("/rules/%s/apply", args[0])
		}

		var snap metrics.Snapshot
		if err := apiPost(path, nil, &snap); err != nil {
			return err
		}
		return printJSON(snap)
	},
}

func init() {
	rulesAddCmd.Flags().Float64Var(&ruleDeltaV, "delta-v", 0, "delta applied to v_geometric")
	rulesAddCmd.Flags().Float64Var(&ruleDeltaS, "delta-s", 0, "delta applied to s_geometric (clamped to [0, 1])")
	rulesAddCmd.Flags().Float64Var(&ruleDeltaQ, "delta-q", 0, "delta applied to q_oscillator")

	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesRemoveCmd)
	rulesCmd.AddCommand(rulesApplyCmd)
}
