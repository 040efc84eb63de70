package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mmss/internal/engine"
	"mmss/internal/task"
)

var (
	taskName     string
	taskOperator string
	taskModule   string
	taskMetric   string
	taskParams   string
	taskFile     string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Submit, execute, and inspect tasks on a running engine",
}

var taskSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a task as pending",
	Long: `Submits a task command. Either build it from flags or pass a full
command document with --file.

Example:
  mmss task submit --name "Boost coherence" --operator quaternion_rotation \
      --params '{"theta": 0.25, "axis": [0, 1, 0]}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		command, err := buildTaskCommand()
		if err != nil {
			return err
		}

		var created struct {
			TaskID uuid.UUID `json:"task_id"`
			State  string    `json:"state"`
		}
		if err := apiPost("/tasks", command, &created); err != nil {
			return err
		}
		fmt.Printf("submitted %s (%s)\n", created.TaskID, created.State)
		return nil
	},
}

var taskExecuteCmd = &cobra.Command{
	Use:   "execute [task-id]",
	Short: "Execute a pending task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id %q: %w", args[0], err)
		}

		var result task.ExecutionResult
		if err := apiPost(fmt.Sprintf("/tasks/%s/execute", id), nil, &result); err != nil {
			return err
		}
		return printJSON(result)
	},
}

var taskRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Submit and execute a task in one step",
	RunE: func(cmd *cobra.Command, args []string) error {
		command, err := buildTaskCommand()
		if err != nil {
			return err
		}

		var created struct {
			TaskID uuid.UUID `json:"task_id"`
		}
		if err := apiPost("/tasks", command, &created); err != nil {
			return err
		}

		var result task.ExecutionResult
		if err := apiPost(fmt.Sprintf("/tasks/%s/execute", created.TaskID), nil, &result); err != nil {
			return err
		}
		return printJSON(result)
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-id]",
	Short: "Show a task's lifecycle status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id %q: %w", args[0], err)
		}

		var status task.Status
		if err := apiGet(fmt.Sprintf("/tasks/%s", id), &status); err != nil {
			return err
		}
		return printJSON(status)
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known task in submission order",
	RunE: func(cmd *cobra.Command, args []string) error {
		var listing struct {
			Tasks []task.Record `json:"tasks"`
			Count int           `json:"count"`
		}
		if err := apiGet("/tasks", &listing); err != nil {
			return err
		}
		return printJSON(listing)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the current shared metrics state",
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap map[string]any
		if err := apiGet("/metrics/system", &snap); err != nil {
			return err
		}
		return printJSON(snap)
	},
}

func buildTaskCommand() (task.Command, error) {
	if taskFile != "" {
		data, err := os.ReadFile(taskFile)
		if err != nil {
			return task.Command{}, fmt.Errorf("read command file: %w", err)
		}
		var command task.Command
		if err := json.Unmarshal(data, &command); err != nil {
			return task.Command{}, fmt.Errorf("parse command file: %w", err)
		}
		return command, nil
	}

	if taskName == "" {
		return task.Command{}, fmt.Errorf("--name is required (or use --file)")
	}
	if taskOperator == "" {
		return task.Command{}, fmt.Errorf("--operator is required (or use --file)")
	}

	params := engine.Params{}
	if taskParams != "" {
		if err := json.Unmarshal([]byte(taskParams), &params); err != nil {
			return task.Command{}, fmt.Errorf("parse --params: %w", err)
		}
	}

	return task.Command{
		TaskName:             taskName,
		Operator:             engine.Operator(taskOperator),
		TargetModule:         taskModule,
		Parameters:           params,
		ExpectedOutputMetric: taskMetric,
	}, nil
}

func init() {
	for _, c := range []*cobra.Command{taskSubmitCmd, taskRunCmd} {
		c.Flags().StringVar(&taskName, "name", "", "task name")
		c.Flags().StringVar(&taskOperator, "operator", "", "operator tag, e.g. quaternion_rotation")
		c.Flags().StringVar(&taskModule, "module", "", "target module identifier")
		c.Flags().StringVar(&taskMetric, "metric", "", "expected output metric")
		c.Flags().StringVar(&taskParams, "params", "", "operator parameters as a JSON object")
		c.Flags().StringVar(&taskFile, "file", "", "full task command as a JSON file")
	}

	taskCmd.AddCommand(taskSubmitCmd)
	taskCmd.AddCommand(taskExecuteCmd)
	taskCmd.AddCommand(taskRunCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskListCmd)

	rootCmd.AddCommand(metricsCmd)
}
