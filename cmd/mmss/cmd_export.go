package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mmss/internal/export"
	"mmss/internal/task"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the task history of a running engine to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		var listing struct {
			Tasks []task.Record `json:"tasks"`
			Count int           `json:"count"`
		}
		if err := apiGet("/tasks", &listing); err != nil {
			return err
		}

		records := export.TaskRecords(listing.Tasks, time.Now().Unix())
		if err := export.WriteFile(exportOut, records); err != nil {
			return err
		}
		fmt.Printf("exported %d tasks to %s\n", listing.Count, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "tasks.csv", "output CSV path")
}
