// Package export flattens engine history into columnar CSV files: one row
// per record with a JSON payload column, so downstream analysis tools can
// load campaign and task history without speaking the engine's API.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"mmss/internal/campaign"
	"mmss/internal/task"
)

// Record is one exported row.
type Record struct {
	ID        uint64
	Kind      string
	Timestamp int64
	Payload   any
}

// Record kinds.
const (
	KindCampaignStep = "campaign_step"
	KindTask         = "task"
)

var header = []string{"id", "kind", "timestamp", "payload"}

// Write emits the records as CSV with a header row. Payloads are serialized
// to JSON inside the payload column.
func Write(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		payload, err := json.Marshal(r.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload for record %d: %w", r.ID, err)
		}
		row := []string{
			strconv.FormatUint(r.ID, 10),
			r.Kind,
			strconv.FormatInt(r.Timestamp, 10),
			string(payload),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the records to a new CSV file at path.
func WriteFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CampaignRecords converts a campaign result into export records, one per
// step, stamped with the given unix timestamp.
func CampaignRecords(res campaign.Result, timestamp int64) []Record {
	out := make([]Record, 0, len(res.History))
	for _, step := range res.History {
		out = append(out, Record{
			ID:        uint64(step.Step),
			Kind:      KindCampaignStep,
			Timestamp: timestamp,
			Payload:   step,
		})
	}
	return out
}

// TaskRecords converts a task listing into export records in submission
// order, stamped with the given unix timestamp.
func TaskRecords(records []task.Record, timestamp int64) []Record {
	out := make([]Record, 0, len(records))
	for i, r := range records {
		out = append(out, Record{
			ID:        uint64(i + 1),
			Kind:      KindTask,
			Timestamp: timestamp,
			Payload:   r,
		})
	}
	return out
}
