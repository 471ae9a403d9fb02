package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okane-data/tickbar/internal/clean"
	"github.com/spf13/afero"
)

// RunReport is the structured record of one batch pipeline run.
type RunReport struct {
	RunID       string       `json:"run_id"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	TickDir     string       `json:"tick_dir"`
	RowsLoaded  int          `json:"rows_loaded"`
	TicksKept   int          `json:"ticks_kept"`
	BarsWritten int          `json:"bars_written,omitempty"`
	Rejections  clean.Report `json:"rejections"`
}

// NewRunReport starts a report for one run; the caller fills in the counts
// and stamps FinishedAt before writing.
func NewRunReport(tickDir string) RunReport {
	return RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		TickDir:   tickDir,
	}
}

// WriteRunReport persists the report as indented JSON.
func WriteRunReport(fs afero.Fs, path string, report RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	return afero.WriteFile(fs, path, data, 0644)
}
