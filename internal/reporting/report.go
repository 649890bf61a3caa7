package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fileshred/internal/app"
	"fileshred/internal/config"
)

// Report is the JSON record of one shred run.
type Report struct {
	RunID      string                 `json:"run_id"`
	Version    string                 `json:"version"`
	Timestamp  time.Time              `json:"timestamp"`
	Config     map[string]interface{} `json:"config"`
	Profile    string                 `json:"profile,omitempty"`
	System     Environment            `json:"system"`
	Operations []OperationReport      `json:"operations"`
	Summary    SummaryReport          `json:"summary"`
	ExitCode   int                    `json:"exit_code"`
	Duration   string                 `json:"duration"`
}

// OperationReport is the per-file part of a Report.
type OperationReport struct {
	ID           string     `json:"id"`
	Path         string     `json:"path"`
	Size         int64      `json:"size"`
	Passes       int        `json:"passes"`
	ZeroPass     bool       `json:"zero_pass"`
	Remove       string     `json:"remove"`
	Removed      bool       `json:"removed"`
	Status       string     `json:"status"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	BytesWritten uint64     `json:"bytes_written"`
	Error        string     `json:"error,omitempty"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	Residual     string     `json:"residual,omitempty"`
}

// SummaryReport counts operations by outcome.
type SummaryReport struct {
	TotalFiles  int     `json:"total_files"`
	Completed   int     `json:"completed"`
	Rejected    int     `json:"rejected"`
	Failed      int     `json:"failed"`
	Cancelled   int     `json:"cancelled"`
	Skipped     int     `json:"skipped"`
	TotalBytes  uint64  `json:"total_bytes"`
	SuccessRate float64 `json:"success_rate"`
}

// GenerateReport builds a Report from the operations of a run.
func GenerateReport(operations []*app.FileOperation, cfg *config.Config, version, profile string, startTime, endTime time.Time, exitCode int) *Report {
	report := &Report{
		RunID:      uuid.NewString(),
		Version:    version,
		Timestamp:  startTime,
		Config:     configToMap(cfg),
		Profile:    profile,
		System:     collectEnvironment(),
		Operations: make([]OperationReport, len(operations)),
		ExitCode:   exitCode,
		Duration:   endTime.Sub(startTime).String(),
	}

	summary := SummaryReport{TotalFiles: len(operations)}
	for i, op := range operations {
		opReport := OperationReport{
			ID:           op.ID,
			Path:         op.Path,
			Size:         op.Size,
			Passes:       op.Passes,
			ZeroPass:     op.ZeroPass,
			Remove:       op.Remove,
			Removed:      op.Removed,
			Status:       op.Status,
			EndTime:      op.EndTime,
			BytesWritten: op.BytesWritten,
			Error:        op.Error,
			ErrorKind:    op.ErrorKind,
			Residual:     op.Residual,
		}
		if !op.StartTime.IsZero() {
			start := op.StartTime
			opReport.StartTime = &start
		}

		switch op.Status {
		case app.StatusCompleted:
			summary.Completed++
		case app.StatusRejected:
			summary.Rejected++
		case app.StatusFailed:
			summary.Failed++
		case app.StatusCancelled:
			summary.Cancelled++
		case app.StatusSkipped:
			summary.Skipped++
		}
		summary.TotalBytes += op.BytesWritten

		report.Operations[i] = opReport
	}

	if summary.TotalFiles > 0 {
		summary.SuccessRate = float64(summary.Completed) / float64(summary.TotalFiles) * 100
	}
	report.Summary = summary

	return report
}

// SaveReport writes report in the configured format (json or csv). An empty
// path places the file under reporting.local_path with a timestamped name.
// It returns the path written.
func SaveReport(report *Report, cfg *config.Config, path string) (string, error) {
	format := cfg.Reporting.Format
	if format == "" {
		format = "json"
	}

	if path == "" {
		if err := os.MkdirAll(cfg.Reporting.LocalPath, 0755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
		filename := fmt.Sprintf("shred_report_%s.%s", report.Timestamp.Format("20060102_150405"), format)
		path = filepath.Join(cfg.Reporting.LocalPath, filename)
	}

	var data []byte
	var err error
	switch format {
	case "csv":
		data, err = encodeCSV(report)
	case "json":
		data, err = json.MarshalIndent(report, "", "  ")
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

func configToMap(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"shred": map[string]interface{}{
			"passes":         cfg.Shred.Passes,
			"zero":           cfg.Shred.Zero,
			"remove":         cfg.Shred.Remove,
			"force":          cfg.Shred.Force,
			"quiet":          cfg.Shred.Quiet,
			"verify":         cfg.Shred.Verify,
			"buffer_size":    cfg.Shred.BufferSize,
			"max_speed_mbps": cfg.Shred.MaxSpeedMBps,
		},
		"logging": map[string]interface{}{
			"level": cfg.Logging.Level,
			"file":  cfg.Logging.File,
		},
		"reporting": map[string]interface{}{
			"format": cfg.Reporting.Format,
		},
		"security": map[string]interface{}{
			"protected_paths": cfg.Security.ProtectedPaths,
		},
	}
}
