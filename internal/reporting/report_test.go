package reporting

import (
	"encoding/csv"
	"encoding/json"
	"runtime"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileshred/internal/app"
	"fileshred/internal/config"
)

func sampleOperations() []*app.FileOperation {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Second)
	return []*app.FileOperation{
		{ID: "a", Path: "/data/a", Size: 100, Passes: 3, Status: app.StatusCompleted, StartTime: start, EndTime: &end, BytesWritten: 300},
		{ID: "b", Path: "/data/b", Status: app.StatusRejected, Error: "stat '/data/b': not found", ErrorKind: "not_found", EndTime: &end},
		{ID: "c", Path: "/data/c", Status: app.StatusSkipped, EndTime: &end},
		{ID: "d", Path: "/data/d", Status: app.StatusCompleted, StartTime: start, EndTime: &end, BytesWritten: 50, Removed: true},
	}
}

func TestGenerateReport(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg := config.Default()

	report := GenerateReport(sampleOperations(), cfg, "1.0.0", "paranoid", start, start.Add(90*time.Second), 1)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "1.0.0", report.Version)
	assert.Equal(t, "paranoid", report.Profile)
	assert.Equal(t, 1, report.ExitCode)
	assert.Equal(t, "1m30s", report.Duration)

	assert.Equal(t, SummaryReport{
		TotalFiles:  4,
		Completed:   2,
		Rejected:    1,
		Skipped:     1,
		TotalBytes:  350,
		SuccessRate: 50,
	}, report.Summary)

	require.Len(t, report.Operations, 4)
	assert.NotNil(t, report.Operations[0].StartTime)
	assert.Nil(t, report.Operations[1].StartTime)
	assert.Equal(t, "not_found", report.Operations[1].ErrorKind)
	assert.True(t, report.Operations[3].Removed)

	shredCfg, ok := report.Config["shred"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 3, shredCfg["passes"])

	assert.Equal(t, runtime.GOOS, report.System.OS)
	assert.NotZero(t, report.System.PID)
}

func TestGenerateReportEmpty(t *testing.T) {
	now := time.Now()
	report := GenerateReport(nil, config.Default(), "1.0.0", "", now, now, 0)
	assert.Zero(t, report.Summary.SuccessRate)
	assert.Empty(t, report.Operations)
}

func TestSaveReport(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg := config.Default()
	cfg.Reporting.LocalPath = filepath.Join(t.TempDir(), "reports")
	report := GenerateReport(sampleOperations(), cfg, "1.0.0", "", start, start.Add(time.Second), 0)

	path, err := SaveReport(report, cfg, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Reporting.LocalPath, "shred_report_20260301_100000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, report.Summary, decoded.Summary)
	assert.NotContains(t, string(data), `"profile"`)

	explicit := filepath.Join(t.TempDir(), "run.json")
	path, err = SaveReport(report, cfg, explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	assert.FileExists(t, explicit)
}

func TestSaveReportUnwritable(t *testing.T) {
	report := GenerateReport(nil, config.Default(), "1.0.0", "", time.Now(), time.Now(), 0)
	_, err := SaveReport(report, config.Default(), filepath.Join(t.TempDir(), "missing", "run.json"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to write report"))
}

func TestSaveReportCSV(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg := config.Default()
	cfg.Reporting.Format = "csv"
	cfg.Reporting.LocalPath = t.TempDir()
	report := GenerateReport(sampleOperations(), cfg, "1.0.0", "", start, start.Add(time.Second), 1)

	path, err := SaveReport(report, cfg, "")
	require.NoError(t, err)
	assert.Equal(t, ".csv", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{report.RunID, "a", "/data/a", "COMPLETED"}, rows[1][:4])
	assert.Equal(t, "300", rows[1][9])
	assert.Equal(t, "2026-03-01T10:00:00Z", rows[1][10])
	assert.Equal(t, "", rows[2][10])
	assert.Equal(t, "not_found", rows[2][12])
	assert.Equal(t, "stat '/data/b': not found", rows[2][13])
}

func TestSaveReportUnknownFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Reporting.Format = "xml"
	report := GenerateReport(nil, cfg, "1.0.0", "", time.Now(), time.Now(), 0)
	_, err := SaveReport(report, cfg, filepath.Join(t.TempDir(), "r.xml"))
	assert.ErrorContains(t, err, "unsupported report format")
}
