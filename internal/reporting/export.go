package reporting

import (
	"bytes"
	"encoding/csv"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"
)

// Environment describes the host a run happened on.
type Environment struct {
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Hostname string `json:"hostname,omitempty"`
	Username string `json:"username,omitempty"`
	PID      int    `json:"pid"`
}

func collectEnvironment() Environment {
	env := Environment{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
		PID:  os.Getpid(),
	}
	if host, err := os.Hostname(); err == nil {
		env.Hostname = host
	}
	if u, err := user.Current(); err == nil {
		env.Username = u.Username
	}
	return env
}

var csvHeader = []string{
	"run_id", "id", "path", "status", "size", "passes", "zero_pass",
	"remove", "removed", "bytes_written", "start_time", "end_time",
	"error_kind", "error", "residual",
}

// encodeCSV writes one row per operation. Run-level fields repeat on every
// row so the file can be concatenated with other runs.
func encodeCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, op := range report.Operations {
		row := []string{
			report.RunID,
			op.ID,
			op.Path,
			op.Status,
			strconv.FormatInt(op.Size, 10),
			strconv.Itoa(op.Passes),
			strconv.FormatBool(op.ZeroPass),
			op.Remove,
			strconv.FormatBool(op.Removed),
			strconv.FormatUint(op.BytesWritten, 10),
			formatTime(op.StartTime),
			formatTime(op.EndTime),
			op.ErrorKind,
			op.Error,
			op.Residual,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
