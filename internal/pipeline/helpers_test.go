package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
)

const reportMD = `# Annual Report 2024

Body paragraph one.

More body text here.

Even more body.

### Results Overview

Closing body.
`

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testConfig(in, out string) config.Config {
	return config.Config{
		InputDir:        in,
		OutputDir:       out,
		InputExtensions: []string{".md"},
		OutputFormat:    config.FormatJSON,
		WorkerCount:     2,
		MaxQueueSize:    4,
		JobTTL:          time.Hour,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func waitDone(t *testing.T, job *Job) {
	t.Helper()
	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("job %s did not finish", job.ID)
	}
}
