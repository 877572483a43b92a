package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
)

// FileReport is the outcome of one input file.
type FileReport struct {
	Filename string        `json:"filename"`
	Output   string        `json:"output,omitempty"`
	Title    string        `json:"title,omitempty"`
	Entries  int           `json:"entries"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// BatchReport summarises a batch run.
type BatchReport struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
	Files     []FileReport  `json:"files"`
}

// ListInputs returns the regular files in dir whose extension is one of
// exts, sorted by name. Subdirectories are not descended into.
func ListInputs(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// RunBatch extracts an outline for every matching file in cfg.InputDir and
// writes one output per input into cfg.OutputDir. A failed file is reported
// and never stops the rest of the batch. The returned error is reserved for
// problems with the batch itself: an unreadable input directory, an
// unusable output directory, or cancellation.
func RunBatch(ctx context.Context, cfg config.Config, log *slog.Logger) (BatchReport, error) {
	start := time.Now()

	paths, err := ListInputs(cfg.InputDir, cfg.InputExtensions)
	if err != nil {
		return BatchReport{}, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return BatchReport{}, fmt.Errorf("create output dir: %w", err)
	}
	log.Info("batch started", "input_dir", cfg.InputDir, "output_dir", cfg.OutputDir, "files", len(paths), "workers", cfg.WorkerCount)

	o := NewOrchestrator(cfg, NewDirSink(cfg.OutputDir, cfg.OutputFormat), log)
	o.Start(ctx)
	defer o.Stop()

	jobs := make([]*Job, 0, len(paths))
	for _, path := range paths {
		job := NewFileJob(path)
		if err := o.Enqueue(ctx, job); err != nil {
			return BatchReport{}, fmt.Errorf("enqueue %s: %w", job.Filename, err)
		}
		jobs = append(jobs, job)
	}

	report := BatchReport{Total: len(jobs), Files: make([]FileReport, 0, len(jobs))}
	for _, job := range jobs {
		select {
		case <-job.Done():
		case <-ctx.Done():
			return report, ctx.Err()
		}

		snap := job.Snapshot()
		fr := FileReport{
			Filename: snap.Filename,
			Output:   snap.Output,
			Title:    snap.Title,
			Entries:  snap.Entries,
			Duration: time.Duration(snap.DurationMs) * time.Millisecond,
		}
		if snap.Status == StatusFailed {
			fr.Error = strings.Join(snap.Errors, "; ")
			report.Failed++
			log.Warn("file failed", "filename", fr.Filename, "error", fr.Error)
		} else {
			report.Succeeded++
			log.Info("file processed", "filename", fr.Filename, "output", fr.Output, "entries", fr.Entries, "duration_ms", snap.DurationMs)
		}
		report.Files = append(report.Files, fr)
	}

	report.Duration = time.Since(start)
	log.Info("batch complete",
		"total", report.Total,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}
