package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
)

var (
	// ErrUnsupported marks inputs whose extension has no parser.
	ErrUnsupported = errors.New("unsupported file type")

	// ErrSourceRead marks inputs the span source could not open or parse.
	ErrSourceRead = errors.New("source read failure")
)

// Worker turns documents into outline results.
type Worker struct {
	extractor *outline.Extractor
	sink      Sink
	stats     *DurationStats
	log       *slog.Logger
}

// NewWorker creates a worker. sink and stats may be nil.
func NewWorker(extractor *outline.Extractor, sink Sink, stats *DurationStats, log *slog.Logger) *Worker {
	return &Worker{
		extractor: extractor,
		sink:      sink,
		stats:     stats,
		log:       log,
	}
}

// Extract parses data as the format implied by filename, validates the span
// layout and runs the outline heuristics.
func (w *Worker) Extract(ctx context.Context, filename string, data []byte) (outline.Result, error) {
	start := time.Now()
	doc, err := w.parse(ctx, filename, data)
	if err != nil {
		return outline.Result{}, err
	}
	res := w.extractor.Extract(doc)
	if w.stats != nil {
		w.stats.Record(time.Since(start))
	}
	return res, nil
}

func (w *Worker) parse(ctx context.Context, filename string, data []byte) (*layout.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	if err := layout.Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Process runs the full pipeline for a job. Failures are recorded on the
// job; they never propagate to other jobs.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	data := job.FileData()
	if path := job.SourcePath(); path != "" && data == nil {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Error("read failed", "error", err)
			job.Fail("parsing", fmt.Errorf("%w: %w", ErrSourceRead, err))
			return
		}
		job.SetFileData(b)
		data = b
	}

	doc, err := w.parse(ctx, job.Filename, data)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.Fail("parsing", err)
		return
	}
	log.Debug("parsed document", "pages", doc.PageCount())

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	res := w.extractor.Extract(doc)

	// Phase 3: Write
	output := ""
	if w.sink != nil {
		job.SetStatus(StatusWriting, "writing")
		output, err = w.sink.Write(ctx, job.Filename, res)
		if err != nil {
			log.Error("write failed", "error", err)
			job.Fail("writing", err)
			return
		}
	}

	elapsed := time.Since(start)
	if w.stats != nil {
		w.stats.Record(elapsed)
	}
	job.Complete(res, output, elapsed)
	log.Info("outline extracted",
		"title", res.Title,
		"entries", len(res.Outline),
		"pages", doc.PageCount(),
		"output", output,
		"duration_ms", elapsed.Milliseconds(),
	)
}
