package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
)

// Sink persists an extraction result and returns where it went.
type Sink interface {
	Write(ctx context.Context, filename string, res outline.Result) (string, error)
}

// DirSink writes one file per input into a directory, named after the
// input's base name.
type DirSink struct {
	dir    string
	format string
}

func NewDirSink(dir, format string) *DirSink {
	if format == "" {
		format = config.FormatJSON
	}
	return &DirSink{dir: dir, format: format}
}

// OutputName maps an input filename to its output filename.
func (s *DirSink) OutputName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if s.format == config.FormatMarkdown {
		return base + ".md"
	}
	return base + ".json"
}

func (s *DirSink) Write(ctx context.Context, filename string, res outline.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(s.dir, s.OutputName(filename))

	// Temp file plus rename: a reader never observes a partial output.
	tmp, err := os.CreateTemp(s.dir, ".outline-*")
	if err != nil {
		return "", fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := s.encode(tmp, res); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("rename output: %w", err)
	}
	return path, nil
}

func (s *DirSink) encode(w io.Writer, res outline.Result) error {
	if s.format == config.FormatMarkdown {
		return res.WriteMarkdown(w)
	}
	return res.WriteJSON(w)
}
