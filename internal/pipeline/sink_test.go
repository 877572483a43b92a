package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
)

func sampleResult() outline.Result {
	return outline.Result{
		Title: "Café Report",
		Outline: []outline.Entry{
			{Level: outline.H1, Text: "Introduction", Page: 1},
			{Level: outline.H2, Text: "Scope & Goals", Page: 2},
		},
	}
}

func TestDirSink_OutputName(t *testing.T) {
	tests := []struct {
		format, input, want string
	}{
		{config.FormatJSON, "report.pdf", "report.json"},
		{config.FormatJSON, "/in/archive.v2.pdf", "archive.v2.json"},
		{config.FormatMarkdown, "notes.md", "notes.md"},
		{"", "memo.docx", "memo.json"},
	}
	for _, tt := range tests {
		s := NewDirSink("out", tt.format)
		if got := s.OutputName(tt.input); got != tt.want {
			t.Errorf("OutputName(%q, %s): expected %q, got %q", tt.input, tt.format, tt.want, got)
		}
	}
}

func TestDirSink_WritesJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	s := NewDirSink(dir, config.FormatJSON)

	path, err := s.Write(context.Background(), "report.pdf", sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "report.json") {
		t.Errorf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `"title": "Café Report"`) {
		t.Errorf("expected unescaped title, got:\n%s", got)
	}
	if !strings.Contains(got, `"text": "Scope & Goals"`) {
		t.Errorf("expected unescaped ampersand, got:\n%s", got)
	}

	// No temp files are left behind.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected exactly one file in output dir, got %d", len(entries))
	}
}

func TestDirSink_WritesMarkdown(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSink(dir, config.FormatMarkdown)
	path, err := s.Write(context.Background(), "report.pdf", sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# Café Report\n") {
		t.Errorf("unexpected markdown:\n%s", data)
	}
}

func TestDirSink_Overwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSink(dir, config.FormatJSON)
	if _, err := s.Write(context.Background(), "a.pdf", sampleResult()); err != nil {
		t.Fatal(err)
	}
	path, err := s.Write(context.Background(), "a.pdf", outline.Empty("Untitled"))
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"outline": []`) {
		t.Errorf("expected overwritten empty outline, got:\n%s", data)
	}
}

func TestDirSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDirSink(t.TempDir(), "").Write(ctx, "a.pdf", sampleResult()); err == nil {
		t.Error("expected error for cancelled context")
	}
}
