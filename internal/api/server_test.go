package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

const reportMD = `# Annual Report 2024

Body paragraph one.

More body text here.

Even more body.

### Results Overview

Closing body.
`

type upload struct {
	field, name, content string
}

func testConfig() config.Config {
	return config.Config{
		OutputFormat:   config.FormatJSON,
		Port:           "8090",
		MaxUploadBytes: 1 << 20,
		WorkerCount:    2,
		MaxQueueSize:   8,
		JobTTL:         time.Hour,
	}
}

func newTestServer(t *testing.T, cfg config.Config, start bool) (*Server, *pipeline.Orchestrator) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	orch := pipeline.NewOrchestrator(cfg, nil, log)
	if start {
		orch.Start(context.Background())
	}
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg), orch
}

func multipartRequest(t *testing.T, path string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(f.content))
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), false)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.OutlineAPIKey = "secret"
	s, _ := newTestServer(t, cfg, false)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
		{"wrong key", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if rec := serve(s, req); rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}

	// Health stays public.
	if rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusOK {
		t.Errorf("expected public health, got %d", rec.Code)
	}
}

func TestOutline_Sync(t *testing.T) {
	s, orch := newTestServer(t, testConfig(), false)
	rec := serve(s, multipartRequest(t, "/api/outline", upload{"file", "report.md", reportMD}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	want := "{\n  \"title\": \"Annual Report 2024\",\n  \"outline\": [\n" +
		"    {\n      \"level\": \"H1\",\n      \"text\": \"Annual Report 2024\",\n      \"page\": 1\n    },\n" +
		"    {\n      \"level\": \"H2\",\n      \"text\": \"Results Overview\",\n      \"page\": 1\n    }\n  ]\n}\n"
	if rec.Body.String() != want {
		t.Errorf("unexpected body:\n%s", rec.Body.String())
	}
	if orch.Stats().Count != 1 {
		t.Errorf("expected the sync extraction to be timed")
	}
}

func TestOutline_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 64
	s, _ := newTestServer(t, cfg, false)

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"unsupported", multipartRequest(t, "/api/outline", upload{"file", "notes.txt", "hello"}), http.StatusBadRequest},
		{"missing file", multipartRequest(t, "/api/outline", upload{"other", "a.md", "# A"}), http.StatusBadRequest},
		{"unparseable", multipartRequest(t, "/api/outline", upload{"file", "broken.pdf", "not a pdf"}), http.StatusUnprocessableEntity},
		{"too large", multipartRequest(t, "/api/outline", upload{"file", "big.md", reportMD}), http.StatusRequestEntityTooLarge},
		{"not multipart", httptest.NewRequest(http.MethodPost, "/api/outline", bytes.NewBufferString("x")), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

type batchResponse struct {
	Jobs []struct {
		Filename string `json:"filename"`
		JobID    string `json:"job_id"`
		Error    string `json:"error"`
	} `json:"jobs"`
}

func TestBatchOutline(t *testing.T) {
	s, orch := newTestServer(t, testConfig(), true)
	rec := serve(s, multipartRequest(t, "/api/outline/batch",
		upload{"files", "report.md", reportMD},
		upload{"files", "notes.txt", "nope"},
		upload{"files", "../../etc/memo.md", "# Memo Heading Here\n\ntext\n"},
	))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Jobs) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(resp.Jobs))
	}
	if resp.Jobs[1].Error == "" || resp.Jobs[1].JobID != "" {
		t.Errorf("expected unsupported file to be rejected, got %+v", resp.Jobs[1])
	}
	if resp.Jobs[2].Filename != "memo.md" {
		t.Errorf("expected sanitized filename, got %q", resp.Jobs[2].Filename)
	}

	id := resp.Jobs[0].JobID
	job := orch.GetJob(id)
	if job == nil {
		t.Fatalf("job %s not tracked", id)
	}
	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish")
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/jobs/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snap pipeline.JobSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Status != pipeline.StatusCompleted || snap.Entries != 2 {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/jobs/"+id+"/result", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res outline.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Title != "Annual Report 2024" || len(res.Outline) != 2 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestJobResult_NotReady(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), false)
	rec := serve(s, multipartRequest(t, "/api/outline/batch", upload{"files", "report.md", reportMD}))
	var resp batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/jobs/"+resp.Jobs[0].JobID+"/result", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for queued job, got %d", rec.Code)
	}
}

func TestJob_NotFound(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), false)
	for _, path := range []string{"/api/jobs/missing", "/api/jobs/missing/result"} {
		if rec := serve(s, httptest.NewRequest(http.MethodGet, path, nil)); rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), false)
	serve(s, multipartRequest(t, "/api/outline", upload{"file", "report.md", reportMD}))

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Durations  pipeline.StatsSnapshot `json:"durations"`
		QueueDepth int                    `json:"queue_depth"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Durations.Count != 1 || body.QueueDepth != 0 {
		t.Errorf("unexpected stats %+v", body)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd.pdf", "passwd.pdf"},
		{`C:\Users\me\doc.pdf`, "doc.pdf"},
		{"..", "unnamed"},
		{"", "unnamed"},
		{"a..b.pdf", "a_b.pdf"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
