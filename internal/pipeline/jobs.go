package pipeline

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
)

// JobStatus represents the state of an outline job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusExtracting JobStatus = "extracting"
	StatusWriting    JobStatus = "writing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks the extraction of a single document.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	sourcePath string
	fileData   []byte
	result     *outline.Result
	output     string
	reused     bool
	duration   time.Duration
	errors     []string
	done       chan struct{}
}

// NewJob creates a queued job over in-memory file bytes.
func NewJob(filename string, data []byte) *Job {
	j := newJob(filename)
	j.fileData = data
	j.ContentHash = ContentHashHex(data)
	return j
}

// NewFileJob creates a queued job that reads its input from path when
// processed. The content hash is known only after the read.
func NewFileJob(path string) *Job {
	j := newJob(filepath.Base(path))
	j.sourcePath = path
	return j
}

func newJob(filename string) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
		done:      make(chan struct{}),
	}
}

// SetStatus updates job status atomically. Entering a terminal status
// closes the Done channel; later calls are ignored.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.setStatusLocked(status, phase)
}

func (j *Job) setStatusLocked(status JobStatus, phase string) {
	if j.Status.Terminal() {
		return
	}
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
	if status.Terminal() && j.done != nil {
		close(j.done)
	}
}

// Done is closed once the job completes or fails.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// Fail records err and moves the job to failed.
func (j *Job) Fail(phase string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err.Error())
	j.setStatusLocked(StatusFailed, phase)
}

// Complete stores the result and moves the job to completed.
func (j *Job) Complete(res outline.Result, output string, elapsed time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &res
	j.output = output
	j.duration = elapsed
	j.fileData = nil
	j.setStatusLocked(StatusCompleted, "done")
}

// Reuse completes the job with the result of an earlier job over the same
// content.
func (j *Job) Reuse(from *Job) bool {
	res, ok := from.Result()
	if !ok {
		return false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &res
	j.reused = true
	j.fileData = nil
	j.setStatusLocked(StatusCompleted, "reused")
	return true
}

// Result returns the extraction result once the job has completed.
func (j *Job) Result() (outline.Result, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil {
		return outline.Result{}, false
	}
	return *j.result, true
}

// SetFileData sets the raw file bytes and their content hash.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
	j.ContentHash = ContentHashHex(data)
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SourcePath is the on-disk input of a file job, or "".
func (j *Job) SourcePath() string {
	return j.sourcePath
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash,omitempty"`
	Title       string    `json:"title,omitempty"`
	Entries     int       `json:"entries"`
	Output      string    `json:"output,omitempty"`
	Reused      bool      `json:"reused"`
	DurationMs  int64     `json:"duration_ms"`
	Errors      []string  `json:"errors"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	snap := JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		ContentHash: j.ContentHash,
		Output:      j.output,
		Reused:      j.reused,
		DurationMs:  j.duration.Milliseconds(),
		Errors:      errs,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if j.result != nil {
		snap.Title = j.result.Title
		snap.Entries = len(j.result.Outline)
	}
	return snap
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// FindCompleted returns a completed job with the given content hash, or nil.
func (s *JobStore) FindCompleted(hash string) *Job {
	if hash == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		job.mu.Lock()
		match := job.ContentHash == hash && job.Status == StatusCompleted && job.result != nil
		job.mu.Unlock()
		if match {
			return job
		}
	}
	return nil
}

// Cleanup removes finished jobs not updated within the TTL.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status.Terminal() && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
