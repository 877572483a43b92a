package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full")

// Orchestrator manages the outline pipeline: a bounded job queue served by
// a fixed pool of workers.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	extractor *outline.Extractor
	sink      Sink
	stats     *DurationStats
	log       *slog.Logger
	cfg       config.Config

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewOrchestrator creates the pipeline. sink may be nil, in which case
// results are only kept on the jobs.
func NewOrchestrator(cfg config.Config, sink Sink, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		extractor: outline.NewExtractor(),
		sink:      sink,
		stats:     NewDurationStats(time.Hour),
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := o.Worker()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.jobs.Cleanup(); n > 0 {
					o.log.Debug("expired jobs removed", "count", n)
				}
			}
		}
	}()
}

// Stop shuts down the pipeline. Jobs still queued are failed so waiters on
// Done are released. Submit and Enqueue must not be called after Stop.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		close(o.queue)
		o.wg.Wait()
		for job := range o.queue {
			job.Fail("queued", errors.New("pipeline stopped"))
		}
	})
}

// Worker returns a worker sharing the orchestrator's extractor, sink and
// stats. API handlers use it for synchronous extraction.
func (o *Orchestrator) Worker() *Worker {
	return NewWorker(o.extractor, o.sink, o.stats, o.log)
}

// Submit queues a job without blocking. A completed job over identical
// content is reused instead of re-extracting.
func (o *Orchestrator) Submit(job *Job) error {
	if o.reuse(job) {
		return nil
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue_full", ErrQueueFull)
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// Enqueue queues a job, waiting for a free slot until ctx is done.
func (o *Orchestrator) Enqueue(ctx context.Context, job *Job) error {
	if o.reuse(job) {
		return nil
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	case <-ctx.Done():
		job.Fail("queued", ctx.Err())
		return ctx.Err()
	}
}

func (o *Orchestrator) reuse(job *Job) bool {
	if o.sink != nil {
		return false
	}
	prev := o.jobs.FindCompleted(job.ContentHash)
	if prev == nil || !job.Reuse(prev) {
		return false
	}
	o.jobs.Put(job)
	o.log.Info("reused outline", "job_id", job.ID, "from_job_id", prev.ID, "filename", job.Filename)
	return true
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the rolling duration statistics.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// JobCount returns the number of tracked jobs.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}
