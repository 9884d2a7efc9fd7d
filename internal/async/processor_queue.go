package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/pipeline"
)

// BatchProcessor is the part of pipeline.Processor the queue drives.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, filenames []string) (pipeline.BatchResult, error)
}

var _ Queue = (*ProcessorQueue)(nil)

type ProcessorQueue struct {
	proc    BatchProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc BatchProcessor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	q := &ProcessorQueue{
		proc:    proc,
		logger:  common.LoggerOrDefault(logger),
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	if job.RequestID != "" {
		ctx = common.WithRequestID(ctx, job.RequestID)
	}

	q.logger.Debug("processing file", "worker_id", workerID, "file", job.Filename, "status", constants.JobStatusRunning)
	res, err := q.proc.ProcessBatch(ctx, []string{job.Filename})
	switch {
	case err != nil:
		q.logger.Error("processing failed", "worker_id", workerID, "file", job.Filename, "error", err)
	case len(res.Errors) > 0:
		q.logger.Warn("processed file with errors", "worker_id", workerID, "file", job.Filename,
			"batch_id", res.BatchID, "errors", res.Errors)
	default:
		q.logger.Info("processed file successfully", "worker_id", workerID, "file", job.Filename,
			"batch_id", res.BatchID, "records", res.Debug.ProcessedFiles,
			"waited_ms", time.Since(job.SubmittedAt).Milliseconds())
	}
}

// Enqueue blocks when the buffer is full. Jobs offered after Shutdown are
// dropped with a warning.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	if job.Filename == "" {
		return common.InvalidInputErrorf("job has no filename")
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "file", job.Filename)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued file for processing", "file", job.Filename, "status", constants.JobStatusQueued)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "file", job.Filename)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
