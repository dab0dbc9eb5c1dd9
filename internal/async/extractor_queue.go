package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/ledgerline/receiptcore/internal/pipeline"
	"github.com/ledgerline/receiptcore/internal/record"
)

// Sink receives every finished record. Called from worker goroutines;
// implementations must be safe for concurrent use.
type Sink func(record.ExtractionRecord)

type ExtractorQueue struct {
	extractor *pipeline.Extractor
	sink      Sink
	logger    *slog.Logger
	workers   int
	timeout   time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ExtractorQueue)

func WithWorkers(n int) Option {
	return func(q *ExtractorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ExtractorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithExtractTimeout(d time.Duration) Option {
	return func(q *ExtractorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewExtractorQueue(extractor *pipeline.Extractor, sink Sink, logger *slog.Logger, opts ...Option) *ExtractorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = func(record.ExtractionRecord) {}
	}
	q := &ExtractorQueue{
		extractor: extractor,
		sink:      sink,
		logger:    logger,
		workers:   4,
		timeout:   3 * time.Minute,
		ch:        make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ExtractorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					rec := q.extractor.ExtractFile(ctx, job.Path, job.Business)
					cancel()

					q.sink(rec)
					q.logger.Info("extracted document",
						"worker_id", workerID,
						"path", job.Path,
						"id", rec.ID,
						"needs_review", rec.NeedsReview,
					)
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ExtractorQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued document for extraction", "path", job.Path)
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

func (q *ExtractorQueue) Shutdown(ctx context.Context) {
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
