// Package worker runs scoring jobs from the queue and delivers results.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/triage/internal/domain/model"
	"github.com/okian/triage/pkg/logger"
	"github.com/okian/triage/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.Job

// Scorer assesses one raw request.
type Scorer interface {
	Assess(ctx context.Context, req model.Request) (model.Assessment, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs and replies with their results.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing jobs.
type InMemoryWorker struct {
	queue  Queue
	scorer Scorer
	name   string

	onStart func()
	onDone  func()

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, scorer Scorer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		scorer:   scorer,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				// Channel closed, worker should stop
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process scores a single job and replies without blocking.
func (w *InMemoryWorker) process(ctx context.Context, job Job) { //nolint:gocritic // hugeParam: Job must be passed by value for channel semantics
	if w.onStart != nil {
		w.onStart()
	}
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
		if w.onDone != nil {
			w.onDone()
		}
	}()

	assessment, err := w.scorer.Assess(ctx, job.Request)
	if err != nil && !errors.Is(err, model.ErrInvalidInput) {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "scoring_error")
		metrics.RecordErrorByType("scoring_error", "high")
		w.logger.Error(ctx, "scoring failed for job",
			logger.String("jobID", job.ID),
			logger.Int("index", job.Index),
			logger.Error(err),
		)
	}

	select {
	case job.Reply <- model.Result{Index: job.Index, Assessment: assessment, Err: err}:
	default:
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "reply_dropped")
		w.logger.Warn(ctx, "reply channel full, dropping result",
			logger.String("jobID", job.ID),
			logger.Int("index", job.Index),
		)
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	// Shutdown control
	stopOnce sync.Once

	// Metrics tracking
	busy              atomic.Int64
	processedCount    atomic.Int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, scorer Scorer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			scorer,
			WithName("worker-"+strconv.Itoa(i)),
			WithHooks(pool.jobStarted, pool.jobDone),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Busy returns the number of workers currently scoring a job.
func (p *Pool) Busy() int {
	return int(p.busy.Load())
}

func (p *Pool) jobStarted() {
	n := p.busy.Add(1)
	metrics.UpdateWorkerActiveCount(int(n))
	metrics.UpdateWorkerIdleCount(len(p.workers) - int(n))
}

func (p *Pool) jobDone() {
	n := p.busy.Add(-1)
	p.processedCount.Add(1)
	metrics.UpdateWorkerActiveCount(int(n))
	metrics.UpdateWorkerIdleCount(len(p.workers) - int(n))
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater refreshes throughput metrics until the pool stops.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.workers[0].shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	processed := p.processedCount.Swap(0)
	if timeDiff > 0 {
		metrics.UpdateWorkerMessagesPerSecond(float64(processed) / timeDiff)
	}
	p.lastProcessedTime = now
}

// Shutdown closes the queue, lets workers drain it and waits for them.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		// First close the queue to stop new jobs
		if closer, ok := p.queue.(interface{ Close() error }); ok {
			if cerr := closer.Close(); cerr != nil {
				p.logger.Error(ctx, "error closing queue", logger.Error(cerr))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
		defer cancel()

		for i, worker := range p.workers {
			select {
			case <-worker.done:
			case <-shutdownCtx.Done():
				p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
				err = fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
			}
		}
		for _, worker := range p.workers {
			worker.shutdownOnce.Do(func() { close(worker.shutdown) })
		}
	})
	return err
}
