// Package service wires the scoring engine, job queue and worker pool
// behind the operations the HTTP API depends on.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/triage/internal/adapters/mq/queue"
	"github.com/okian/triage/internal/adapters/mq/worker"
	"github.com/okian/triage/internal/domain/model"
	"github.com/okian/triage/internal/domain/scoring"
	"github.com/okian/triage/pkg/logger"
	"github.com/okian/triage/pkg/metrics"
)

const (
	defaultQueueSize    = 10_000
	defaultMaxBatchSize = 100
	shutdownTimeout     = 30 * time.Second
)

// Service scores single requests inline and batches through the worker pool.
type Service struct {
	mu sync.RWMutex

	// Core components
	scorer scoring.Scorer
	queue  *queue.InMemoryQueue
	pool   *worker.Pool

	// Configuration
	workerCount  int
	queueSize    int
	maxBatchSize int

	// State
	started bool

	tracer trace.Tracer
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxBatchSize caps the number of records in one batch.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScorer replaces the default scoring engine.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:    defaultQueueSize,
		maxBatchSize: defaultMaxBatchSize,
		tracer:       otel.Tracer("github.com/okian/triage/internal/app"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.scorer == nil {
		s.scorer = scoring.NewEngine()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s
}

// Start creates the job queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting triage service...")

	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	s.pool = worker.NewPool(s.workerCount, s.queue, s.scorer)
	// Workers outlive the request that started them; Stop drains them.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "triage service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxBatchSize", s.maxBatchSize),
	)

	return nil
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping triage service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not stop cleanly", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "triage service stopped")
}

// Assess scores one request synchronously.
func (s *Service) Assess(ctx context.Context, req model.Request) (model.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "service.assess")
	defer span.End()

	start := time.Now()
	a, err := s.scorer.Assess(ctx, req)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	s.observe(ctx, a, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.Assessment{}, err
	}
	return a, nil
}

// AssessBatch scores every request through the worker pool. Items come
// back in input order; per-item failures are reported inline.
func (s *Service) AssessBatch(ctx context.Context, reqs []model.Request) ([]model.BatchItem, error) {
	ctx, span := s.tracer.Start(ctx, "service.assess_batch",
		trace.WithAttributes(attribute.Int("triage.batch_size", len(reqs))))
	defer span.End()

	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()

	var err error
	switch {
	case !started:
		err = ErrNotStarted
	case len(reqs) == 0:
		err = fmt.Errorf("%w: no records", ErrInvalidBatch)
	case len(reqs) > s.maxBatchSize:
		err = fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(reqs), s.maxBatchSize)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	metrics.RecordBatchSize(len(reqs))

	start := time.Now()
	batchID := uuid.NewString()
	reply := make(chan model.Result, len(reqs))
	for i, req := range reqs {
		job := model.Job{ID: batchID + "-" + strconv.Itoa(i), Index: i, Request: req, Reply: reply}
		if !q.Enqueue(ctx, job) {
			// Jobs enqueued before the rejection are still scored; their
			// replies land in the buffered channel and are discarded.
			switch {
			case q.IsClosed():
				err = fmt.Errorf("%w: %w", ErrNotStarted, queue.ErrClosed)
			case ctx.Err() != nil:
				err = fmt.Errorf("batch cancelled: %w", ctx.Err())
			default:
				err = fmt.Errorf("%w: %w", ErrBackpressure, queue.ErrFull)
			}
			s.logger.Warn(ctx, "batch rejected",
				logger.String("batchID", batchID),
				logger.Int("enqueued", i),
				logger.Error(err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	items := make([]model.BatchItem, len(reqs))
	for range reqs {
		select {
		case <-ctx.Done():
			err = fmt.Errorf("batch cancelled: %w", ctx.Err())
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		case res := <-reply:
			s.observe(ctx, res.Assessment, res.Err)
			item := model.BatchItem{Index: res.Index}
			if res.Err != nil {
				item.Error = res.Err.Error()
			} else {
				a := res.Assessment
				item.Assessment = &a
			}
			items[res.Index] = item
		}
	}

	s.logger.Debug(ctx, "batch scored",
		logger.String("batchID", batchID),
		logger.Int("records", len(reqs)),
		logger.Float64("elapsedMs", float64(time.Since(start).Microseconds())/1000),
	)
	return items, nil
}

// observe records business metrics for one scored request.
func (s *Service) observe(ctx context.Context, a model.Assessment, err error) { //nolint:gocritic // hugeParam: Assessment is read-only here
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordInvalidInput(verr.Field)
			s.logger.Debug(ctx, "invalid assessment request", logger.Error(err))
			return
		}
		metrics.RecordScoringError()
		metrics.RecordErrorByComponent("service", "scoring_error")
		s.logger.Error(ctx, "assessment failed", logger.Error(err))
		return
	}

	metrics.RecordAssessment(a.RiskLevel.String())
	metrics.RecordSubsystemTier("respiratory", a.RespiratoryRisk.String())
	metrics.RecordSubsystemTier("neurological", a.NeurologicalRisk.String())
	metrics.RecordSubsystemTier("cardiovascular", a.CardiovascularRisk.String())
	metrics.RecordCaseType(a.CaseType)
	metrics.RecordNarrativeScore(a.NarrativeRiskScore)
	if a.RiskLevel != a.OverallRisk {
		metrics.RecordNarrativeEscalation()
	}

	s.logger.Info(ctx, "assessment completed",
		logger.String("assessmentID", a.AssessmentID),
		logger.String("riskLevel", a.RiskLevel.String()),
		logger.String("overallRisk", a.OverallRisk.String()),
		logger.String("caseType", a.CaseType),
		logger.Int("narrativeScore", a.NarrativeRiskScore),
	)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"maxBatchSize": s.maxBatchSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["busyWorkers"] = s.pool.Busy()

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// MaxBatchSize returns the configured batch limit.
func (s *Service) MaxBatchSize() int {
	return s.maxBatchSize
}
