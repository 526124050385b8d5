package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	jobTracer          = otel.Tracer("carteira/scheduler")
	jobMeter           = otel.Meter("carteira/scheduler")
	jobDuration, _     = jobMeter.Float64Histogram("scheduler.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("scheduler.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("scheduler.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

// DefaultJobTimeout bounds a single job execution when no timeout is configured.
const DefaultJobTimeout = 2 * time.Minute

var ErrQueueFull = errors.New("job queue full")

// WorkerPool runs jobs on a fixed number of goroutines fed by a bounded queue.
type WorkerPool struct {
	workerCount int
	jobDelay    time.Duration
	jobTimeout  time.Duration
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewWorkerPool creates a worker pool.
// jobDelay pauses a worker between jobs; jobTimeout bounds each execution.
func NewWorkerPool(workerCount int, jobDelay, jobTimeout time.Duration, queueSize int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobDelay:    jobDelay,
		jobTimeout:  jobTimeout,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	slog.Info("starting worker pool", "workers", wp.workerCount)

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			slog.Debug("worker shutting down", "worker_id", id)
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}

			wp.processJob(id, job)

			if wp.jobDelay > 0 {
				select {
				case <-time.After(wp.jobDelay):
				case <-wp.ctx.Done():
					return
				}
			}
		}
	}
}

// processJob executes a single job with error handling, logging, and telemetry.
func (wp *WorkerPool) processJob(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(wp.ctx, wp.jobTimeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.String("job.user_id", job.UserID()),
		),
	)
	defer span.End()

	start := time.Now()
	err := job.Execute(ctx)
	jobDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		slog.ErrorContext(ctx, "job failed", "worker_id", workerID, "job", job.Description(), "user_id", job.UserID(), "error", err)
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	slog.DebugContext(ctx, "job completed", "worker_id", workerID, "job", job.Description(), "user_id", job.UserID(), "duration", time.Since(start))
}

// Submit queues a job without blocking. It returns ErrQueueFull when the queue is
// full and an error once the pool is shutting down.
func (wp *WorkerPool) Submit(job Job) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.closed {
		return errors.New("worker pool is shut down")
	}

	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		return fmt.Errorf("%w: dropping job for user %s", ErrQueueFull, job.UserID())
	}
}

// SubmitBatch queues jobs and returns how many were accepted.
func (wp *WorkerPool) SubmitBatch(jobs []Job) int {
	submitted := 0
	for _, job := range jobs {
		if err := wp.Submit(job); err != nil {
			slog.Warn("failed to submit job", "user_id", job.UserID(), "error", err)
			continue
		}
		submitted++
	}
	slog.Info("jobs submitted to worker pool", "submitted", submitted, "total", len(jobs))
	return submitted
}

// ShutdownWithTimeout stops accepting jobs and waits for queued ones to finish.
// Jobs still running after timeout have their context cancelled.
func (wp *WorkerPool) ShutdownWithTimeout(timeout time.Duration) {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.jobs)
	}
	wp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("worker pool drained")
	case <-time.After(timeout):
		slog.Warn("worker pool shutdown timed out, cancelling running jobs", "timeout", timeout)
		wp.cancel()
		<-done
	}

	wp.cancel()
}
