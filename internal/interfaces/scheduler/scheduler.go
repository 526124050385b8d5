package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ScheduleTime is a time of day at which the scheduler runs.
type ScheduleTime struct {
	Hour   int
	Minute int
}

// String returns the time in HH:MM format.
func (st ScheduleTime) String() string {
	return fmt.Sprintf("%02d:%02d", st.Hour, st.Minute)
}

// ParseScheduleTime parses a time string in HH:MM format.
func ParseScheduleTime(s string) (ScheduleTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ScheduleTime{}, fmt.Errorf("invalid time format %q (expected HH:MM): %w", s, err)
	}
	return ScheduleTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// JobProvider builds the jobs of one scheduled run. now is the trigger time.
type JobProvider func(ctx context.Context, now time.Time) ([]Job, error)

// Config holds configuration for the scheduler.
type Config struct {
	ScheduleTimes []string
	WorkerCount   int
	JobDelay      time.Duration
	JobTimeout    time.Duration
	QueueSize     int
	RunOnStartup  bool
	JobProvider   JobProvider
}

// Scheduler runs a job provider at fixed times of day and feeds its jobs to a worker pool.
type Scheduler struct {
	workerPool    *WorkerPool
	scheduleTimes []ScheduleTime
	runOnStartup  bool
	jobProvider   JobProvider
	now           func() time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastRun string
	mu      sync.Mutex
}

// NewScheduler creates a scheduler. At least one schedule time is required.
func NewScheduler(config Config) (*Scheduler, error) {
	scheduleTimes := make([]ScheduleTime, 0, len(config.ScheduleTimes))
	for _, timeStr := range config.ScheduleTimes {
		st, err := ParseScheduleTime(timeStr)
		if err != nil {
			return nil, err
		}
		scheduleTimes = append(scheduleTimes, st)
	}

	if len(scheduleTimes) == 0 {
		return nil, errors.New("at least one schedule time is required")
	}
	if config.JobProvider == nil {
		return nil, errors.New("a job provider is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	slog.Info("scheduler initialized",
		"schedule_times", config.ScheduleTimes,
		"workers", config.WorkerCount,
		"job_delay", config.JobDelay,
		"job_timeout", config.JobTimeout,
	)

	return &Scheduler{
		workerPool:    NewWorkerPool(config.WorkerCount, config.JobDelay, config.JobTimeout, config.QueueSize),
		scheduleTimes: scheduleTimes,
		runOnStartup:  config.RunOnStartup,
		jobProvider:   config.JobProvider,
		now:           time.Now,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Start launches the worker pool and the scheduling loop.
func (s *Scheduler) Start() {
	s.workerPool.Start()

	if s.runOnStartup {
		slog.Info("scheduler running initial job batch on startup")
		s.TriggerNow()
	}

	s.wg.Add(1)
	go s.scheduleLoop()

	slog.Info("scheduler started", "next_run", s.NextScheduledTime())
}

func (s *Scheduler) scheduleLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			now := s.now()
			if s.shouldRun(now) {
				slog.Info("scheduler triggered", "at", now.Format("15:04"))
				s.runJobs(now)
			}
		}
	}
}

// shouldRun reports whether now matches a schedule time, at most once per minute.
func (s *Scheduler) shouldRun(now time.Time) bool {
	key := now.Format("2006-01-02T15:04")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastRun == key {
		return false
	}

	for _, st := range s.scheduleTimes {
		if now.Hour() == st.Hour && now.Minute() == st.Minute {
			s.lastRun = key
			return true
		}
	}

	return false
}

// runJobs asks the provider for jobs and submits them to the worker pool.
func (s *Scheduler) runJobs(now time.Time) {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	jobs, err := s.jobProvider(ctx, now)
	if err != nil {
		slog.Error("scheduler failed to fetch jobs", "error", err)
		return
	}

	if len(jobs) == 0 {
		slog.Info("scheduler has no jobs to process")
		return
	}

	s.workerPool.SubmitBatch(jobs)
}

// TriggerNow runs the job provider immediately in the background.
func (s *Scheduler) TriggerNow() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJobs(s.now())
	}()
}

// Shutdown stops the scheduling loop, then drains the worker pool.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	slog.Info("scheduler shutting down")

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		slog.Warn("timeout waiting for scheduler loop to stop")
	}

	s.workerPool.ShutdownWithTimeout(timeout)

	slog.Info("scheduler shutdown complete")
}

// NextScheduledTime returns the next time the scheduler will run.
func (s *Scheduler) NextScheduledTime() time.Time {
	return nextScheduledTime(s.scheduleTimes, s.now())
}

func nextScheduledTime(times []ScheduleTime, now time.Time) time.Time {
	var next time.Time
	for _, st := range times {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), st.Hour, st.Minute, 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}
	return next
}

// ScheduleTimes returns the configured schedule times.
func (s *Scheduler) ScheduleTimes() []ScheduleTime {
	return s.scheduleTimes
}
