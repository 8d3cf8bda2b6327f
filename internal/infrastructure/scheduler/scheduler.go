package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a named maintenance task run on a fixed interval
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single attempt; zero uses the scheduler default
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

func (j Job) validate() error {
	if j.Name == "" || j.Interval <= 0 || j.Run == nil {
		return fmt.Errorf("%w: %q", ErrInvalidJob, j.Name)
	}
	return nil
}

// JobState is a snapshot of a job's run history
type JobState struct {
	Name        string
	Status      JobStatus
	Runs        int
	Failures    int
	LastError   string
	LastStarted *time.Time
	LastEnded   *time.Time
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	// RunOnStart runs every job once as soon as the scheduler starts
	RunOnStart bool
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		JobTimeout:    time.Minute,
		RetryAttempts: 2,
		RetryDelay:    5 * time.Second,
	}
}

type registeredJob struct {
	job     Job
	trigger chan struct{}
	state   JobState
}

// Scheduler runs registered jobs, each on its own ticker
type Scheduler struct {
	config SchedulerConfig
	logger *zap.Logger

	mu        sync.Mutex
	jobs      map[string]*registeredJob
	order     []string
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config: config,
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

// Register adds a job. Jobs must be registered before Start.
func (s *Scheduler) Register(job Job) error {
	if err := job.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name)
	}
	s.jobs[job.Name] = &registeredJob{
		job:     job,
		trigger: make(chan struct{}, 1),
		state:   JobState{Name: job.Name, Status: JobStatusPending},
	}
	s.order = append(s.order, job.Name)
	return nil
}

// Start starts one loop per registered job
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, name := range s.order {
		rj := s.jobs[name]
		s.wg.Add(1)
		go s.loop(ctx, rj)
	}

	s.logger.Info("Maintenance scheduler started",
		zap.Int("jobs", len(s.order)),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for their loops to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Maintenance scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

// Trigger asks a job to run now, outside its interval
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	rj, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	select {
	case rj.trigger <- struct{}{}:
		return nil
	default:
		return ErrJobBusy
	}
}

// State returns a snapshot of the job's run history
func (s *Scheduler) State(name string) (JobState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rj, ok := s.jobs[name]
	if !ok {
		return JobState{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return rj.state, nil
}

// States returns snapshots of every job in registration order
func (s *Scheduler) States() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	states := make([]JobState, 0, len(s.order))
	for _, name := range s.order {
		states = append(states, s.jobs[name].state)
	}
	return states
}

func (s *Scheduler) loop(ctx context.Context, rj *registeredJob) {
	defer s.wg.Done()

	ticker := time.NewTicker(rj.job.Interval)
	defer ticker.Stop()

	if s.config.RunOnStart {
		s.runJob(ctx, rj)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJob(ctx, rj)
		case <-rj.trigger:
			s.runJob(ctx, rj)
		}
	}
}

// runJob executes one scheduled run, retrying failed attempts
func (s *Scheduler) runJob(ctx context.Context, rj *registeredJob) {
	started := time.Now()
	s.mu.Lock()
	rj.state.Status = JobStatusRunning
	rj.state.LastStarted = &started
	s.mu.Unlock()

	timeout := rj.job.Timeout
	if timeout <= 0 {
		timeout = s.config.JobTimeout
	}

	err := s.runWithRetry(ctx, rj.job, timeout)

	ended := time.Now()
	s.mu.Lock()
	rj.state.Runs++
	rj.state.LastEnded = &ended
	if err != nil {
		rj.state.Status = JobStatusFailed
		rj.state.Failures++
		rj.state.LastError = err.Error()
	} else {
		rj.state.Status = JobStatusSuccess
		rj.state.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", rj.job.Name),
			zap.Duration("duration", ended.Sub(started)),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Job completed",
		zap.String("job", rj.job.Name),
		zap.Duration("duration", ended.Sub(started)),
	)
}

func (s *Scheduler) runWithRetry(ctx context.Context, job Job, timeout time.Duration) error {
	for attempt := 0; ; attempt++ {
		err := s.attempt(ctx, job, timeout)
		if err == nil || ctx.Err() != nil || attempt >= s.config.RetryAttempts {
			return err
		}
		s.logger.Info("Retrying job",
			zap.String("job", job.Name),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(s.config.RetryDelay):
		}
	}
}

func (s *Scheduler) attempt(ctx context.Context, job Job, timeout time.Duration) (err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Run(ctx)
}
