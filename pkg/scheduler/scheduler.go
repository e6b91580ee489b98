package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chimera-labs/chimera/pkg/log"
)

// JobFunc is a scheduled job's body. args is passed through unchanged from
// AddJob on every invocation.
type JobFunc func(args any)

// JobStatus reports a job's run state (spec.md §4.11: "status(id) returns
// {running, next-run-time}").
type JobStatus struct {
	Running     bool
	NextRunTime time.Time
}

// job is one registered periodic job, each driven by its own ticker
// goroutine so a long-running job never delays another job's schedule.
type job struct {
	id       string
	fn       JobFunc
	args     any
	interval time.Duration

	mu          sync.Mutex
	running     bool
	nextRunTime time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// Scheduler is the registry of named periodic jobs of C12.
type Scheduler struct {
	logger zerolog.Logger

	mu   sync.Mutex
	jobs map[string]*job
}

// New creates an empty Scheduler. Jobs only start ticking once added via
// AddJob; there is no separate Start/Stop for the registry itself.
func New() *Scheduler {
	return &Scheduler{
		logger: log.WithComponent("scheduler"),
		jobs:   make(map[string]*job),
	}
}

// AddJob registers fn to run every interval, passing args on each
// invocation. Adding a job with an id already in use stops and replaces the
// existing job (spec.md §4.11).
func (s *Scheduler) AddJob(id string, fn JobFunc, interval time.Duration, args any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[id]; ok {
		stopJob(existing)
	}

	j := &job{
		id:          id,
		fn:          fn,
		args:        args,
		interval:    interval,
		nextRunTime: time.Now().Add(interval),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	s.jobs[id] = j
	go s.runJob(j)
}

// RemoveJob stops and deregisters the job with the given id. Removing an
// absent id is a no-op.
func (s *Scheduler) RemoveJob(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return
	}
	delete(s.jobs, id)
	stopJob(j)
}

// Status returns the current status of the job with the given id.
func (s *Scheduler) Status(id string) (JobStatus, bool) {
	s.mu.Lock()
	j, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		return JobStatus{}, false
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	return JobStatus{Running: j.running, NextRunTime: j.nextRunTime}, true
}

// StopAll stops every registered job, for clean agent shutdown.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, j := range s.jobs {
		delete(s.jobs, id)
		stopJob(j)
	}
}

func stopJob(j *job) {
	close(j.stopCh)
	<-j.doneCh
}

func (s *Scheduler) runJob(j *job) {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.invoke(j)
			j.mu.Lock()
			j.nextRunTime = time.Now().Add(j.interval)
			j.mu.Unlock()
		case <-j.stopCh:
			return
		}
	}
}

func (s *Scheduler) invoke(j *job) {
	j.mu.Lock()
	j.running = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
		if r := recover(); r != nil {
			s.logger.Error().Str("job_id", j.id).Interface("panic", r).Msg("scheduled job panicked")
		}
	}()

	j.fn(j.args)
}
