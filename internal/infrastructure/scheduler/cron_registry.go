package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightstats-service/internal/domain/repository"
	"flightstats-service/pkg/logger"
	"flightstats-service/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// CronRegistry runs recurring jobs on a robfig cron, keyed by job key.
type CronRegistry struct {
	cron    *cron.Cron
	mu      sync.Mutex
	entries map[string]cron.EntryID
	timeout time.Duration
	logger  logger.Logger
	metrics *metrics.Metrics
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewCronRegistry creates a registry evaluating schedules in loc. Each tick gets
// its own context bounded by timeout.
func NewCronRegistry(loc *time.Location, timeout time.Duration, log logger.Logger, m *metrics.Metrics) *CronRegistry {
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &CronRegistry{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		entries: make(map[string]cron.EntryID),
		timeout: timeout,
		logger:  log,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddOrUpdate binds action to key on schedule, replacing any previous binding.
func (r *CronRegistry) AddOrUpdate(key string, schedule string, action repository.JobAction) error {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", schedule, key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.entries[key]; ok {
		r.cron.Remove(id)
	}
	r.entries[key] = r.cron.Schedule(sched, cron.FuncJob(func() {
		r.run(key, action)
	}))

	r.logger.Info("Job scheduled", "key", key, "schedule", schedule)
	return nil
}

// RemoveIfExists unbinds key; unknown keys are ignored.
func (r *CronRegistry) RemoveIfExists(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.entries[key]
	if !ok {
		return
	}
	r.cron.Remove(id)
	delete(r.entries, key)
	r.logger.Info("Job removed", "key", key)
}

// Len returns the number of scheduled jobs
func (r *CronRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Next returns the next activation time of key
func (r *CronRegistry) Next(key string) (time.Time, bool) {
	r.mu.Lock()
	id, ok := r.entries[key]
	r.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return r.cron.Entry(id).Next, true
}

// Start begins firing jobs in the background
func (r *CronRegistry) Start() {
	r.cron.Start()
}

// Stop halts the scheduler and waits for running ticks until ctx is done, then
// cancels whatever is still running.
func (r *CronRegistry) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		r.logger.Warn("Timed out waiting for running jobs")
	}
	r.cancel()
}

// run executes one tick. Failures are logged and counted; the job stays scheduled.
func (r *CronRegistry) run(key string, action repository.JobAction) {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := action(ctx)
	r.metrics.TickDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		r.metrics.TicksTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		r.metrics.ErrorsCount.WithLabelValues("tick").Inc()
		r.logger.Error("Job tick failed", "key", key, "error", err)
		return
	}
	r.logger.Debug("Job tick finished", "key", key, "duration", time.Since(start))
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
