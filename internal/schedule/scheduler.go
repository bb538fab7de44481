package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultSpec = "0 9 * * *"

// DailyJob runs at most once per calendar day in its location.
type DailyJob struct {
	name  string
	loc   *time.Location
	guard RunGuard
	run   func(ctx context.Context) error
}

func NewDailyJob(name string, loc *time.Location, guard RunGuard, run func(ctx context.Context) error) *DailyJob {
	if loc == nil {
		loc = time.Local
	}
	if guard == nil {
		guard = NewMemoryGuard()
	}
	return &DailyJob{name: name, loc: loc, guard: guard, run: run}
}

func (j *DailyJob) dayKey(now time.Time) string {
	return j.name + ":" + now.In(j.loc).Format(time.DateOnly)
}

// Trigger reports whether the job ran. A second trigger on the same day is
// a no-op.
func (j *DailyJob) Trigger(ctx context.Context, now time.Time) (bool, error) {
	key := j.dayKey(now)
	ok, err := j.guard.Acquire(ctx, key)
	if err != nil {
		return false, fmt.Errorf("schedule guard: %w", err)
	}
	if !ok {
		slog.Info("job already ran today", "job", j.name, "day", key)
		return false, nil
	}
	return true, j.RunNow(ctx)
}

// RunNow runs the job without consulting the guard.
func (j *DailyJob) RunNow(ctx context.Context) error {
	start := time.Now()
	err := j.run(ctx)
	if err != nil {
		slog.Error("job failed", "job", j.name, "error", err)
		return err
	}
	slog.Info("job finished", "job", j.name, "duration", time.Since(start).String())
	return nil
}

type Scheduler struct {
	cron *cron.Cron
	job  *DailyJob
	now  func() time.Time
}

// NewScheduler registers job under a single cron entry.
func NewScheduler(spec string, job *DailyJob) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	s := &Scheduler{
		cron: cron.New(cron.WithLocation(job.loc)),
		job:  job,
		now:  time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.fire); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) fire() {
	if _, err := s.job.Trigger(context.Background(), s.now()); err != nil {
		slog.Error("scheduled run failed", "job", s.job.name, "error", err)
	}
}

// Next returns the next scheduled fire time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(t.In(s.job.loc))
}

// Run executes the job once immediately, then on schedule until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	s.job.RunNow(ctx)

	s.cron.Start()
	slog.Info("scheduler started", "job", s.job.name, "next", s.Next(s.now()).String())

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	slog.Info("scheduler stopped", "job", s.job.name)
}
