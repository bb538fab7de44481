package schedule

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/assert/v2"
	"github.com/redis/go-redis/v9"
)

func countingJob(guard RunGuard, loc *time.Location) (*DailyJob, *int) {
	runs := 0
	job := NewDailyJob("digest", loc, guard, func(ctx context.Context) error {
		runs++
		return nil
	})
	return job, &runs
}

func TestTriggerOncePerDay(t *testing.T) {
	job, runs := countingJob(NewMemoryGuard(), time.UTC)
	ctx := context.Background()
	morning := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	ran, err := job.Trigger(ctx, morning)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ran)

	ran, err = job.Trigger(ctx, morning.Add(3*time.Hour))
	assert.Equal(t, nil, err)
	assert.Equal(t, false, ran)

	ran, _ = job.Trigger(ctx, morning.AddDate(0, 0, 1))
	assert.Equal(t, true, ran)
	assert.Equal(t, 2, *runs)
}

func TestTriggerUsesJobLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	job, runs := countingJob(NewMemoryGuard(), ny)
	ctx := context.Background()

	// 02:00 UTC on the 4th is still the 3rd in New York.
	job.Trigger(ctx, time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC))
	job.Trigger(ctx, time.Date(2024, 6, 4, 2, 0, 0, 0, time.UTC))

	assert.Equal(t, 1, *runs)
}

func TestRunNowBypassesGuard(t *testing.T) {
	job, runs := countingJob(NewMemoryGuard(), time.UTC)
	ctx := context.Background()
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	job.RunNow(ctx)
	ran, _ := job.Trigger(ctx, now)

	assert.Equal(t, true, ran)
	assert.Equal(t, 2, *runs)
}

func TestTriggerReturnsJobError(t *testing.T) {
	job := NewDailyJob("digest", time.UTC, nil, func(ctx context.Context) error {
		return errors.New("boom")
	})

	ran, err := job.Trigger(context.Background(), time.Now())

	assert.Equal(t, true, ran)
	assert.NotEqual(t, nil, err)
}

func TestRedisGuardSharedBetweenJobs(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	first, firstRuns := countingJob(NewRedisGuard(client), time.UTC)
	second, secondRuns := countingJob(NewRedisGuard(client), time.UTC)
	ctx := context.Background()
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	first.Trigger(ctx, now)
	second.Trigger(ctx, now)

	assert.Equal(t, 1, *firstRuns)
	assert.Equal(t, 0, *secondRuns)
	assert.Equal(t, true, mr.Exists("marketbrief:run:digest:2024-06-03"))
}

func TestSchedulerNextIsNineAM(t *testing.T) {
	job, _ := countingJob(nil, time.UTC)
	s, err := NewScheduler("", job)
	assert.Equal(t, nil, err)

	next := s.Next(time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC))

	assert.Equal(t, true, next.Equal(time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC)))
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	job, _ := countingJob(nil, time.UTC)

	_, err := NewScheduler("every morning", job)

	assert.NotEqual(t, nil, err)
}

func TestSchedulerFireUsesGuard(t *testing.T) {
	job, runs := countingJob(nil, time.UTC)
	s, _ := NewScheduler("", job)
	s.now = func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) }

	s.fire()
	s.fire()

	assert.Equal(t, 1, *runs)
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	job, runs := countingJob(nil, time.UTC)
	s, _ := NewScheduler("", job)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, 1, *runs)
}

type failingGuard struct{}

func (failingGuard) Acquire(ctx context.Context, key string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestSchedulerFireLogsGuardError(t *testing.T) {
	logs := captureLogs(t)
	job, runs := countingJob(failingGuard{}, time.UTC)
	s, _ := NewScheduler("", job)
	s.now = func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) }

	s.fire()

	assert.Equal(t, 0, *runs)
	assert.Equal(t, true, strings.Contains(logs.String(), `"msg":"scheduled run failed"`))
	assert.Equal(t, true, strings.Contains(logs.String(), "connection refused"))
}
