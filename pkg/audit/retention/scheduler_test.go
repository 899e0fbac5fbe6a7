package retention

import (
	"context"
	"testing"

	"github.com/hyperpolymath/union-policy-parser/pkg/audit/storage"
)

func TestScheduler_Start(t *testing.T) {
	s := storage.NewMemoryStorage()
	sched := NewScheduler(NewPruner(s, &Config{RetentionDays: 90, PruneSchedule: "@daily"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v, want nil", err)
	}
	defer sched.Stop()

	if !sched.IsRunning() {
		t.Error("IsRunning() = false, want true after Start")
	}
	if sched.NextRun() == nil {
		t.Error("NextRun() = nil, want a scheduled time")
	}
}

func TestScheduler_Start_EmptySchedule(t *testing.T) {
	s := storage.NewMemoryStorage()
	sched := NewScheduler(NewPruner(s, &Config{RetentionDays: 90}))

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v, want nil", err)
	}
	if sched.IsRunning() {
		t.Error("IsRunning() = true, want false with no schedule")
	}
}

func TestScheduler_Start_InvalidSchedule(t *testing.T) {
	s := storage.NewMemoryStorage()
	sched := NewScheduler(NewPruner(s, &Config{PruneSchedule: "not a cron expr"}))

	if err := sched.Start(context.Background()); err == nil {
		t.Fatal("Start() error = nil, want invalid schedule error")
	}
}

func TestScheduler_Stop(t *testing.T) {
	s := storage.NewMemoryStorage()
	sched := NewScheduler(NewPruner(s, &Config{RetentionDays: 90, PruneSchedule: "@hourly"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v, want nil", err)
	}

	sched.Stop()
	if sched.IsRunning() {
		t.Error("IsRunning() = true, want false after Stop")
	}
}
