package scheduler

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_scheduler.go github.com/KirkDiggler/fortuna/internal/common/scheduler Scheduler,Task

// Task is a pending deferred call
type Task interface {
	// Cancel stops the call from running. It reports false when the call
	// already fired or was cancelled before.
	Cancel() bool
}

// Scheduler runs functions after a delay on their own goroutine
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func()) Task
}

type timerScheduler struct{}

// New returns a Scheduler backed by time.AfterFunc
func New() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(delay time.Duration, fn func()) Task {
	return &timerTask{timer: time.AfterFunc(delay, fn)}
}

type timerTask struct {
	timer *time.Timer
}

func (t *timerTask) Cancel() bool {
	return t.timer.Stop()
}
