package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_OnlyLatestRuns(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var ran atomic.Int32
	var lastValue atomic.Int32
	for i := 1; i <= 10; i++ {
		v := int32(i)
		d.Schedule(func(context.Context) {
			ran.Add(1)
			lastValue.Store(v)
		})
		time.Sleep(time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	if got := ran.Load(); got != 1 {
		t.Errorf("ran %d times, want 1", got)
	}
	if got := lastValue.Load(); got != 10 {
		t.Errorf("last value = %d, want 10", got)
	}
}

func TestDebouncer_CancelDropsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var ran atomic.Int32
	d.Schedule(func(context.Context) { ran.Add(1) })
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	if got := ran.Load(); got != 0 {
		t.Errorf("cancelled function ran %d times", got)
	}
}

func TestDebouncer_RunsAfterQuietPeriod(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	done := make(chan struct{})
	d.Schedule(func(context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled function never ran")
	}
}

func TestDebouncer_CancelThenScheduleStillWorks(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	d.Schedule(func(context.Context) { t.Error("superseded function ran") })
	d.Cancel()

	done := make(chan struct{})
	d.Schedule(func(context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rescheduled function never ran")
	}
}

func TestDebouncer_CancelAbortsRunInFlight(t *testing.T) {
	d := NewDebouncer(time.Millisecond)

	started := make(chan struct{})
	aborted := make(chan struct{})
	d.Schedule(func(ctx context.Context) {
		close(started)
		select {
		case <-ctx.Done():
			close(aborted)
		case <-time.After(2 * time.Second):
		}
	})

	<-started
	d.Cancel()

	select {
	case <-aborted:
	case <-time.After(time.Second):
		t.Fatal("cancel never reached the running function")
	}
}

func TestDebouncer_ScheduleAbortsRunInFlight(t *testing.T) {
	d := NewDebouncer(time.Millisecond)

	started := make(chan struct{})
	aborted := make(chan struct{})
	d.Schedule(func(ctx context.Context) {
		close(started)
		select {
		case <-ctx.Done():
			close(aborted)
		case <-time.After(2 * time.Second):
		}
	})

	<-started
	done := make(chan struct{})
	d.Schedule(func(context.Context) { close(done) })

	select {
	case <-aborted:
	case <-time.After(time.Second):
		t.Fatal("new schedule never aborted the running function")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("replacement function never ran")
	}
}
