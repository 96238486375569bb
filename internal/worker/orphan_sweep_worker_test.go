package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sweepFunc func(ctx context.Context) (int64, error)

func (f sweepFunc) SweepOrphans(ctx context.Context) (int64, error) { return f(ctx) }

func TestRunOnceRecoversFromFailures(t *testing.T) {
	w := NewOrphanSweepWorker(sweepFunc(func(context.Context) (int64, error) { return 3, nil }), 0)
	assert.Equal(t, time.Minute, w.interval)
	assert.Equal(t, int64(3), w.RunOnce(context.Background()))

	w = NewOrphanSweepWorker(sweepFunc(func(context.Context) (int64, error) { return 1, errors.New("db down") }), time.Hour)
	assert.Equal(t, int64(1), w.RunOnce(context.Background()))

	w = NewOrphanSweepWorker(sweepFunc(func(context.Context) (int64, error) { panic("boom") }), time.Hour)
	assert.NotPanics(t, func() { w.RunOnce(context.Background()) })
}

func TestStartStopsOnCancel(t *testing.T) {
	var calls int32
	w := &OrphanSweepWorker{
		sweeper: sweepFunc(func(context.Context) (int64, error) {
			atomic.AddInt32(&calls, 1)
			return 0, nil
		}),
		interval: 5 * time.Millisecond,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
