package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestDispatcher() *dispatcher {
	return New(nil, Params{Log: zap.NewNop()}).(*dispatcher)
}

func TestGoRunsTask(t *testing.T) {
	d := newTestDispatcher()

	var ran atomic.Bool
	d.Go("test_task", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	assert.NoError(t, d.drain(context.Background()))
	assert.True(t, ran.Load())
}

func TestGoSwallowsErrors(t *testing.T) {
	d := newTestDispatcher()

	d.Go("failing_task", func(ctx context.Context) error {
		return errors.New("boom")
	})

	assert.NoError(t, d.drain(context.Background()))
}

func TestGoRecoversPanic(t *testing.T) {
	d := newTestDispatcher()

	d.Go("panicking_task", func(ctx context.Context) error {
		panic("boom")
	})

	assert.NoError(t, d.drain(context.Background()))
}

func TestDrainTimesOut(t *testing.T) {
	d := newTestDispatcher()

	release := make(chan struct{})
	d.Go("slow_task", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.drain(ctx), context.DeadlineExceeded)
	close(release)
}

func TestGoAfterDrainIsRejected(t *testing.T) {
	d := newTestDispatcher()
	assert.NoError(t, d.drain(context.Background()))

	var ran atomic.Bool
	d.Go("late_task", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	time.Sleep(10 * time.Millisecond)
	assert.False(t, ran.Load())
}
