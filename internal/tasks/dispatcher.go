package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/lexperience/backend/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultTaskTimeout = 60 * time.Second

// Dispatcher runs fire-and-forget work off the request path. Failures
// are logged and counted, never returned to the caller.
type Dispatcher interface {
	Go(name string, fn func(ctx context.Context) error)
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type dispatcher struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func New(lc fx.Lifecycle, p Params) Dispatcher {
	d := &dispatcher{
		log:     p.Log.Named("tasks"),
		metrics: p.Metrics,
		timeout: defaultTaskTimeout,
	}

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return d.drain(ctx)
			},
		})
	}
	return d
}

func (d *dispatcher) Go(name string, fn func(ctx context.Context) error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn("task rejected after shutdown", zap.String("task", name))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				d.log.Error("task panicked",
					zap.String("task", name),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				d.metrics.RecordBackgroundTaskFailure(name)
			}
		}()

		if err := fn(ctx); err != nil {
			d.log.Error("task failed",
				zap.String("task", name),
				zap.Error(err),
			)
			d.metrics.RecordBackgroundTaskFailure(name)
		}
	}()
}

// drain waits for in-flight tasks, bounded by the shutdown context.
func (d *dispatcher) drain(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.log.Warn("shutdown before background tasks finished")
		return ctx.Err()
	}
}

var Module = fx.Module("tasks",
	fx.Provide(New),
)
