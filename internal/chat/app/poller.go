package app

import (
	"context"
	"reflect"
	"time"

	"support_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// Poller re-runs fetch every interval and emits results that differ from the last one emitted
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	equal    func(a, b T) bool
}

// NewPoller create a Poller, results are compared with reflect.DeepEqual
func NewPoller[T any](name string, interval time.Duration, fetch func(ctx context.Context) (T, error)) *Poller[T] {
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		equal:    func(a, b T) bool { return reflect.DeepEqual(a, b) },
	}
}

// Run fetch once right away, then on every tick until ctx ends. Fetch errors are logged and skipped.
func (p *Poller[T]) Run(ctx context.Context, emit func(T)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		last    T
		emitted bool
	)
	poll := func() {
		v, err := p.fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Log.Warn("poll failed", zap.String("poller", p.name), zap.Error(err))
			}
			return
		}
		if emitted && p.equal(last, v) {
			return
		}
		last, emitted = v, true
		emit(v)
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			poll()
		}
	}
}
