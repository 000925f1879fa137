package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller_EmitsOnlyChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	values := []int{1, 1, 2, 2, 2, 3}
	var (
		mu    sync.Mutex
		calls int
		got   []int
	)
	p := NewPoller("test", 5*time.Millisecond, func(context.Context) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		v := values[len(values)-1]
		if calls < len(values) {
			v = values[calls]
		}
		calls++
		if calls == 2 {
			return 0, errors.New("transient")
		}
		return v, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, func(v int) {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		})
	}()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls > len(values)+2
	}, time.Second, 5*time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestPoller_FirstFetchIsImmediate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := make(chan string, 1)
	p := NewPoller("slow", time.Hour, func(context.Context) (string, error) {
		return "badge", nil
	})
	go p.Run(ctx, func(v string) { first <- v })

	select {
	case v := <-first:
		assert.Equal(t, "badge", v)
	case <-time.After(time.Second):
		t.Fatal("poller did not fetch before the first tick")
	}
}
