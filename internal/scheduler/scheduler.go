package scheduler

import (
	"context"
	"sync"
	"time"
)

// Handle controls a recurring task started by Every.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every calls fn once per interval until ctx is cancelled or Stop is
// called. The first call happens one interval after start. Runs never
// overlap; a tick that arrives while fn is busy is dropped.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
	return h
}

// Stop cancels the task and waits for a running call to return.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the task has fully stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
