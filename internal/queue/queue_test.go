package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoReturnsJobError(t *testing.T) {
	q := New()
	defer q.Close()

	boom := errors.New("boom")
	err := q.Do(context.Background(), func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestDoSerialisesJobs(t *testing.T) {
	q := New()
	defer q.Close()

	var (
		wg      sync.WaitGroup
		running int
		maxSeen int
		total   int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Do(context.Background(), func() error {
				running++
				if running > maxSeen {
					maxSeen = running
				}
				time.Sleep(time.Millisecond)
				total++
				running--
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 50, total)
}

func TestDoAfterClose(t *testing.T) {
	q := New()
	q.Close()
	q.Close()

	called := false
	err := q.Do(context.Background(), func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, called)
}

func TestDoCancelledBeforeAccepted(t *testing.T) {
	q := New()
	defer q.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = q.Do(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Do(ctx, func() error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}
