// Package queue serialises store work onto a single goroutine so that
// foreground edits and scheduled maintenance never interleave.
package queue

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("queue closed")

// Runner executes fn with exclusive access to whatever state it guards.
type Runner interface {
	Do(ctx context.Context, fn func() error) error
}

type Queue struct {
	jobs chan func()
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func New() *Queue {
	q := &Queue{
		jobs: make(chan func()),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		select {
		case job := <-q.jobs:
			job()
		case <-q.quit:
			return
		}
	}
}

// Do hands fn to the worker and waits for its result. Once the worker has
// accepted fn it always runs to completion, even if ctx is cancelled.
// fn must not call Do on the same queue.
func (q *Queue) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	job := func() { result <- fn() }

	select {
	case <-q.quit:
		return ErrClosed
	default:
	}

	select {
	case q.jobs <- job:
	case <-q.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-result
}

// Close stops the worker after the job in flight, if any. Safe to call twice.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.quit) })
	<-q.done
}
