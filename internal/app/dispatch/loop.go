// Package dispatch serializes engine work onto one goroutine.
package dispatch

import (
	"context"
	"errors"
	"sync"
)

var ErrStopped = errors.New("dispatch loop stopped")

type job struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Loop runs submitted closures one at a time, in arrival order. Callers block
// in Do until their closure has run.
type Loop struct {
	jobs chan job
	stop chan struct{}
	once sync.Once
	done chan struct{}
}

func NewLoop(buffer int) *Loop {
	if buffer < 0 {
		buffer = 0
	}
	return &Loop{
		jobs: make(chan job, buffer),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled or Stop is called. Jobs still
// queued at that point fail with ErrStopped.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			l.drain()
			return
		case <-l.stop:
			l.drain()
			return
		case j := <-l.jobs:
			l.exec(j)
		}
	}
}

func (l *Loop) exec(j job) {
	if err := j.ctx.Err(); err != nil {
		j.done <- err
		return
	}
	j.done <- j.fn(j.ctx)
}

func (l *Loop) drain() {
	for {
		select {
		case j := <-l.jobs:
			j.done <- ErrStopped
		default:
			return
		}
	}
}

// Do queues fn and waits for its result. If ctx ends before fn starts, fn is
// skipped and ctx.Err() is returned; once fn is running Do waits for it.
func (l *Loop) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-l.stop:
		return ErrStopped
	default:
	}
	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}
	select {
	case l.jobs <- j:
	case <-l.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-j.done:
		return err
	case <-l.done:
		// Run exited; the job either finished just before or was never seen.
		select {
		case err := <-j.done:
			return err
		default:
			return ErrStopped
		}
	}
}

func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
