package reactive

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/superKazi/awal-lazard/types"
)

// taskQueueSize bounds the number of pending tasks before Do and Post block.
const taskQueueSize = 64

// Loop serializes state mutations onto a single goroutine.
//
// Every reactive handler runs on the loop, so handlers never race with each
// other. Do must not be called from the loop goroutine itself: it would wait
// for a task queued behind the one currently running.
type Loop struct {
	logger types.Logger

	tasks    chan func()
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLoop creates a loop. Call Start before submitting work.
func NewLoop(logger types.Logger) *Loop {
	return &Loop{
		logger: logger,
		tasks:  make(chan func(), taskQueueSize),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the loop goroutine.
//
// The loop stops when ctx is cancelled or Stop is called.
//
// Returns:
//   - error: ErrLoopAlreadyStarted if Start was called before
func (l *Loop) Start(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return types.ErrLoopAlreadyStarted
	}

	l.wg.Go(func() {
		defer close(l.doneCh)
		l.run(ctx)
	})

	return nil
}

// Stop stops the loop and waits for the running task to finish.
//
// Pending tasks are discarded. Safe to call multiple times and before Start.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
	l.wg.Wait()
}

// Running reports whether the loop accepts work.
func (l *Loop) Running() bool {
	if !l.started.Load() {
		return false
	}

	select {
	case <-l.doneCh:
		return false
	default:
		return true
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
//
// Subscribers notified by fn have all run by the time Do returns.
//
// Returns:
//   - error: ErrLoopNotRunning if the loop is not running, ctx.Err() if ctx
//     ends first (fn may still run later in that case)
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if !l.Running() {
		return types.ErrLoopNotRunning
	}

	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	select {
	case l.tasks <- task:
	case <-l.doneCh:
		return types.ErrLoopNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-l.doneCh:
		// The loop may have finished this very task before exiting.
		select {
		case <-done:
			return nil
		default:
			return types.ErrLoopNotRunning
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post enqueues fn without waiting for it to run.
//
// Post blocks only while the task queue is full.
//
// Returns:
//   - error: ErrLoopNotRunning if the loop is not running
func (l *Loop) Post(fn func()) error {
	if !l.Running() {
		return types.ErrLoopNotRunning
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.doneCh:
		return types.ErrLoopNotRunning
	}
}

func (l *Loop) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		case task := <-l.tasks:
			l.exec(task)
		}
	}
}

// exec runs a task, recovering panics so one faulty subscriber cannot take
// the session down.
func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("reactive task panicked", "panic", fmt.Sprint(r))
		}
	}()

	task()
}
