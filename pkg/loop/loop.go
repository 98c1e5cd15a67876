// Package loop runs tasks one at a time on a single goroutine. A Loop is a
// fiber.TaskQueue: roots scheduled on it render on the loop goroutine, and
// Submit or Do marshal external events onto the same goroutine.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/delaneyj/fiberparty/fiber"
)

var (
	// ErrRunning is returned when Run is called on a loop that already runs.
	ErrRunning = errors.New("loop: already running")

	// ErrStopped is returned when tasks are submitted after Run returned.
	ErrStopped = errors.New("loop: stopped")
)

const (
	stateIdle int32 = iota
	stateRunning
	stateStopped
)

type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	signal chan struct{} // buffered(1), coalesces wakeups

	state atomic.Int32
	done  chan struct{}

	debounce time.Duration
	log      zerolog.Logger
	ran      atomic.Uint64
}

var _ fiber.TaskQueue = (*Loop)(nil)

type Option func(l *Loop)

// WithDebounce makes the loop wait d after a wakeup before draining, so
// bursts of tasks are handled together.
func WithDebounce(d time.Duration) Option {
	return func(l *Loop) {
		l.debounce = d
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(l *Loop) {
		l.log = log
	}
}

func New(opts ...Option) *Loop {
	l := &Loop{
		tasks:  make([]func(), 0, 64),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Enqueue queues task. Tasks enqueued after the loop stopped are dropped.
func (l *Loop) Enqueue(task func()) {
	if err := l.Submit(task); err != nil {
		l.log.Warn().Err(err).Msg("task dropped")
	}
}

// Submit queues fn without waiting for it. It is safe to call from any goroutine.
func (l *Loop) Submit(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Load() == stateStopped {
		return ErrStopped
	}
	l.tasks = append(l.tasks, fn)

	select {
	case l.signal <- struct{}{}:
	default:
	}
	return nil
}

// Do runs fn on the loop and waits until it returned.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	if err := l.Submit(func() {
		defer close(ran)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		select {
		case <-ran:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once Run returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Ran counts the tasks run so far.
func (l *Loop) Ran() uint64 {
	return l.ran.Load()
}

// Run processes tasks until ctx is done. A loop runs once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(stateIdle, stateRunning) {
		return ErrRunning
	}
	defer func() {
		l.mu.Lock()
		l.state.Store(stateStopped)
		dropped := len(l.tasks)
		l.tasks = nil
		l.mu.Unlock()
		if dropped > 0 {
			l.log.Debug().Int("dropped", dropped).Msg("loop stopped with pending tasks")
		}
		close(l.done)
	}()

	var timer *time.Timer
	if l.debounce > 0 {
		timer = time.NewTimer(l.debounce)
		if !timer.Stop() {
			<-timer.C
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.signal:
		}

		if timer != nil {
			timer.Reset(l.debounce)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		for l.drain() {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}

// drain runs the tasks queued so far and reports whether more arrived
// meanwhile.
func (l *Loop) drain() bool {
	l.mu.Lock()
	batch := l.tasks
	l.tasks = make([]func(), 0, cap(batch))
	l.mu.Unlock()

	for i, task := range batch {
		batch[i] = nil
		l.run(task)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return false
	}
	// the wakeup for these tasks is consumed here
	select {
	case <-l.signal:
	default:
	}
	return true
}

func (l *Loop) run(task func()) {
	defer func() {
		if p := recover(); p != nil {
			l.log.Error().Err(fmt.Errorf("panic: %v", p)).Msg("task panicked")
		}
	}()
	task()
	l.ran.Add(1)
}
