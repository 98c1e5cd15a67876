package fiber

import "github.com/rs/zerolog"

// OnErrorFunc receives effect failures. It runs on the cycle goroutine.
type OnErrorFunc func(err *EffectError)

// Observer is called with the stats of every committed cycle.
type Observer func(stats CycleStats)

type Option func(rt *Root)

// WithQueue sets where scheduled cycles are enqueued. Defaults to a
// ManualQueue reachable through Root.Queue.
func WithQueue(q TaskQueue) Option {
	return func(rt *Root) {
		rt.queue = q
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(rt *Root) {
		rt.log = log
	}
}

// WithOnError replaces the default sink, which logs effect failures at error level.
func WithOnError(fn OnErrorFunc) Option {
	return func(rt *Root) {
		rt.onError = fn
	}
}

func WithObserver(fn Observer) Option {
	return func(rt *Root) {
		rt.observers = append(rt.observers, fn)
	}
}
