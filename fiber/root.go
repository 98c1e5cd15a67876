package fiber

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Root owns one rendered tree and schedules its cycles. It is not safe for
// concurrent use: every call, including Setter calls, must happen on the
// goroutine that drains its TaskQueue.
type Root struct {
	host    Host
	arena   arena
	current NodeID

	queue     TaskQueue
	log       zerolog.Logger
	onError   OnErrorFunc
	observers []Observer

	scheduled  bool
	working    bool
	batchDepth int
	err        error

	stats CycleStats
	last  CycleStats
}

// Attach creates a root rendering into container. Nothing is rendered until
// RenderRoot is called.
func Attach(host Host, container Handle, opts ...Option) *Root {
	rt := &Root{
		host:  host,
		arena: newArena(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.queue == nil {
		rt.queue = &ManualQueue{}
	}
	if rt.onError == nil {
		rt.onError = func(err *EffectError) {
			rt.log.Error().
				Err(err.Err).
				Str("component", err.Component).
				Str("phase", err.Phase).
				Msg("effect failed")
		}
	}
	rt.current = rt.arena.createNode(RootKind, nil, "", nil)
	rt.arena.get(rt.current).handle = container
	return rt
}

// RenderRoot replaces the root description and renders it synchronously.
func (rt *Root) RenderRoot(desc any) error {
	if err := rt.Err(); err != nil {
		return err
	}
	if rt.working {
		return ErrCycleInProgress
	}
	rt.arena.get(rt.current).element = desc
	rt.markDirty(rt.current)
	return rt.performCycle()
}

// Unmount deletes the whole tree, running every teardown.
func (rt *Root) Unmount() error {
	return rt.RenderRoot(nil)
}

// Err returns the error that poisoned the root, if any.
func (rt *Root) Err() error {
	if rt.err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRootFailed, rt.err)
}

// Queue returns the queue scheduled cycles are enqueued on.
func (rt *Root) Queue() TaskQueue {
	return rt.queue
}

// Stats returns the stats of the last committed cycle.
func (rt *Root) Stats() CycleStats {
	return rt.last
}

func (rt *Root) StartBatch() {
	rt.batchDepth++
}

// EndBatch closes a batch. Closing the outermost one runs pending updates
// synchronously, or schedules them when a cycle is already running.
func (rt *Root) EndBatch() error {
	rt.batchDepth--
	if rt.batchDepth > 0 || !rt.scheduled {
		return nil
	}
	if rt.working {
		rt.queue.Enqueue(rt.runScheduled)
		return nil
	}
	return rt.performCycle()
}

// Batch runs fn with scheduling deferred, so every update it makes is
// rendered by a single cycle.
func (rt *Root) Batch(fn func()) error {
	rt.StartBatch()
	fn()
	return rt.EndBatch()
}

// Flush runs a pending cycle now instead of waiting for the queue.
func (rt *Root) Flush() error {
	if err := rt.Err(); err != nil {
		return err
	}
	if rt.working {
		return ErrCycleInProgress
	}
	if !rt.scheduled {
		return nil
	}
	return rt.performCycle()
}

func (rt *Root) dispatch(owner nodeRef, c *cell, a action) {
	if rt.err != nil {
		return
	}
	if !rt.arena.alive(owner) {
		rt.log.Debug().Int32("node", int32(owner.id)).Msg("update dropped for released node")
		return
	}
	c.queue = append(c.queue, a)
	rt.markDirty(owner.id)
	rt.requestBatch()
}

// markDirty flags id for rerender and every ancestor as having dirty
// descendants, on both buffers.
func (rt *Root) markDirty(id NodeID) {
	n := rt.arena.get(id)
	n.selfDirty = true
	if n.shadow != noNode {
		rt.arena.get(n.shadow).selfDirty = true
	}
	for p := n.parent; p != noNode; {
		pn := rt.arena.get(p)
		pn.subtreeDirty = true
		if pn.shadow != noNode {
			rt.arena.get(pn.shadow).subtreeDirty = true
		}
		p = pn.parent
	}
}

// requestBatch enqueues at most one cycle however many updates arrive before
// it runs.
func (rt *Root) requestBatch() {
	if rt.scheduled {
		return
	}
	rt.scheduled = true
	if rt.batchDepth > 0 {
		return
	}
	rt.queue.Enqueue(rt.runScheduled)
}

func (rt *Root) runScheduled() {
	if !rt.scheduled || rt.batchDepth > 0 || rt.err != nil {
		return
	}
	if err := rt.performCycle(); err != nil {
		rt.log.Error().Err(err).Msg("scheduled cycle failed")
	}
}

func (rt *Root) performCycle() error {
	if err := rt.Err(); err != nil {
		return err
	}
	if rt.working {
		return ErrCycleInProgress
	}
	rt.working = true
	defer func() {
		rt.working = false
	}()
	rt.scheduled = false
	rt.stats = CycleStats{}
	start := time.Now()

	cur := rt.arena.get(rt.current)
	wip := rt.arena.getOrCreateShadow(rt.current, cur.memoizedProps)
	if err := rt.workLoop(wip); err != nil {
		return rt.fail(err)
	}
	if err := rt.commitMutations(wip); err != nil {
		return rt.fail(err)
	}
	rt.current = wip
	rt.commitPassiveEffects(wip)

	rt.stats.Duration = time.Since(start)
	rt.stats.LiveNodes = rt.arena.live
	rt.last = rt.stats
	rt.log.Debug().EmbedObject(rt.stats).Msg("cycle committed")
	for _, fn := range rt.observers {
		fn(rt.last)
	}
	return nil
}

func (rt *Root) fail(err error) error {
	rt.err = err
	rt.log.Error().Err(err).Msg("cycle aborted")
	return rt.Err()
}
