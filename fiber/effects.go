package fiber

import "fmt"

// commitPassiveEffects runs every teardown of deleted subtrees, then the
// teardowns of pending effects, then their setups, each over the whole tree.
func (rt *Root) commitPassiveEffects(root NodeID) {
	rt.commitDeletionEffects(root)
	rt.commitPassiveUnmounts(root)
	rt.commitPassiveMounts(root)
}

func (rt *Root) commitDeletionEffects(id NodeID) {
	n := rt.arena.get(id)
	if len(n.deletions) > 0 {
		for _, d := range n.deletions {
			rt.unmountDeletedTree(d)
			rt.arena.release(d)
		}
		n.deletions = nil
		if n.shadow != noNode {
			// the previous child chain still points into the released nodes
			rt.arena.get(n.shadow).child = noNode
		}
	}
	for c := n.child; c != noNode; c = rt.arena.get(c).sibling {
		rt.commitDeletionEffects(c)
	}
}

// unmountDeletedTree tears down every effect in a deleted subtree, parents
// before children.
func (rt *Root) unmountDeletedTree(id NodeID) {
	n := rt.arena.get(id)
	if n.kind == ComponentKind {
		rt.forEachEffect(id, func(e *effect) {
			if e.tag&tagPassive != 0 {
				rt.runTeardown(id, e)
			}
		})
	}
	for c := n.child; c != noNode; c = rt.arena.get(c).sibling {
		rt.unmountDeletedTree(c)
	}
}

func (rt *Root) commitPassiveUnmounts(id NodeID) {
	n := rt.arena.get(id)
	for c := n.child; c != noNode; c = rt.arena.get(c).sibling {
		rt.commitPassiveUnmounts(c)
	}
	if n.kind == ComponentKind {
		rt.forEachEffect(id, func(e *effect) {
			if e.tag&tagPendingPassive == tagPendingPassive {
				rt.runTeardown(id, e)
			}
		})
	}
}

func (rt *Root) commitPassiveMounts(id NodeID) {
	n := rt.arena.get(id)
	for c := n.child; c != noNode; c = rt.arena.get(c).sibling {
		rt.commitPassiveMounts(c)
	}
	if n.kind == ComponentKind {
		rt.forEachEffect(id, func(e *effect) {
			if e.tag&tagPendingPassive == tagPendingPassive {
				rt.runSetup(id, e)
				e.tag &^= tagHasEffect
			}
		})
	}
}

// forEachEffect walks the circular list of id once, in declaration order.
func (rt *Root) forEachEffect(id NodeID, fn func(e *effect)) {
	last := rt.arena.get(id).lastEffect
	if last == nil {
		return
	}
	first := last.next
	e := first
	for {
		next := e.next
		fn(e)
		if e == last {
			return
		}
		e = next
	}
}

func (rt *Root) runTeardown(id NodeID, e *effect) {
	td := e.teardown
	if td == nil {
		return
	}
	e.teardown = nil
	rt.stats.Teardowns++
	if err := callTeardown(td); err != nil {
		rt.reportEffect(id, "teardown", err)
	}
}

func (rt *Root) runSetup(id NodeID, e *effect) {
	rt.stats.Setups++
	td, err := callSetup(e.setup)
	if err != nil {
		rt.reportEffect(id, "setup", err)
		return
	}
	e.teardown = td
}

func callSetup(setup Setup) (td Teardown, err error) {
	defer func() {
		if p := recover(); p != nil {
			td, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	if setup == nil {
		return nil, nil
	}
	return setup()
}

func callTeardown(td Teardown) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return td()
}

func (rt *Root) reportEffect(id NodeID, phase string, err error) {
	rt.stats.EffectErrors++
	rt.onError(&EffectError{
		Component: typeName(rt.arena.get(id).typ),
		Phase:     phase,
		Err:       err,
	})
}
