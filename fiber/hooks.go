package fiber

// Render is the context a Component is invoked with. Hooks resolve their cells
// positionally through it, so every render of a node must call the same hooks
// in the same order.
type Render struct {
	root     *Root
	id       NodeID
	mounting bool
	cursor   *cell
	done     bool
}

func (rt *Root) beginRender(id NodeID, mounting bool) *Render {
	n := rt.arena.get(id)
	n.lastEffect = nil
	return &Render{root: rt, id: id, mounting: mounting}
}

// next advances the cursor, creating a cell only while mounting.
func (r *Render) next(kind cellKind) (c *cell, fresh bool) {
	if r.done {
		panic(shapef("%s hook called outside of render", kind))
	}
	n := r.root.arena.get(r.id)
	if r.cursor == nil {
		c = n.cells
	} else {
		c = r.cursor.next
	}
	if c == nil {
		if !r.mounting {
			panic(shapef("local-state shape changed between renders: more cells than the previous render"))
		}
		c = &cell{kind: kind}
		if r.cursor == nil {
			n.cells = c
		} else {
			r.cursor.next = c
		}
		fresh = true
	} else if c.kind != kind {
		panic(shapef("local-state shape changed between renders: %s cell where a %s cell was recorded", kind, c.kind))
	}
	r.cursor = c
	return c, fresh
}

// finish checks that every recorded cell was visited.
func (r *Render) finish() error {
	r.done = true
	if r.mounting {
		return nil
	}
	n := r.root.arena.get(r.id)
	rest := n.cells
	if r.cursor != nil {
		rest = r.cursor.next
	}
	if rest != nil {
		return shapef("local-state shape changed between renders: fewer cells than the previous render")
	}
	return nil
}

func (r *Render) pushEffect(e *effect) {
	n := r.root.arena.get(r.id)
	if n.lastEffect == nil {
		e.next = e
	} else {
		e.next = n.lastEffect.next
		n.lastEffect.next = e
	}
	n.lastEffect = e
}

// Setter enqueues updates for one state cell. It stays valid after the render
// that produced it; calls after the owning node was deleted are dropped.
type Setter[T any] struct {
	root  *Root
	owner nodeRef
	cell  *cell
}

// Set replaces the value. When several updates are queued before the next
// render, they apply in order.
func (s Setter[T]) Set(v T) {
	s.root.dispatch(s.owner, s.cell, action{value: v})
}

// Update queues a transform of the value as of the previous queued update.
func (s Setter[T]) Update(fn func(T) T) {
	s.root.dispatch(s.owner, s.cell, action{transform: func(cur any) any {
		v, _ := cur.(T)
		return fn(v)
	}})
}

func UseState[T any](r *Render, initial T) (T, Setter[T]) {
	c, fresh := r.next(stateCell)
	if fresh {
		c.value = initial
	}
	for _, a := range c.queue {
		if a.transform != nil {
			c.value = a.transform(c.value)
		} else {
			c.value = a.value
		}
	}
	c.queue = nil

	v, _ := c.value.(T)
	return v, Setter[T]{root: r.root, owner: r.root.arena.ref(r.id), cell: c}
}

func UseReducer[S, A any](r *Render, reducer func(S, A) S, initial S) (S, func(A)) {
	s, set := UseState(r, initial)
	return s, func(a A) {
		set.Update(func(cur S) S {
			return reducer(cur, a)
		})
	}
}

// UseEffect registers setup to run after commit. With nil deps it runs after
// every render, with empty deps only after the first, otherwise whenever a
// dependency changed by identity.
func UseEffect(r *Render, setup Setup, deps []any) {
	c, fresh := r.next(effectCell)
	e := &effect{tag: tagPassive, setup: setup, deps: cloneDeps(deps)}
	if fresh {
		e.tag |= tagHasEffect
	} else {
		prev := c.effect
		e.teardown = prev.teardown
		changed, err := depsChanged(prev.deps, deps)
		if err != nil {
			panic(err)
		}
		if changed {
			e.tag |= tagHasEffect
		}
	}
	c.effect = e
	r.pushEffect(e)
}

func UseMemo[T any](r *Render, compute func() T, deps []any) T {
	c, fresh := r.next(memoCell)
	recompute := fresh
	if !fresh {
		changed, err := depsChanged(c.deps, deps)
		if err != nil {
			panic(err)
		}
		recompute = changed
	}
	if recompute {
		c.value = compute()
		c.deps = cloneDeps(deps)
	}
	v, _ := c.value.(T)
	return v
}

func UseCallback[F any](r *Render, fn F, deps []any) F {
	return UseMemo(r, func() F { return fn }, deps)
}

func cloneDeps(deps []any) []any {
	if deps == nil {
		return nil
	}
	out := make([]any, len(deps))
	copy(out, deps)
	return out
}
