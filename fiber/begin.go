package fiber

func (rt *Root) workLoop(id NodeID) error {
	for next := id; next != noNode; {
		var err error
		if next, err = rt.performUnitOfWork(next); err != nil {
			return err
		}
	}
	return nil
}

func (rt *Root) performUnitOfWork(id NodeID) (NodeID, error) {
	next, err := rt.beginWork(id)
	if err != nil {
		return noNode, err
	}

	// props are now fully rendered
	n := rt.arena.get(id)
	n.memoizedProps = n.pendingProps

	if next == noNode {
		return rt.completeUnitOfWork(id)
	}
	return next, nil
}

// beginWork renders id and returns its first child, or noNode when there is
// nothing below it to work on.
func (rt *Root) beginWork(id NodeID) (NodeID, error) {
	w := rt.arena.get(id)
	if cur := w.shadow; cur != noNode {
		c := rt.arena.get(cur)
		if !c.selfDirty && !w.selfDirty && same(c.memoizedProps, w.pendingProps) {
			return rt.bailout(cur, id)
		}
	}

	switch w.kind {
	case ComponentKind:
		return rt.updateComponent(id)
	case RootKind:
		return rt.updateRoot(id)
	case HostElementKind:
		return rt.updateHostElement(id)
	case HostTextKind:
		return noNode, nil
	default:
		panic(unhandledKind(w.kind))
	}
}

func (rt *Root) bailout(cur, id NodeID) (NodeID, error) {
	rt.stats.Bailouts++
	w := rt.arena.get(id)
	if !w.subtreeDirty && !rt.arena.get(cur).subtreeDirty {
		return noNode, nil
	}
	rt.cloneChildren(id)
	return w.child, nil
}

// cloneChildren moves the children of id onto their shadow buffers without
// rendering id itself.
func (rt *Root) cloneChildren(id NodeID) {
	w := rt.arena.get(id)
	var prev NodeID
	for c := w.child; c != noNode; {
		cn := rt.arena.get(c)
		next := cn.sibling
		nc := rt.arena.getOrCreateShadow(c, cn.pendingProps)
		nn := rt.arena.get(nc)
		nn.parent = id
		nn.sibling = noNode
		if prev == noNode {
			w.child = nc
		} else {
			rt.arena.get(prev).sibling = nc
		}
		prev = nc
		c = next
	}
}

func (rt *Root) clearSelfDirty(id NodeID) {
	w := rt.arena.get(id)
	w.selfDirty = false
	if w.shadow != noNode {
		rt.arena.get(w.shadow).selfDirty = false
	}
}

func (rt *Root) updateComponent(id NodeID) (NodeID, error) {
	rt.stats.Rendered++
	rt.clearSelfDirty(id)

	w := rt.arena.get(id)
	comp, ok := w.typ.(Component)
	if !ok {
		return noNode, shapef("component node holds %T", w.typ)
	}
	props, _ := w.pendingProps.(Props)

	r := rt.beginRender(id, w.shadow == noNode)
	children, err := rt.callComponent(comp, r, props)
	if err == nil {
		err = r.finish()
	}
	if err != nil {
		if se, ok := err.(*ShapeError); ok && se.Node == "" {
			se.Node = typeName(comp)
		}
		return noNode, err
	}
	return rt.reconcileChildren(id, children)
}

func (rt *Root) callComponent(comp Component, r *Render, props Props) (children any, err error) {
	defer func() {
		if p := recover(); p != nil {
			se, ok := p.(*ShapeError)
			if !ok {
				panic(p)
			}
			err = se
		}
	}()
	return comp(r, props), nil
}

func (rt *Root) updateRoot(id NodeID) (NodeID, error) {
	rt.clearSelfDirty(id)
	return rt.reconcileChildren(id, rt.arena.get(id).element)
}

func (rt *Root) updateHostElement(id NodeID) (NodeID, error) {
	rt.clearSelfDirty(id)
	props, _ := rt.arena.get(id).pendingProps.(Props)
	return rt.reconcileChildren(id, props.Children())
}
