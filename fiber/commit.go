package fiber

import "fmt"

func isHost(k Kind) bool {
	return k == HostElementKind || k == HostTextKind
}

func isHostParent(k Kind) bool {
	return k == HostElementKind || k == RootKind
}

// commitMutations applies deletions below id, then the children of id, then
// the placement and update of id itself.
func (rt *Root) commitMutations(id NodeID) error {
	n := rt.arena.get(id)
	if len(n.deletions) > 0 {
		parent, err := rt.hostParent(id)
		if err != nil {
			return err
		}
		for _, d := range n.deletions {
			if err := rt.removeHostChildren(parent, d); err != nil {
				return err
			}
			rt.stats.Deleted++
		}
	}

	for c := n.child; c != noNode; c = rt.arena.get(c).sibling {
		if err := rt.commitMutations(c); err != nil {
			return err
		}
	}

	if n.flags&fPlacement != 0 {
		if err := rt.commitPlacement(id); err != nil {
			return err
		}
		rt.stats.Placed++
	}
	if n.flags&fUpdate != 0 {
		if err := rt.commitUpdate(id); err != nil {
			return err
		}
		rt.stats.Updated++
	}
	n.flags = 0
	return nil
}

// hostParent returns the host instance that children of id attach to.
func (rt *Root) hostParent(id NodeID) (Handle, error) {
	for p := id; p != noNode; p = rt.arena.get(p).parent {
		pn := rt.arena.get(p)
		if !isHostParent(pn.kind) {
			continue
		}
		if pn.handle == nil {
			return nil, shapef("%s %q has no host handle", pn.kind, typeName(pn.typ))
		}
		return pn.handle, nil
	}
	return nil, shapef("no host parent")
}

func (rt *Root) removeHostChildren(parent Handle, id NodeID) error {
	n := rt.arena.get(id)
	if isHost(n.kind) {
		if n.handle == nil {
			return shapef("deleted %s has no host handle", n.kind)
		}
		if err := rt.host.RemoveChild(parent, n.handle); err != nil {
			return fmt.Errorf("remove child: %w", err)
		}
		return nil
	}
	for c := n.child; c != noNode; c = rt.arena.get(c).sibling {
		if err := rt.removeHostChildren(parent, c); err != nil {
			return err
		}
	}
	return nil
}

func (rt *Root) commitPlacement(id NodeID) error {
	parent, err := rt.hostParent(rt.arena.get(id).parent)
	if err != nil {
		return err
	}
	return rt.insertOrAppend(id, rt.hostSibling(id), parent)
}

func (rt *Root) insertOrAppend(id NodeID, before, parent Handle) error {
	n := rt.arena.get(id)
	if isHost(n.kind) {
		if n.handle == nil {
			return shapef("placed %s has no host handle", n.kind)
		}
		var err error
		if before != nil {
			err = rt.host.InsertBefore(parent, n.handle, before)
		} else {
			err = rt.host.AppendChild(parent, n.handle)
		}
		if err != nil {
			return fmt.Errorf("place %s: %w", n.kind, err)
		}
		return nil
	}
	for c := n.child; c != noNode; c = rt.arena.get(c).sibling {
		if err := rt.insertOrAppend(c, before, parent); err != nil {
			return err
		}
	}
	return nil
}

// hostSibling finds the host instance id must be inserted before: the first
// host instance after id in tree order, under the same host parent, that is
// already in place.
func (rt *Root) hostSibling(id NodeID) Handle {
	for n := id; ; {
		for s := rt.arena.get(n).sibling; s != noNode; s = rt.arena.get(s).sibling {
			if h := rt.firstStableHost(s); h != nil {
				return h
			}
		}
		p := rt.arena.get(n).parent
		if p == noNode || isHostParent(rt.arena.get(p).kind) {
			return nil
		}
		n = p
	}
}

func (rt *Root) firstStableHost(id NodeID) Handle {
	n := rt.arena.get(id)
	if n.flags&fPlacement != 0 {
		return nil
	}
	if isHost(n.kind) {
		return n.handle
	}
	for c := n.child; c != noNode; c = rt.arena.get(c).sibling {
		if h := rt.firstStableHost(c); h != nil {
			return h
		}
	}
	return nil
}

func (rt *Root) commitUpdate(id NodeID) error {
	n := rt.arena.get(id)
	if n.handle == nil {
		return shapef("updated %s has no host handle", n.kind)
	}
	switch n.kind {
	case HostElementKind:
		for i := 0; i+1 < len(n.payload); i += 2 {
			key, _ := n.payload[i].(string)
			if err := rt.host.SetProperty(n.handle, key, n.payload[i+1]); err != nil {
				return fmt.Errorf("set property %q: %w", key, err)
			}
		}
		n.payload = nil
	case HostTextKind:
		text, _ := n.memoizedProps.(string)
		if err := rt.host.SetText(n.handle, text); err != nil {
			return fmt.Errorf("set text: %w", err)
		}
	case ComponentKind, RootKind:
	default:
		panic(unhandledKind(n.kind))
	}
	return nil
}
