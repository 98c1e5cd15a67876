package fiber

import (
	"fmt"
	"sort"
)

func (rt *Root) completeUnitOfWork(id NodeID) (NodeID, error) {
	for id != noNode {
		n := rt.arena.get(id)
		parent, sibling := n.parent, n.sibling
		if err := rt.completeWork(id); err != nil {
			return noNode, err
		}
		if sibling != noNode {
			return sibling, nil
		}
		id = parent
	}
	return noNode, nil
}

func (rt *Root) completeWork(id NodeID) error {
	w := rt.arena.get(id)
	cur := w.shadow

	switch w.kind {
	case ComponentKind, RootKind:
	case HostElementKind:
		newProps, _ := w.pendingProps.(Props)
		if cur != noNode && w.handle != nil {
			oldProps, _ := rt.arena.get(cur).memoizedProps.(Props)
			if !same(oldProps, newProps) {
				if payload := diffProps(oldProps, newProps); len(payload) > 0 {
					w.payload = payload
					w.flags |= fUpdate
				}
			}
			break
		}
		typ, _ := w.typ.(string)
		h, err := rt.host.CreateElement(typ)
		if err != nil {
			return fmt.Errorf("create element %q: %w", typ, err)
		}
		rt.stats.Created++
		w.handle = h
		if err := rt.appendAllChildren(h, id); err != nil {
			return err
		}
		for _, k := range sortedKeys(newProps) {
			if v := newProps[k]; k != ChildrenProp && v != nil {
				if err := rt.host.SetProperty(h, k, v); err != nil {
					return fmt.Errorf("set property %q on %q: %w", k, typ, err)
				}
			}
		}
	case HostTextKind:
		text, _ := w.pendingProps.(string)
		if cur != noNode && w.handle != nil {
			if old, _ := rt.arena.get(cur).memoizedProps.(string); old != text {
				w.flags |= fUpdate
			}
			break
		}
		h, err := rt.host.CreateText(text)
		if err != nil {
			return fmt.Errorf("create text: %w", err)
		}
		rt.stats.Created++
		w.handle = h
	default:
		panic(unhandledKind(w.kind))
	}

	rt.bubbleDirty(id)
	return nil
}

// appendAllChildren attaches the nearest host descendants of id to parent,
// looking through component nodes, which own no host instance.
func (rt *Root) appendAllChildren(parent Handle, id NodeID) error {
	for c := rt.arena.get(id).child; c != noNode; c = rt.arena.get(c).sibling {
		cn := rt.arena.get(c)
		switch cn.kind {
		case HostElementKind, HostTextKind:
			if cn.handle == nil {
				return shapef("%s child has no host handle", cn.kind)
			}
			if err := rt.host.AppendChild(parent, cn.handle); err != nil {
				return fmt.Errorf("append child: %w", err)
			}
		default:
			if err := rt.appendAllChildren(parent, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// bubbleDirty recomputes subtreeDirty from the children of id, for both buffers.
func (rt *Root) bubbleDirty(id NodeID) {
	w := rt.arena.get(id)
	dirty := false
	for c := w.child; c != noNode; {
		cn := rt.arena.get(c)
		if cn.selfDirty || cn.subtreeDirty {
			dirty = true
			break
		}
		c = cn.sibling
	}
	w.subtreeDirty = dirty
	if w.shadow != noNode {
		rt.arena.get(w.shadow).subtreeDirty = dirty
	}
}

// diffProps returns [key, value]* pairs; a nil value removes the key.
func diffProps(oldProps, newProps Props) []any {
	var payload []any
	for _, k := range sortedKeys(oldProps) {
		if k == ChildrenProp {
			continue
		}
		if _, ok := newProps[k]; !ok {
			payload = append(payload, k, nil)
		}
	}
	for _, k := range sortedKeys(newProps) {
		if k == ChildrenProp {
			continue
		}
		v := newProps[k]
		if same(oldProps[k], v) {
			continue
		}
		payload = append(payload, k, v)
	}
	return payload
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
