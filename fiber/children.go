package fiber

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// reconcileChildren diffs the children description of id against the
// children of its committed buffer and installs the new child chain.
func (rt *Root) reconcileChildren(id NodeID, desc any) (NodeID, error) {
	w := rt.arena.get(id)
	cr := childReconciler{rt: rt, parent: id}
	var oldFirst NodeID
	if cur := w.shadow; cur != noNode {
		cr.track = true
		oldFirst = rt.arena.get(cur).child
	}

	var (
		first NodeID
		err   error
	)
	switch v := desc.(type) {
	case *Element:
		if v == nil {
			cr.deleteRemaining(oldFirst)
			break
		}
		first = cr.placeSingle(cr.reconcileSingleElement(oldFirst, v))
	case []any, []*Element, []string:
		first, err = cr.reconcileArray(oldFirst, flatten(nil, v))
	case nil, bool:
		cr.deleteRemaining(oldFirst)
	default:
		text, ok := textOf(v)
		if !ok {
			return noNode, shapef("unsupported child description %T", desc)
		}
		first = cr.placeSingle(cr.reconcileSingleText(oldFirst, text))
	}
	if err != nil {
		return noNode, err
	}

	rt.arena.get(id).child = first
	return first, nil
}

type childReconciler struct {
	rt     *Root
	parent NodeID
	// track is false while mounting a new subtree: nothing below a new node
	// needs Placement or Deletion.
	track bool
}

func (cr *childReconciler) node(id NodeID) *node {
	return cr.rt.arena.get(id)
}

func (cr *childReconciler) deleteChild(old NodeID) {
	if !cr.track {
		return
	}
	p := cr.node(cr.parent)
	p.deletions = append(p.deletions, old)
}

func (cr *childReconciler) deleteRemaining(old NodeID) {
	for ; old != noNode; old = cr.node(old).sibling {
		cr.deleteChild(old)
	}
}

// useFiber reuses old for a new description. typ replaces the stored type so a
// closure component always runs with its latest captures.
func (cr *childReconciler) useFiber(old NodeID, typ, props any) NodeID {
	id := cr.rt.arena.getOrCreateShadow(old, props)
	n := cr.node(id)
	n.typ = typ
	n.parent = cr.parent
	n.sibling = noNode
	n.index = 0
	return id
}

func (cr *childReconciler) createElement(el *Element) NodeID {
	id := cr.rt.arena.createNode(el.kind(), el.Type, el.Key, el.Props)
	cr.node(id).parent = cr.parent
	return id
}

func (cr *childReconciler) createText(text string) NodeID {
	id := cr.rt.arena.createNode(HostTextKind, nil, "", text)
	cr.node(id).parent = cr.parent
	return id
}

func (cr *childReconciler) createChild(desc any) (NodeID, error) {
	if el, ok := desc.(*Element); ok {
		return cr.createElement(el), nil
	}
	if text, ok := textOf(desc); ok {
		return cr.createText(text), nil
	}
	return noNode, shapef("unsupported child description %T", desc)
}

func (cr *childReconciler) placeSingle(id NodeID) NodeID {
	n := cr.node(id)
	if cr.track && n.shadow == noNode {
		n.flags |= fPlacement
	}
	return id
}

// placeChild records the new index of id and flags it for placement when it
// is new or moved. Reused nodes found in ascending old order stay in place.
func (cr *childReconciler) placeChild(id NodeID, lastPlaced, newIndex int) int {
	n := cr.node(id)
	n.index = newIndex
	if !cr.track {
		return lastPlaced
	}
	if cur := n.shadow; cur != noNode {
		oldIndex := cr.node(cur).index
		if oldIndex < lastPlaced {
			n.flags |= fPlacement
			return lastPlaced
		}
		return oldIndex
	}
	n.flags |= fPlacement
	return lastPlaced
}

func (cr *childReconciler) matches(old NodeID, el *Element) bool {
	on := cr.node(old)
	return on.kind == el.kind() && sameType(on.typ, el.Type)
}

func (cr *childReconciler) reconcileSingleElement(oldFirst NodeID, el *Element) NodeID {
	for c := oldFirst; c != noNode; c = cr.node(c).sibling {
		if cr.node(c).key != el.Key {
			cr.deleteChild(c)
			continue
		}
		if cr.matches(c, el) {
			cr.deleteRemaining(cr.node(c).sibling)
			return cr.useFiber(c, el.Type, el.Props)
		}
		cr.deleteRemaining(c)
		break
	}
	return cr.createElement(el)
}

func (cr *childReconciler) reconcileSingleText(oldFirst NodeID, text string) NodeID {
	if oldFirst != noNode && cr.node(oldFirst).kind == HostTextKind {
		cr.deleteRemaining(cr.node(oldFirst).sibling)
		return cr.useFiber(oldFirst, nil, text)
	}
	cr.deleteRemaining(oldFirst)
	return cr.createText(text)
}

// updateSlot reuses old for desc when their keys agree. ok is false on a key
// mismatch, which ends the positional pass.
func (cr *childReconciler) updateSlot(old NodeID, desc any) (id NodeID, ok bool, err error) {
	key := cr.node(old).key
	if el, isEl := desc.(*Element); isEl {
		if el.Key != key {
			return noNode, false, nil
		}
		if cr.matches(old, el) {
			return cr.useFiber(old, el.Type, el.Props), true, nil
		}
		return cr.createElement(el), true, nil
	}
	text, isText := textOf(desc)
	if !isText {
		return noNode, false, shapef("unsupported child description %T", desc)
	}
	if key != "" {
		return noNode, false, nil
	}
	if cr.node(old).kind == HostTextKind {
		return cr.useFiber(old, nil, text), true, nil
	}
	return cr.createText(text), true, nil
}

func checkKeys(items []any) error {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, item := range items {
		el, ok := item.(*Element)
		if !ok || el.Key == "" {
			continue
		}
		if !seen.Add(el.Key) {
			return shapef("duplicate key %q among siblings", el.Key)
		}
	}
	return nil
}

func (cr *childReconciler) reconcileArray(oldFirst NodeID, items []any) (NodeID, error) {
	if err := checkKeys(items); err != nil {
		return noNode, err
	}

	var first, prev NodeID
	link := func(id NodeID) {
		if prev == noNode {
			first = id
		} else {
			cr.node(prev).sibling = id
		}
		prev = id
	}

	old := oldFirst
	lastPlaced, i := 0, 0
	for ; old != noNode && i < len(items); i++ {
		nextOld := cr.node(old).sibling
		id, ok, err := cr.updateSlot(old, items[i])
		if err != nil {
			return noNode, err
		}
		if !ok {
			break
		}
		if cr.node(id).shadow != old {
			// same key, different type
			cr.deleteChild(old)
		}
		lastPlaced = cr.placeChild(id, lastPlaced, i)
		link(id)
		old = nextOld
	}

	if i == len(items) {
		cr.deleteRemaining(old)
		return first, nil
	}

	if old == noNode {
		for ; i < len(items); i++ {
			id, err := cr.createChild(items[i])
			if err != nil {
				return noNode, err
			}
			lastPlaced = cr.placeChild(id, lastPlaced, i)
			link(id)
		}
		return first, nil
	}

	byKey := make(map[string]NodeID)
	bySlot := make(map[int]NodeID)
	for o := old; o != noNode; o = cr.node(o).sibling {
		on := cr.node(o)
		switch {
		case on.key != "":
			byKey[on.key] = o
		case on.kind == HostTextKind:
			bySlot[on.index] = o
		default:
			return noNode, shapef("unkeyed %s child %q among reordered keyed siblings", on.kind, typeName(on.typ))
		}
	}

	for ; i < len(items); i++ {
		var id NodeID
		switch item := items[i].(type) {
		case *Element:
			if m, ok := byKey[item.Key]; ok && item.Key != "" {
				delete(byKey, item.Key)
				if cr.matches(m, item) {
					id = cr.useFiber(m, item.Type, item.Props)
				} else {
					cr.deleteChild(m)
				}
			}
			if id == noNode {
				id = cr.createElement(item)
			}
		default:
			text, ok := textOf(item)
			if !ok {
				return noNode, shapef("unsupported child description %T", item)
			}
			if m, ok := bySlot[i]; ok {
				delete(bySlot, i)
				id = cr.useFiber(m, nil, text)
			} else {
				id = cr.createText(text)
			}
		}
		lastPlaced = cr.placeChild(id, lastPlaced, i)
		link(id)
	}

	// whatever is left in the maps has no counterpart in the new list
	for o := old; o != noNode; o = cr.node(o).sibling {
		on := cr.node(o)
		if on.key != "" {
			if byKey[on.key] == o {
				cr.deleteChild(o)
			}
		} else if bySlot[on.index] == o {
			cr.deleteChild(o)
		}
	}
	return first, nil
}
