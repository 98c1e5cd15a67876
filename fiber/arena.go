package fiber

// NodeID addresses a node in the arena. The zero value is "no node".
type NodeID int32

const noNode NodeID = 0

type node struct {
	kind Kind
	typ  any
	key  string

	pendingProps  any
	memoizedProps any
	element       any

	cells      *cell
	lastEffect *effect

	handle  Handle
	payload []any

	selfDirty    bool
	subtreeDirty bool
	flags        effectFlags

	parent, child, sibling NodeID
	shadow                 NodeID
	index                  int
	deletions              []NodeID

	gen  uint32
	live bool
}

// nodeRef outlives the node it points at; alive tells whether it still does.
type nodeRef struct {
	id  NodeID
	gen uint32
}

type arena struct {
	nodes []*node
	free  []NodeID
	live  int
}

func newArena() arena {
	// slot 0 stays empty so the zero NodeID never resolves
	return arena{nodes: []*node{nil}}
}

func (a *arena) get(id NodeID) *node {
	n := a.nodes[id]
	if n == nil || !n.live {
		panic("fiber: access to released node")
	}
	return n
}

func (a *arena) alloc() NodeID {
	a.live++
	if l := len(a.free); l > 0 {
		id := a.free[l-1]
		a.free = a.free[:l-1]
		n := a.nodes[id]
		gen := n.gen
		*n = node{gen: gen, live: true}
		return id
	}
	a.nodes = append(a.nodes, &node{live: true})
	return NodeID(len(a.nodes) - 1)
}

func (a *arena) ref(id NodeID) nodeRef {
	return nodeRef{id: id, gen: a.nodes[id].gen}
}

func (a *arena) alive(r nodeRef) bool {
	if r.id <= noNode || int(r.id) >= len(a.nodes) {
		return false
	}
	n := a.nodes[r.id]
	return n != nil && n.live && n.gen == r.gen
}

func (a *arena) createNode(kind Kind, typ any, key string, props any) NodeID {
	id := a.alloc()
	n := a.nodes[id]
	n.kind = kind
	n.typ = typ
	n.key = key
	n.pendingProps = props
	return id
}

// getOrCreateShadow returns the alternate buffer of id, refreshed from id.
// At most two nodes ever exist for one position.
func (a *arena) getOrCreateShadow(id NodeID, props any) NodeID {
	cur := a.get(id)
	wid := cur.shadow
	if wid == noNode {
		wid = a.alloc()
		cur.shadow = wid
	}
	w := a.get(wid)
	w.kind = cur.kind
	w.typ = cur.typ
	w.key = cur.key
	w.pendingProps = props
	w.memoizedProps = cur.memoizedProps
	w.element = cur.element
	w.cells = cur.cells
	w.lastEffect = cur.lastEffect
	w.handle = cur.handle
	w.payload = nil
	w.selfDirty = cur.selfDirty
	w.subtreeDirty = cur.subtreeDirty
	w.flags = 0
	w.child = cur.child
	w.sibling = cur.sibling
	w.index = cur.index
	w.deletions = nil
	w.shadow = id
	return wid
}

// release returns a deleted subtree and the shadows of its nodes to the free list.
func (a *arena) release(id NodeID) {
	n := a.get(id)
	for c := n.child; c != noNode; {
		next := a.get(c).sibling
		a.release(c)
		c = next
	}
	if s := n.shadow; s != noNode && a.nodes[s].live && a.nodes[s].shadow == id {
		a.drop(s)
	}
	a.drop(id)
}

func (a *arena) drop(id NodeID) {
	n := a.nodes[id]
	gen := n.gen + 1
	*n = node{gen: gen}
	a.free = append(a.free, id)
	a.live--
}
