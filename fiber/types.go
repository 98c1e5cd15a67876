package fiber

import "fmt"

// Kind tells the begin and complete phases how to treat a node.
type Kind uint8

const (
	ComponentKind Kind = iota
	RootKind
	HostElementKind
	HostTextKind
)

func (k Kind) String() string {
	switch k {
	case ComponentKind:
		return "component"
	case RootKind:
		return "root"
	case HostElementKind:
		return "host-element"
	case HostTextKind:
		return "host-text"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// unhandledKind is the default arm of every switch over Kind.
func unhandledKind(k Kind) string {
	return "fiber: unhandled node kind " + k.String()
}

type effectFlags uint8

const (
	fPlacement effectFlags = 1 << iota
	fUpdate
)

type effectTag uint8

const (
	tagPassive effectTag = 1 << iota
	tagHasEffect

	tagPendingPassive = tagPassive | tagHasEffect
)

type cellKind uint8

const (
	stateCell cellKind = iota
	effectCell
	memoCell
)

func (k cellKind) String() string {
	switch k {
	case stateCell:
		return "state"
	case effectCell:
		return "effect"
	case memoCell:
		return "memo"
	default:
		return fmt.Sprintf("cell(%d)", uint8(k))
	}
}

// action is one queued state update: either a replacement value or a transform.
type action struct {
	value     any
	transform func(any) any
}

type cell struct {
	kind   cellKind
	value  any
	deps   []any
	queue  []action
	effect *effect
	next   *cell
}

type effect struct {
	tag      effectTag
	setup    Setup
	deps     []any
	teardown Teardown
	next     *effect
}

// Setup runs after commit. The returned Teardown, if any, runs before the
// next setup of the same effect and when the owning node is deleted.
type Setup func() (Teardown, error)

type Teardown func() error
