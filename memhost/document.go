// Package memhost is an in-memory host tree for fiber roots. It records every
// mutation it receives, which makes it the host of choice for tests and
// benchmarks.
package memhost

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/delaneyj/fiberparty/fiber"
)

var (
	ErrNotNode     = errors.New("memhost: handle is not a *memhost.Node")
	ErrNotChild    = errors.New("memhost: node is not a child of parent")
	ErrNotText     = errors.New("memhost: node is not a text node")
	ErrNoHandler   = errors.New("memhost: no handler for event")
	ErrHasParent   = errors.New("memhost: node already has a different parent")
	ErrNotElement  = errors.New("memhost: node is not an element")
	ErrEmptyType   = errors.New("memhost: empty element type")
	ErrDetachedRef = errors.New("memhost: insertion anchor is not a child of parent")
)

// Node is an element or a text node. Text nodes have an empty Type.
type Node struct {
	ID       int
	Type     string
	Text     string
	Props    map[string]any
	Parent   *Node
	Children []*Node
}

func (n *Node) IsText() bool {
	return n.Type == ""
}

func (n *Node) String() string {
	if n.IsText() {
		return fmt.Sprintf("#text%d", n.ID)
	}
	return fmt.Sprintf("%s%d", n.Type, n.ID)
}

// TextContent concatenates the text of every text node below n.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Find returns the first node below n, n included, in document order that
// satisfies pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	if pred(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll is Find for every match.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(c *Node) {
		if pred(c) {
			out = append(out, c)
		}
		for _, cc := range c.Children {
			walk(cc)
		}
	}
	walk(n)
	return out
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.Children, child)
}

type attr struct {
	key, value string
}

// attrs lists serializable props in key order. Funcs are handlers and are skipped.
func (n *Node) attrs() []attr {
	keys := make([]string, 0, len(n.Props))
	for k, v := range n.Props {
		switch v.(type) {
		case nil, func(), func(string), func(any):
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]attr, len(keys))
	for i, k := range keys {
		out[i] = attr{key: k, value: fmt.Sprint(n.Props[k])}
	}
	return out
}

// Counters tallies host operations since the last Reset.
type Counters struct {
	Created  int
	Inserted int
	Moved    int
	Removed  int
	PropSets int
	TextSets int
}

// Document implements fiber.Host over Nodes. Root is the container to attach
// fiber roots to.
type Document struct {
	Root     *Node
	Ops      []string
	Counters Counters

	// Fail, when set, is consulted before every operation; a non-nil result
	// is returned instead of applying it.
	Fail func(op string) error

	nextID int
}

var _ fiber.Host = (*Document)(nil)

func NewDocument() *Document {
	d := &Document{}
	d.Root = d.newNode("root", "")
	return d
}

func (d *Document) newNode(typ, text string) *Node {
	d.nextID++
	return &Node{ID: d.nextID, Type: typ, Text: text}
}

// Reset clears the operation log and counters.
func (d *Document) Reset() {
	d.Ops = nil
	d.Counters = Counters{}
}

func (d *Document) record(op string, args ...any) error {
	s := fmt.Sprintf(op, args...)
	if d.Fail != nil {
		if err := d.Fail(s); err != nil {
			return err
		}
	}
	d.Ops = append(d.Ops, s)
	return nil
}

func asNode(h fiber.Handle) (*Node, error) {
	n, ok := h.(*Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: got %T", ErrNotNode, h)
	}
	return n, nil
}

func (d *Document) CreateElement(typ string) (fiber.Handle, error) {
	if typ == "" {
		return nil, ErrEmptyType
	}
	n := d.newNode(typ, "")
	if err := d.record("create %s", n); err != nil {
		return nil, err
	}
	d.Counters.Created++
	return n, nil
}

func (d *Document) CreateText(text string) (fiber.Handle, error) {
	n := d.newNode("", text)
	if err := d.record("create %s %q", n, text); err != nil {
		return nil, err
	}
	d.Counters.Created++
	return n, nil
}

func (d *Document) SetProperty(h fiber.Handle, key string, value any) error {
	n, err := asNode(h)
	if err != nil {
		return err
	}
	if n.IsText() {
		return fmt.Errorf("%w: %s", ErrNotElement, n)
	}
	if value == nil {
		if err := d.record("unset %s.%s", n, key); err != nil {
			return err
		}
		delete(n.Props, key)
	} else {
		if err := d.record("set %s.%s", n, key); err != nil {
			return err
		}
		if n.Props == nil {
			n.Props = map[string]any{}
		}
		n.Props[key] = value
	}
	d.Counters.PropSets++
	return nil
}

func (d *Document) SetText(h fiber.Handle, text string) error {
	n, err := asNode(h)
	if err != nil {
		return err
	}
	if !n.IsText() {
		return fmt.Errorf("%w: %s", ErrNotText, n)
	}
	if err := d.record("text %s %q", n, text); err != nil {
		return err
	}
	n.Text = text
	d.Counters.TextSets++
	return nil
}

func (d *Document) AppendChild(parent, child fiber.Handle) error {
	return d.InsertBefore(parent, child, nil)
}

func (d *Document) InsertBefore(parent, child, before fiber.Handle) error {
	p, err := asNode(parent)
	if err != nil {
		return err
	}
	c, err := asNode(child)
	if err != nil {
		return err
	}
	var b *Node
	if before != nil {
		if b, err = asNode(before); err != nil {
			return err
		}
		if b.Parent != p {
			return fmt.Errorf("%w: %s in %s", ErrDetachedRef, b, p)
		}
	}
	if c.Parent != nil && c.Parent != p {
		return fmt.Errorf("%w: %s", ErrHasParent, c)
	}

	moved := c.Parent == p
	if b == nil {
		err = d.record("append %s to %s", c, p)
	} else {
		err = d.record("insert %s into %s before %s", c, p, b)
	}
	if err != nil {
		return err
	}
	if moved {
		p.Children = slices.Delete(p.Children, p.indexOf(c), p.indexOf(c)+1)
		d.Counters.Moved++
	} else {
		d.Counters.Inserted++
	}
	c.Parent = p
	if b == nil {
		p.Children = append(p.Children, c)
	} else {
		p.Children = slices.Insert(p.Children, p.indexOf(b), c)
	}
	return nil
}

func (d *Document) RemoveChild(parent, child fiber.Handle) error {
	p, err := asNode(parent)
	if err != nil {
		return err
	}
	c, err := asNode(child)
	if err != nil {
		return err
	}
	i := p.indexOf(c)
	if i < 0 {
		return fmt.Errorf("%w: %s in %s", ErrNotChild, c, p)
	}
	if err := d.record("remove %s from %s", c, p); err != nil {
		return err
	}
	p.Children = slices.Delete(p.Children, i, i+1)
	c.Parent = nil
	d.Counters.Removed++
	return nil
}

// Fire calls the handler stored under prop on n.
func Fire(n *Node, prop string, arg ...any) error {
	switch h := n.Props[prop].(type) {
	case func():
		h()
	case func(string):
		var s string
		if len(arg) > 0 {
			s = fmt.Sprint(arg[0])
		}
		h(s)
	case func(any):
		var v any
		if len(arg) > 0 {
			v = arg[0]
		}
		h(v)
	default:
		return fmt.Errorf("%w: %s on %s", ErrNoHandler, prop, n)
	}
	return nil
}

// HTML serializes the children of the container.
func (d *Document) HTML() string {
	var sb strings.Builder
	for _, c := range d.Root.Children {
		sb.WriteString(NodeHTML(c))
	}
	return sb.String()
}

// Fingerprint hashes the serialized document, so two trees with equal
// structure, text and attributes share a fingerprint.
func (d *Document) Fingerprint() uint64 {
	return xxhash.Sum64String(d.HTML())
}
