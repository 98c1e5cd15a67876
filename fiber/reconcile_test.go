package fiber_test

import (
	"math/rand"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/fiberparty/fiber"
	"github.com/delaneyj/fiberparty/memhost"
)

func listIDs(doc *memhost.Document) []string {
	ul := doc.Root.Children[0]
	ids := make([]string, 0, len(ul.Children))
	for _, li := range ul.Children {
		ids = append(ids, li.Props["id"].(string))
	}
	return ids
}

// should materialize a new subtree with a single placement
func TestMountPlacesOnce(t *testing.T) {
	item := func(r *fiber.Render, p fiber.Props) any {
		return fiber.H("li", nil, p["label"])
	}
	app := func(r *fiber.Render, p fiber.Props) any {
		return fiber.H("div", fiber.Props{"id": "app"},
			fiber.H("h1", nil, "todo"),
			fiber.H("ul", nil,
				fiber.H(item, fiber.Props{"label": "one"}),
				fiber.H(item, fiber.Props{"label": 2}),
			),
		)
	}
	rt, doc := mount(t, fiber.H(app, nil))

	assert.Equal(t, `<div id="app"><h1>todo</h1><ul><li>one</li><li>2</li></ul></div>`, doc.HTML())
	stats := rt.Stats()
	assert.Equal(t, 1, stats.Placed)
	assert.Equal(t, 3, stats.Rendered)
	assert.Equal(t, 8, stats.Created)
	assert.Equal(t, 0, stats.Updated)
}

// should produce no host operations when a rerender yields the same tree
func TestIdempotentRerender(t *testing.T) {
	var set fiber.Setter[int]
	renders := 0
	app := func(r *fiber.Render, p fiber.Props) any {
		renders++
		n, s := fiber.UseState(r, 3)
		set = s
		return fiber.H("p", fiber.Props{"class": "count"}, "n=", n)
	}
	rt, doc := mount(t, fiber.H(app, nil))
	doc.Reset()

	set.Set(3)
	assert.Equal(t, 1, drain(t, rt))
	assert.Equal(t, 2, renders)
	assert.Empty(t, doc.Ops)
	assert.Equal(t, 0, rt.Stats().Updated)
	assert.Equal(t, `<p class="count">n=3</p>`, doc.HTML())
}

// should skip a child whose props are unchanged by reference
func TestBailoutOnSameProps(t *testing.T) {
	shared := fiber.Props{"label": "static"}
	childRenders := 0
	child := func(r *fiber.Render, p fiber.Props) any {
		childRenders++
		return fiber.H("span", nil, p["label"])
	}
	var set fiber.Setter[int]
	parent := func(r *fiber.Render, p fiber.Props) any {
		n, s := fiber.UseState(r, 0)
		set = s
		return fiber.H("div", nil, fiber.H(child, shared), n)
	}
	rt, doc := mount(t, fiber.H(parent, nil))
	require.Equal(t, 1, childRenders)

	set.Set(1)
	drain(t, rt)
	assert.Equal(t, 1, childRenders)
	assert.GreaterOrEqual(t, rt.Stats().Bailouts, 1)
	assert.Equal(t, "<div><span>static</span>1</div>", doc.HTML())
}

// should move keyed nodes without recreating them
func TestKeyedReorder(t *testing.T) {
	rt, doc := mount(t, keyedList("a", "b", "c"))
	before := doc.Root.Children[0].Children
	doc.Reset()

	require.NoError(t, rt.RenderRoot(keyedList("c", "a", "b")))
	assert.Equal(t, []string{"c", "a", "b"}, listIDs(doc))
	assert.Equal(t, memhost.Counters{Moved: 2}, doc.Counters)

	after := doc.Root.Children[0].Children
	assert.Same(t, before[0], after[1])
	assert.Same(t, before[1], after[2])
	assert.Same(t, before[2], after[0])
}

// should move keyed nodes when a state update reorders them
func TestKeyedReorderFromState(t *testing.T) {
	var set fiber.Setter[[]string]
	app := func(r *fiber.Render, p fiber.Props) any {
		keys, s := fiber.UseState(r, []string{"a", "b", "c"})
		set = s
		return keyedList(keys...)
	}
	rt, doc := mount(t, fiber.H(app, nil))
	before := doc.Root.Children[0].Children
	doc.Reset()

	set.Set([]string{"c", "a", "b"})
	require.Equal(t, 1, pending(rt))
	assert.Equal(t, 1, drain(t, rt))
	assert.Equal(t, []string{"c", "a", "b"}, listIDs(doc))
	assert.Equal(t, memhost.Counters{Moved: 2}, doc.Counters)

	after := doc.Root.Children[0].Children
	assert.Same(t, before[0], after[1])
	assert.Same(t, before[1], after[2])
	assert.Same(t, before[2], after[0])
}

// should call the closure from the latest render of an inline component
func TestInlineClosureComponent(t *testing.T) {
	var set fiber.Setter[int]
	app := func(r *fiber.Render, p fiber.Props) any {
		n, s := fiber.UseState(r, 0)
		set = s
		inner := func(r *fiber.Render, p fiber.Props) any {
			return fiber.Text("%d", n)
		}
		return fiber.H("div", nil, fiber.H(inner, fiber.Props{}))
	}
	rt, doc := mount(t, fiber.H(app, nil))
	require.Equal(t, "<div>0</div>", doc.HTML())
	inner := doc.Root.Children[0].Children[0]

	set.Set(5)
	drain(t, rt)
	assert.Equal(t, "<div>5</div>", doc.HTML())
	assert.Same(t, inner, doc.Root.Children[0].Children[0])
}

// should rerender children built without props when their parent rerenders
func TestNilPropsRerender(t *testing.T) {
	labels := 0
	label := func(r *fiber.Render, p fiber.Props) any {
		labels++
		return fiber.H("span", nil, "x")
	}
	var set fiber.Setter[int]
	app := func(r *fiber.Render, p fiber.Props) any {
		n, s := fiber.UseState(r, 0)
		set = s
		inner := func(r *fiber.Render, p fiber.Props) any {
			return n
		}
		return fiber.H("div", nil, fiber.H(label, nil), fiber.H(inner, nil))
	}
	rt, doc := mount(t, fiber.H(app, nil))
	require.Equal(t, "<div><span>x</span>0</div>", doc.HTML())
	doc.Reset()

	set.Set(5)
	drain(t, rt)
	assert.Equal(t, "<div><span>x</span>5</div>", doc.HTML())
	assert.Equal(t, 2, labels)
	assert.Equal(t, memhost.Counters{TextSets: 1}, doc.Counters)
}

// should create and remove exactly the symmetric difference of key sets
func TestKeyedPermutations(t *testing.T) {
	cases := [][2][]string{
		{{"a", "b", "c"}, {"c", "a", "b"}},
		{{"a", "b", "c", "d"}, {"d", "a"}},
		{{"a", "b"}, {"b", "c", "a"}},
		{{"b", "c"}, {"a", "b", "c"}},
		{{}, {"a", "b"}},
		{{"a", "b"}, {}},
		{{"a", "b", "c"}, {"b"}},
		{{"a"}, {"x", "y", "a", "z"}},
	}
	pool := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	rng := rand.New(rand.NewSource(7))
	random := func() []string {
		perm := rng.Perm(len(pool))[:rng.Intn(len(pool)+1)]
		keys := make([]string, len(perm))
		for i, p := range perm {
			keys[i] = pool[p]
		}
		return keys
	}
	for range 64 {
		cases = append(cases, [2][]string{random(), random()})
	}

	for _, c := range cases {
		prev, next := c[0], c[1]
		rt, doc := mount(t, keyedList(prev...))
		doc.Reset()
		require.NoError(t, rt.RenderRoot(keyedList(next...)))

		oldKeys := mapset.NewThreadUnsafeSet(prev...)
		newKeys := mapset.NewThreadUnsafeSet(next...)
		added := newKeys.Difference(oldKeys).Cardinality()
		removed := oldKeys.Difference(newKeys).Cardinality()

		assert.Equal(t, next, listIDs(doc), "%v -> %v", prev, next)
		// every new item is an li plus its text
		assert.Equal(t, 2*added, doc.Counters.Created, "%v -> %v", prev, next)
		assert.Equal(t, removed, doc.Counters.Removed, "%v -> %v", prev, next)
		assert.Equal(t, added, doc.Counters.PropSets, "%v -> %v", prev, next)
		assert.Zero(t, doc.Counters.TextSets)
		assert.Equal(t, removed, rt.Stats().Deleted)
	}
}

// should replace a node whose type changed under the same key
func TestKeyedTypeChange(t *testing.T) {
	rt, doc := mount(t, fiber.H("div", nil, fiber.H("span", nil, "x").WithKey("k")))
	doc.Reset()

	require.NoError(t, rt.RenderRoot(fiber.H("div", nil, fiber.H("p", nil, "x").WithKey("k"))))
	assert.Equal(t, "<div><p>x</p></div>", doc.HTML())
	assert.Equal(t, 2, doc.Counters.Created)
	assert.Equal(t, 1, doc.Counters.Removed)
}

// should update text in place and skip nil and bool children
func TestTextChildren(t *testing.T) {
	view := func(mid string, show bool) *fiber.Element {
		var extra any = false
		if show {
			extra = fiber.H("b", nil, "!")
		}
		return fiber.H("div", nil, "a", nil, fiber.H("i", nil, mid), extra)
	}
	rt, doc := mount(t, view("x", false))
	assert.Equal(t, "<div>a<i>x</i></div>", doc.HTML())

	doc.Reset()
	require.NoError(t, rt.RenderRoot(view("y", false)))
	assert.Equal(t, "<div>a<i>y</i></div>", doc.HTML())
	assert.Equal(t, memhost.Counters{TextSets: 1}, doc.Counters)

	require.NoError(t, rt.RenderRoot(view("y", true)))
	assert.Equal(t, "<div>a<i>y</i><b>!</b></div>", doc.HTML())

	require.NoError(t, rt.RenderRoot(fiber.H("div", nil, fiber.Text("%d items", 2))))
	assert.Equal(t, "<div>2 items</div>", doc.HTML())
}

// should place every host node of a moved component
func TestFragmentMove(t *testing.T) {
	pair := func(r *fiber.Render, p fiber.Props) any {
		name := p["name"].(string)
		return []any{
			fiber.H("li", nil, name+"1"),
			fiber.H("li", nil, name+"2"),
		}
	}
	view := func(names ...string) *fiber.Element {
		items := make([]any, len(names))
		for i, n := range names {
			items[i] = fiber.H(pair, fiber.Props{"name": n}).WithKey(n)
		}
		return fiber.H("ul", fiber.Props{fiber.ChildrenProp: items})
	}
	rt, doc := mount(t, view("a", "b"))
	assert.Equal(t, "<ul><li>a1</li><li>a2</li><li>b1</li><li>b2</li></ul>", doc.HTML())

	require.NoError(t, rt.RenderRoot(view("b", "a")))
	assert.Equal(t, "<ul><li>b1</li><li>b2</li><li>a1</li><li>a2</li></ul>", doc.HTML())

	require.NoError(t, rt.RenderRoot(view("c", "b", "a")))
	assert.Equal(t, "<ul><li>c1</li><li>c2</li><li>b1</li><li>b2</li><li>a1</li><li>a2</li></ul>", doc.HTML())

	doc.Reset()
	require.NoError(t, rt.RenderRoot(view("c", "a")))
	assert.Equal(t, "<ul><li>c1</li><li>c2</li><li>a1</li><li>a2</li></ul>", doc.HTML())
	assert.Equal(t, 2, doc.Counters.Removed)
}

// should diff properties by identity and remove dropped keys
func TestPropertyDiff(t *testing.T) {
	rt, doc := mount(t, fiber.H("a", fiber.Props{"href": "/x", "title": "t"}))
	doc.Reset()

	require.NoError(t, rt.RenderRoot(fiber.H("a", fiber.Props{"href": "/y", "rel": "next"})))
	assert.Equal(t, []string{"unset a2.title", "set a2.href", "set a2.rel"}, doc.Ops)
	assert.Equal(t, `<a href="/y" rel="next"></a>`, doc.HTML())
}
