package fiber_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/fiberparty/fiber"
	"github.com/delaneyj/fiberparty/memhost"
)

func attach(t *testing.T, opts ...fiber.Option) (*fiber.Root, *memhost.Document) {
	t.Helper()
	doc := memhost.NewDocument()
	opts = append([]fiber.Option{fiber.WithOnError(func(err *fiber.EffectError) {
		assert.FailNow(t, err.Error())
	})}, opts...)
	return fiber.Attach(doc, doc.Root, opts...), doc
}

func mount(t *testing.T, desc any, opts ...fiber.Option) (*fiber.Root, *memhost.Document) {
	t.Helper()
	rt, doc := attach(t, opts...)
	require.NoError(t, rt.RenderRoot(desc))
	return rt, doc
}

func drain(t *testing.T, rt *fiber.Root) int {
	t.Helper()
	q, ok := rt.Queue().(*fiber.ManualQueue)
	require.True(t, ok)
	ran := q.Drain()
	require.NoError(t, rt.Err())
	return ran
}

func pending(rt *fiber.Root) int {
	return rt.Queue().(*fiber.ManualQueue).Len()
}

func keyedList(keys ...string) *fiber.Element {
	items := make([]any, len(keys))
	for i, k := range keys {
		items[i] = fiber.H("li", fiber.Props{"id": k}, k).WithKey(k)
	}
	return fiber.H("ul", fiber.Props{fiber.ChildrenProp: items})
}
