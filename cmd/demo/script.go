package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/delaneyj/fiberparty/fiber"
	"github.com/delaneyj/fiberparty/memhost"
	"github.com/delaneyj/fiberparty/pkg/loop"
)

// event fires the handler prop of the element with the given id.
type event struct {
	target string
	prop   string
	arg    any
}

var script = []event{
	{target: "draft", prop: "onInput", arg: "buy milk"},
	{target: "add", prop: "onClick"},
	{target: "draft", prop: "onInput", arg: "walk dog"},
	{target: "add", prop: "onClick"},
	{target: "toggle-1", prop: "onClick"},
	{target: "remove-2", prop: "onClick"},
}

func byID(doc *memhost.Document, id string) *memhost.Node {
	return doc.Root.Find(func(n *memhost.Node) bool {
		return n.Props["id"] == id
	})
}

// play mounts the app on l and fires every event of script, calling snapshot
// with the document HTML after the initial render and after each event.
func play(ctx context.Context, l *loop.Loop, opts []fiber.Option, onLeft func(int), snapshot func(step string, html string), logger zerolog.Logger) error {
	doc := memhost.NewDocument()
	rt := fiber.Attach(doc, doc.Root, append([]fiber.Option{fiber.WithQueue(l), fiber.WithLogger(logger)}, opts...)...)

	var renderErr error
	if err := l.Do(ctx, func() {
		renderErr = rt.RenderRoot(fiber.H(TodoApp, fiber.Props{"onLeft": onLeft}))
	}); err != nil {
		return err
	}
	if renderErr != nil {
		return renderErr
	}

	html := func() (string, error) {
		var out string
		err := l.Do(ctx, func() { out = doc.HTML() })
		return out, err
	}
	out, err := html()
	if err != nil {
		return err
	}
	snapshot("mount", out)

	for _, ev := range script {
		var fireErr error
		if err := l.Do(ctx, func() {
			n := byID(doc, ev.target)
			if n == nil {
				fireErr = fmt.Errorf("no element with id %q", ev.target)
				return
			}
			var args []any
			if ev.arg != nil {
				args = append(args, ev.arg)
			}
			fireErr = memhost.Fire(n, ev.prop, args...)
		}); err != nil {
			return err
		}
		if fireErr != nil {
			return fireErr
		}

		// the cycle scheduled by the event runs before this task
		if out, err = html(); err != nil {
			return err
		}
		snapshot(fmt.Sprintf("%s %s", ev.prop, ev.target), out)
	}

	var rootErr error
	if err := l.Do(ctx, func() { rootErr = rt.Err() }); err != nil {
		return err
	}
	return rootErr
}
