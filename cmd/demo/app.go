package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/delaneyj/fiberparty/fiber"
)

type todo struct {
	id   int
	text string
	done bool
}

type todoList struct {
	items []todo
	next  int
}

type actionKind uint8

const (
	addTodo actionKind = iota
	toggleTodo
	removeTodo
)

type todoAction struct {
	kind actionKind
	id   int
	text string
}

// reduce never mutates items in place, so memos keyed on the slice see every change.
func reduce(list todoList, a todoAction) todoList {
	switch a.kind {
	case addTodo:
		list.next++
		list.items = append(slices.Clone(list.items), todo{id: list.next, text: a.text})
	case toggleTodo:
		items := slices.Clone(list.items)
		for i := range items {
			if items[i].id == a.id {
				items[i].done = !items[i].done
			}
		}
		list.items = items
	case removeTodo:
		list.items = slices.DeleteFunc(slices.Clone(list.items), func(t todo) bool {
			return t.id == a.id
		})
	default:
		panic(fmt.Sprintf("unknown todo action %d", a.kind))
	}
	return list
}

// TodoApp expects an "onLeft" func(int) prop, called whenever the number of
// open todos changes.
func TodoApp(r *fiber.Render, p fiber.Props) any {
	list, dispatch := fiber.UseReducer(r, reduce, todoList{})
	draft, setDraft := fiber.UseState(r, "")

	left := fiber.UseMemo(r, func() int {
		n := 0
		for _, t := range list.items {
			if !t.done {
				n++
			}
		}
		return n
	}, []any{list.items})

	onLeft, _ := p["onLeft"].(func(int))
	fiber.UseEffect(r, func() (fiber.Teardown, error) {
		if onLeft != nil {
			onLeft(left)
		}
		return nil, nil
	}, []any{left})

	items := make([]any, len(list.items))
	for i, t := range list.items {
		items[i] = fiber.H(TodoItem, fiber.Props{"todo": t, "dispatch": dispatch}).WithKey(strconv.Itoa(t.id))
	}

	return fiber.H("section", fiber.Props{"id": "todos"},
		fiber.H("input", fiber.Props{
			"id":      "draft",
			"value":   draft,
			"onInput": func(s string) { setDraft.Set(s) },
		}),
		fiber.H("button", fiber.Props{
			"id": "add",
			"onClick": func() {
				if draft == "" {
					return
				}
				dispatch(todoAction{kind: addTodo, text: draft})
				setDraft.Set("")
			},
		}, "add"),
		fiber.H("ul", fiber.Props{fiber.ChildrenProp: items}),
		fiber.H("footer", nil, fiber.Text("%d left", left)),
	)
}

func TodoItem(r *fiber.Render, p fiber.Props) any {
	t := p["todo"].(todo)
	dispatch := p["dispatch"].(func(todoAction))

	class := "open"
	if t.done {
		class = "done"
	}
	return fiber.H("li", fiber.Props{"id": fmt.Sprintf("todo-%d", t.id), "class": class},
		fiber.H("span", fiber.Props{
			"id":      fmt.Sprintf("toggle-%d", t.id),
			"onClick": func() { dispatch(todoAction{kind: toggleTodo, id: t.id}) },
		}, t.text),
		fiber.H("button", fiber.Props{
			"id":      fmt.Sprintf("remove-%d", t.id),
			"onClick": func() { dispatch(todoAction{kind: removeTodo, id: t.id}) },
		}, "x"),
	)
}
