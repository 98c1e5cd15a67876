package fiber

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// ChildrenProp is the reserved prop carrying a host element's children.
const ChildrenProp = "children"

type Props map[string]any

// Component turns props into a description of its children. Descriptions are
// nil, a primitive (rendered as text), an *Element, or a []any of those.
type Component func(r *Render, props Props) any

// Element describes one component or host element. Type is either a host
// element type (string) or a Component. An empty Key means no key.
type Element struct {
	Type  any
	Key   string
	Props Props
}

// H builds an element. Children, when given, are stored under ChildrenProp.
// A nil props gets a fresh map, so the element never matches an earlier
// render's input. Pass the same Props value across renders to let a
// component skip rendering.
func H(typ any, props Props, children ...any) *Element {
	switch t := typ.(type) {
	case string, Component:
	case func(*Render, Props) any:
		typ = Component(t)
	default:
		panic(fmt.Sprintf("fiber: unsupported element type %T", typ))
	}
	if props == nil {
		props = Props{}
	}
	if len(children) > 0 {
		if len(children) == 1 {
			props[ChildrenProp] = children[0]
		} else {
			props[ChildrenProp] = children
		}
	}
	return &Element{Type: typ, Props: props}
}

// Text formats a text child.
func Text(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func (e *Element) WithKey(key string) *Element {
	e.Key = key
	return e
}

func (e *Element) kind() Kind {
	if _, ok := e.Type.(string); ok {
		return HostElementKind
	}
	return ComponentKind
}

// Children returns the children description of props.
func (p Props) Children() any {
	if p == nil {
		return nil
	}
	return p[ChildrenProp]
}

// textOf reports whether desc renders as a text node and its content.
func textOf(desc any) (string, bool) {
	switch v := desc.(type) {
	case string:
		return v, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

// flatten expands nested lists and drops entries that render nothing.
func flatten(dst []any, desc any) []any {
	switch v := desc.(type) {
	case nil, bool:
		return dst
	case []any:
		for _, c := range v {
			dst = flatten(dst, c)
		}
		return dst
	case []*Element:
		for _, c := range v {
			if c != nil {
				dst = append(dst, c)
			}
		}
		return dst
	case []string:
		for _, c := range v {
			dst = append(dst, c)
		}
		return dst
	default:
		return append(dst, v)
	}
}

func typeName(typ any) string {
	switch t := typ.(type) {
	case nil:
		return "root"
	case string:
		return t
	case Component:
		fn := runtime.FuncForPC(reflect.ValueOf(t).Pointer())
		if fn == nil {
			return "component"
		}
		name := fn.Name()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		return name
	default:
		return fmt.Sprintf("%T", typ)
	}
}
