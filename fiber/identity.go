package fiber

import "reflect"

// same compares two values by identity: reference types compare by pointer,
// everything else by ==. Funcs and other values that are not comparable never
// match, since two closures of one literal share a code pointer.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func:
		return false
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !va.Type().Comparable() {
		return false
	}
	defer func() {
		// interface fields holding uncomparable values
		_ = recover()
	}()
	return a == b
}

// sameType compares element types. Components are matched by code pointer.
func sameType(a, b any) bool {
	ca, ok := a.(Component)
	if !ok {
		return same(a, b)
	}
	cb, ok := b.(Component)
	if !ok {
		return false
	}
	return reflect.ValueOf(ca).Pointer() == reflect.ValueOf(cb).Pointer()
}

// depsChanged reports whether an effect or memo must rerun. A nil list always
// reruns; lists of different length are a shape violation.
func depsChanged(prev, next []any) (bool, error) {
	if next == nil || prev == nil {
		return true, nil
	}
	if len(prev) != len(next) {
		return false, shapef("dependency list length changed from %d to %d", len(prev), len(next))
	}
	for i := range next {
		if !same(prev[i], next[i]) {
			return true, nil
		}
	}
	return false, nil
}
