package rules

import (
	"reflect"
	"strings"
)

// Type is a declared parameter type a rule checks values against
type Type interface {
	// Matches reports whether v is compatible with the declared type
	Matches(v any) bool
	String() string
}

type anyType struct{}

func (anyType) Matches(any) bool { return true }
func (anyType) String() string   { return "any" }

type nilType struct{}

func (nilType) Matches(v any) bool { return isNil(v) }
func (nilType) String() string     { return "nil" }

type goType struct {
	t reflect.Type
}

func (g goType) Matches(v any) bool {
	if v == nil {
		return g.t.Kind() == reflect.Interface
	}
	vt := reflect.TypeOf(v)
	if g.t.Kind() == reflect.Interface {
		return vt.Implements(g.t)
	}
	return vt.AssignableTo(g.t)
}

func (g goType) String() string { return g.t.String() }

type unionType struct {
	members []Type
}

func (u unionType) Matches(v any) bool {
	for _, m := range u.members {
		if m.Matches(v) {
			return true
		}
	}
	return false
}

func (u unionType) String() string {
	parts := make([]string, len(u.members))
	for i, m := range u.members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Any accepts every value, nil included
func Any() Type { return anyType{} }

// Nil accepts only nil values (untyped nil or nil pointers, maps, slices...)
func Nil() Type { return nilType{} }

// Of declares the Go type T. Interface types match any implementation.
func Of[T any]() Type {
	return TypeOf(reflect.TypeFor[T]())
}

// TypeOf declares t. A nil reflect.Type declares Any.
func TypeOf(t reflect.Type) Type {
	if t == nil {
		return Any()
	}
	return goType{t: t}
}

// Union accepts a value when any member accepts it. Nested unions are
// flattened.
func Union(members ...Type) Type {
	flat := make([]Type, 0, len(members))
	for _, m := range members {
		if nested, ok := m.(unionType); ok {
			flat = append(flat, nested.members...)
			continue
		}
		if m != nil {
			flat = append(flat, m)
		}
	}
	return unionType{members: flat}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
