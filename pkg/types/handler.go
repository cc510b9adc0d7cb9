package types

import (
	"reflect"

	"github.com/arthur-debert/switchboard/pkg/errors"
)

// Param declares one parameter of a handler. Type is nil when the
// parameter is untyped.
type Param struct {
	Name       string
	Type       reflect.Type
	Default    any
	HasDefault bool
}

// Untyped declares a parameter without a type
func Untyped(name string) Param {
	return Param{Name: name}
}

// Typed declares a parameter of type T
func Typed[T any](name string) Param {
	return Param{Name: name, Type: reflect.TypeFor[T]()}
}

// WithDefault returns a copy of p that is optional and defaults to v
func (p Param) WithDefault(v any) Param {
	p.Default = v
	p.HasDefault = true
	return p
}

// Handler is a named function together with its declared parameters
type Handler struct {
	Name   string
	Params []Param
	Fn     Func
}

// NewHandler declares a handler from a Func and its parameters
func NewHandler(name string, fn Func, params ...Param) Handler {
	return Handler{Name: name, Params: params, Fn: fn}
}

// ParamNames returns the declared parameter names in order
func (h Handler) ParamNames() []string {
	names := make([]string, len(h.Params))
	for i, p := range h.Params {
		names[i] = p.Name
	}
	return names
}

// Validate checks that the handler can be registered
func (h Handler) Validate() error {
	if h.Name == "" {
		return errors.New(errors.ErrInvalidInput, "handler name cannot be empty")
	}
	if h.Fn == nil {
		return errors.Newf(errors.ErrInvalidInput, "handler %s has no function", h.Name)
	}
	seen := make(map[string]bool, len(h.Params))
	for _, p := range h.Params {
		if p.Name == "" {
			return errors.Newf(errors.ErrInvalidInput, "handler %s declares an unnamed parameter", h.Name)
		}
		if seen[p.Name] {
			return errors.Newf(errors.ErrInvalidInput, "handler %s declares parameter %s twice", h.Name, p.Name).
				WithDetail("handler", h.Name).
				WithDetail("field", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
