package dispatcher

import (
	"reflect"

	"github.com/arthur-debert/switchboard/pkg/types"
)

// Accessor resolves handlers by name
type Accessor interface {
	Get(name string) (types.Func, error)
}

// BoundHandle resolves handlers with an instance bound as the first
// positional argument
type BoundHandle struct {
	d        *Dispatcher
	instance any
}

// Access returns d itself for a nil instance, otherwise a BoundHandle.
// Types expose a dispatcher to their methods with
//
//	func (s *Service) API() dispatcher.Accessor { return api.Access(s) }
func (d *Dispatcher) Access(instance any) Accessor {
	if isNilInstance(instance) {
		return d
	}
	return &BoundHandle{d: d, instance: instance}
}

// Bind returns a BoundHandle for instance
func Bind(d *Dispatcher, instance any) *BoundHandle {
	return &BoundHandle{d: d, instance: instance}
}

// Get returns the wrapped handler name with the instance prepended to
// every call
func (b *BoundHandle) Get(name string) (types.Func, error) {
	fn, err := b.d.Get(name)
	if err != nil {
		return nil, err
	}
	instance := b.instance
	return func(call types.Call) (any, error) {
		return fn(call.Prepend(instance))
	}, nil
}

// Instance returns the bound instance
func (b *BoundHandle) Instance() any { return b.instance }

// Dispatcher returns the dispatcher the handle resolves against
func (b *BoundHandle) Dispatcher() *Dispatcher { return b.d }

func isNilInstance(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
