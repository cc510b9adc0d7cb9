package types

import (
	"reflect"

	"github.com/arthur-debert/switchboard/pkg/errors"
)

var errorType = reflect.TypeFor[error]()

// Adapt turns an ordinary Go function into a Handler. paramNames names
// the function's parameters in order; their declared types are taken
// from the function signature (empty-interface parameters are untyped).
//
// The function may return nothing, a result, an error, or a result and
// an error. At call time positional values bind first, then named values;
// numeric values are converted between numeric kinds when no precision
// is lost.
func Adapt(name string, fn any, paramNames ...string) (Handler, error) {
	if fn == nil {
		return Handler{}, errors.Newf(errors.ErrInvalidInput, "handler %s has no function", name)
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return Handler{}, errors.Newf(errors.ErrInvalidInput, "handler %s: %T is not a function", name, fn)
	}
	if ft.IsVariadic() {
		return Handler{}, errors.Newf(errors.ErrInvalidInput, "handler %s: variadic functions are not supported", name)
	}
	if ft.NumIn() != len(paramNames) {
		return Handler{}, errors.Newf(errors.ErrInvalidInput,
			"handler %s takes %d parameters but %d names were given", name, ft.NumIn(), len(paramNames))
	}

	returnsErr := false
	switch ft.NumOut() {
	case 0:
	case 1:
		returnsErr = ft.Out(0) == errorType
	case 2:
		if ft.Out(1) != errorType {
			return Handler{}, errors.Newf(errors.ErrInvalidInput, "handler %s: second result must be an error", name)
		}
	default:
		return Handler{}, errors.Newf(errors.ErrInvalidInput, "handler %s returns too many results", name)
	}

	params := make([]Param, ft.NumIn())
	for i := range params {
		params[i] = Param{Name: paramNames[i]}
		if in := ft.In(i); !isEmptyInterface(in) {
			params[i].Type = in
		}
	}

	h := Handler{Name: name, Params: params}
	h.Fn = func(call Call) (any, error) {
		in, err := bindValues(name, params, ft, call)
		if err != nil {
			return nil, err
		}
		out := fv.Call(in)
		switch {
		case len(out) == 0:
			return nil, nil
		case len(out) == 1 && returnsErr:
			return nil, asError(out[0])
		case len(out) == 1:
			return out[0].Interface(), nil
		default:
			if err := asError(out[1]); err != nil {
				return nil, err
			}
			return out[0].Interface(), nil
		}
	}
	if err := h.Validate(); err != nil {
		return Handler{}, err
	}
	return h, nil
}

// MustAdapt is Adapt for package-level declarations; it panics on error
func MustAdapt(name string, fn any, paramNames ...string) Handler {
	h, err := Adapt(name, fn, paramNames...)
	if err != nil {
		panic(err)
	}
	return h
}

func bindValues(name string, params []Param, ft reflect.Type, call Call) ([]reflect.Value, error) {
	if len(call.Args) > len(params) {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"%s takes %d positional arguments but %d were given", name, len(params), len(call.Args))
	}

	known := make(map[string]bool, len(params))
	in := make([]reflect.Value, len(params))
	for i, p := range params {
		known[p.Name] = true

		var value any
		switch kv, named := call.Kwargs[p.Name]; {
		case i < len(call.Args):
			if named {
				return nil, argError(name, p.Name, "got multiple values for argument %s", p.Name)
			}
			value = call.Args[i]
		case named:
			value = kv
		case p.HasDefault:
			value = p.Default
		default:
			return nil, argError(name, p.Name, "missing argument %s", p.Name)
		}

		rv, err := convertValue(value, ft.In(i))
		if err != nil {
			return nil, argError(name, p.Name, "argument %s: %v", p.Name, err)
		}
		in[i] = rv
	}

	for k := range call.Kwargs {
		if !known[k] {
			return nil, argError(name, k, "unexpected argument %s", k)
		}
	}
	return in, nil
}

func argError(handler, field, format string, args ...any) error {
	return errors.Newf(errors.ErrInvalidInput, handler+": "+format, args...).
		WithDetail("handler", handler).
		WithDetail("field", field)
}

func convertValue(v any, target reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch target.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, errors.Newf(errors.ErrInvalidInput, "cannot use nil as %s", target)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if isNumeric(rv.Kind()) && isNumeric(target.Kind()) {
		if converted, ok := convertNumeric(rv, target); ok {
			return converted, nil
		}
		return reflect.Value{}, errors.Newf(errors.ErrInvalidInput, "%v does not fit in %s", v, target)
	}
	return reflect.Value{}, errors.Newf(errors.ErrInvalidInput, "cannot use %T as %s", v, target)
}

// convertNumeric converts only when the value survives the round trip
func convertNumeric(rv reflect.Value, target reflect.Type) (reflect.Value, bool) {
	negative := (rv.CanInt() && rv.Int() < 0) || (rv.CanFloat() && rv.Float() < 0)
	if negative && isUnsigned(target.Kind()) {
		return reflect.Value{}, false
	}
	converted := rv.Convert(target)
	if rv.CanUint() && converted.CanInt() && converted.Int() < 0 {
		return reflect.Value{}, false
	}
	if !converted.Convert(rv.Type()).Equal(rv) {
		return reflect.Value{}, false
	}
	return converted, true
}

func isNumeric(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uintptr) || isFloat(k)
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isEmptyInterface(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
