package validate

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/arthur-debert/switchboard/pkg/types"
)

// Field is one validated parameter
type Field struct {
	Name       string
	Index      int
	Type       reflect.Type
	Default    any
	HasDefault bool
}

// Schema lists the typed parameters of a handler in declaration order
type Schema struct {
	Handler string
	Fields  []Field
}

// Types maps field names to their Go type names
func (s *Schema) Types() map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Name] = f.Type.String()
	}
	return out
}

// Validator derives schemas and converts values
type Validator interface {
	// Derive builds a schema from declared parameters. It reports false
	// when nothing is typed and the handler needs no validation.
	Derive(handler string, params []types.Param) (*Schema, bool)
	// Coerce converts v to f.Type or explains why it cannot
	Coerce(f Field, v any) (any, error)
}

// DecodeValidator coerces values with mapstructure: numeric strings
// become numbers, maps become structs, and slices are converted element
// by element. Strings are never produced from non-strings and integers
// never accept fractional floats.
type DecodeValidator struct{}

// Derive implements Validator
func (DecodeValidator) Derive(handler string, params []types.Param) (*Schema, bool) {
	s := &Schema{Handler: handler}
	for i, p := range params {
		if p.Type == nil {
			continue
		}
		s.Fields = append(s.Fields, Field{
			Name:       p.Name,
			Index:      i,
			Type:       p.Type,
			Default:    p.Default,
			HasDefault: p.HasDefault,
		})
	}
	return s, len(s.Fields) > 0
}

// Coerce implements Validator
func (DecodeValidator) Coerce(f Field, v any) (any, error) {
	if v == nil {
		if nillable(f.Type) {
			return nil, nil
		}
		return nil, fmt.Errorf("value is required, expected %s", f.Type)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(f.Type) {
		return v, nil
	}
	if f.Type.Kind() == reflect.String && rv.Kind() != reflect.String {
		return nil, fmt.Errorf("expected %s, got %T", f.Type, v)
	}
	if isInteger(f.Type.Kind()) && (rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64) {
		if fl := rv.Float(); fl != math.Trunc(fl) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
	}

	if isUnsigned(f.Type.Kind()) && ((rv.CanInt() && rv.Int() < 0) || (rv.CanFloat() && rv.Float() < 0)) {
		return nil, fmt.Errorf("%v is negative, expected %s", v, f.Type)
	}

	if overflows(f.Type, rv) {
		return nil, fmt.Errorf("%v overflows %s", v, f.Type)
	}

	out := reflect.New(f.Type)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out.Interface(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(v); err != nil {
		return nil, fmt.Errorf("expected %s: %w", f.Type, err)
	}
	return out.Elem().Interface(), nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// overflows reports whether a numeric rv is out of range for t
func overflows(t reflect.Type, rv reflect.Value) bool {
	target := reflect.New(t).Elem()
	switch {
	case target.CanInt():
		switch {
		case rv.CanInt():
			return target.OverflowInt(rv.Int())
		case rv.CanUint():
			return rv.Uint() > math.MaxInt64 || target.OverflowInt(int64(rv.Uint()))
		case rv.CanFloat():
			fl := rv.Float()
			return fl < math.MinInt64 || fl >= math.MaxInt64 || target.OverflowInt(int64(fl))
		}
	case target.CanUint():
		switch {
		case rv.CanInt():
			return rv.Int() < 0 || target.OverflowUint(uint64(rv.Int()))
		case rv.CanUint():
			return target.OverflowUint(rv.Uint())
		case rv.CanFloat():
			fl := rv.Float()
			return fl < 0 || fl >= 0x1p64 || target.OverflowUint(uint64(fl))
		}
	case target.CanFloat():
		if rv.CanFloat() {
			return target.OverflowFloat(rv.Float())
		}
	}
	return false
}

func isInteger(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Uintptr
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}
