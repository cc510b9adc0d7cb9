package types

import (
	"fmt"
	"sort"
	"strings"
)

// Call carries the arguments of one invocation: positional values in
// Args and named values in Kwargs
type Call struct {
	Args   []any
	Kwargs map[string]any
}

// Args builds a Call from positional values
func Args(args ...any) Call {
	return Call{Args: args}
}

// Func is the shape of every handler and every plugin layer wrapped around it
type Func func(call Call) (any, error)

// Invoke calls f with positional arguments only
func (f Func) Invoke(args ...any) (any, error) {
	return f(Call{Args: args})
}

// Clone returns a copy whose Args and Kwargs can be changed without
// affecting c
func (c Call) Clone() Call {
	out := Call{}
	if c.Args != nil {
		out.Args = append([]any(nil), c.Args...)
	}
	if c.Kwargs != nil {
		out.Kwargs = make(map[string]any, len(c.Kwargs))
		for k, v := range c.Kwargs {
			out.Kwargs[k] = v
		}
	}
	return out
}

// With returns a copy of c with the named value set
func (c Call) With(name string, value any) Call {
	out := c.Clone()
	if out.Kwargs == nil {
		out.Kwargs = make(map[string]any, 1)
	}
	out.Kwargs[name] = value
	return out
}

// Without returns a copy of c without the named value
func (c Call) Without(name string) Call {
	out := c.Clone()
	delete(out.Kwargs, name)
	return out
}

// Prepend returns a copy of c with v inserted as the first positional value
func (c Call) Prepend(v any) Call {
	out := c.Clone()
	out.Args = append([]any{v}, out.Args...)
	return out
}

// Arg returns the positional value at index i
func (c Call) Arg(i int) (any, bool) {
	if i < 0 || i >= len(c.Args) {
		return nil, false
	}
	return c.Args[i], true
}

// Kwarg returns the named value
func (c Call) Kwarg(name string) (any, bool) {
	v, ok := c.Kwargs[name]
	return v, ok
}

// String renders the arguments the way they would appear in a call
// expression: positional values first, then named values sorted by name.
func (c Call) String() string {
	parts := make([]string, 0, len(c.Args)+len(c.Kwargs))
	for _, a := range c.Args {
		parts = append(parts, FormatValue(a))
	}
	names := make([]string, 0, len(c.Kwargs))
	for k := range c.Kwargs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		parts = append(parts, k+"="+FormatValue(c.Kwargs[k]))
	}
	return strings.Join(parts, ", ")
}

// FormatValue renders a single value, quoting strings
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
