package dispatcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/switchboard/pkg/dispatcher"
	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/rules"
	"github.com/arthur-debert/switchboard/pkg/testutil"
	"github.com/arthur-debert/switchboard/pkg/types"
)

func newCalc(t *testing.T) *dispatcher.Dispatcher {
	t.Helper()
	d := dispatcher.New("calc", dispatcher.WithFactories(plugin.NewRegistry()))

	_, err := d.RegisterDefault(types.MustAdapt("add", func(a, b float64) float64 { return a + b }, "a", "b"))
	require.NoError(t, err)

	_, err = d.RegisterWithRule(rules.Rule{Types: rules.TypeRule{"x": rules.Of[int]()}})(
		types.MustAdapt("double", func(x int) int { return x * 2 }, "x"))
	require.NoError(t, err)
	return d
}

func TestGetByName(t *testing.T) {
	d := newCalc(t)

	add, err := d.Get("add")
	require.NoError(t, err)
	got, err := add.Invoke(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)

	_, err = d.Get("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRegisterReturnsWrappedHandler(t *testing.T) {
	log := &testutil.CallLog{}
	d := dispatcher.New("d")
	require.NoError(t, d.Plug(testutil.NewRecorder("rec", log)))

	fn, err := d.Register(testutil.Const("one", 1))
	require.NoError(t, err)

	_, err = fn(types.Call{})
	require.NoError(t, err)
	assert.Equal(t, []string{"rec:decorate:one", "rec:before", "rec:after"}, log.Events())
}

func TestAutomaticDispatch(t *testing.T) {
	d := newCalc(t)
	resolve := d.MakeDispatcher()

	t.Run("rule matches", func(t *testing.T) {
		got, err := resolve.Invoke(4)
		require.NoError(t, err)
		assert.Equal(t, 8, got)
	})

	t.Run("rule rejects and default runs", func(t *testing.T) {
		got, err := resolve.Invoke(1.5, 2.5)
		require.NoError(t, err)
		assert.Equal(t, 4.0, got)
	})
}

func TestFirstMatchInRegistrationOrder(t *testing.T) {
	d := dispatcher.New("order")
	str := rules.Rule{Types: rules.TypeRule{"v": rules.Of[string]()}}
	anyRule := rules.Rule{Types: rules.TypeRule{"v": rules.Any()}}

	_, err := d.RegisterWithRule(str)(testutil.Const("A", "a", types.Untyped("v")))
	require.NoError(t, err)
	_, err = d.RegisterWithRule(anyRule)(testutil.Const("B", "b", types.Untyped("v")))
	require.NoError(t, err)
	_, err = d.RegisterDefault(testutil.Const("C", "c", types.Untyped("v")))
	require.NoError(t, err)

	tests := []struct {
		name string
		arg  any
		want string
	}{
		{"string goes to A", "x", "a"},
		{"int goes to B", 3, "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Dispatch(types.Args(tt.arg))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("default when no rule applies", func(t *testing.T) {
		d := dispatcher.New("fallback")
		_, err := d.RegisterWithRule(str)(testutil.Const("A", "a", types.Untyped("v")))
		require.NoError(t, err)
		_, err = d.RegisterDefault(testutil.Const("C", "c", types.Untyped("v")))
		require.NoError(t, err)

		got, err := d.Dispatch(types.Args(3))
		require.NoError(t, err)
		assert.Equal(t, "c", got)
	})
}

func TestNoMatch(t *testing.T) {
	d := dispatcher.New("strict")
	_, err := d.RegisterWithRule(rules.Rule{Types: rules.TypeRule{"x": rules.Of[int]()}})(
		types.MustAdapt("double", func(x int) int { return x * 2 }, "x"))
	require.NoError(t, err)

	_, err = d.Dispatch(types.Call{Args: []any{"no"}, Kwargs: map[string]any{"k": 1}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoMatch))

	details := errors.GetErrorDetails(err)
	assert.Equal(t, []any{"no"}, details["args"])
	assert.Equal(t, map[string]any{"k": 1}, details["kwargs"])
	assert.Contains(t, err.Error(), `"no", k=1`)
}

func TestValueRule(t *testing.T) {
	d := dispatcher.New("sign")
	negative := rules.Rule{
		Types: rules.TypeRule{"x": rules.Of[int]()},
		Value: func(args map[string]any) bool { return args["x"].(int) < 0 },
	}
	_, err := d.RegisterWithRule(negative)(types.MustAdapt("negate", func(x int) int { return -x }, "x"))
	require.NoError(t, err)
	_, err = d.RegisterDefault(types.MustAdapt("identity", func(x any) any { return x }, "x"))
	require.NoError(t, err)

	got, err := d.Dispatch(types.Args(-4))
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	got, err = d.Dispatch(types.Args(4))
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	got, err = d.Dispatch(types.Args("text"))
	require.NoError(t, err)
	assert.Equal(t, "text", got, "value rule is not consulted when the type check fails")
}

func TestNamedArgumentsDrivePredicates(t *testing.T) {
	d := newCalc(t)

	got, err := d.Dispatch(types.Call{Kwargs: map[string]any{"x": 21}})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestReRegistrationKeepsEarlierRules(t *testing.T) {
	d := dispatcher.New("rereg")
	isInt := rules.Rule{Types: rules.TypeRule{"v": rules.Of[int]()}}
	isString := rules.Rule{Types: rules.TypeRule{"v": rules.Of[string]()}}

	_, err := d.RegisterWithRule(isInt)(testutil.Const("h", "first", types.Untyped("v")))
	require.NoError(t, err)
	_, err = d.RegisterWithRule(isString)(testutil.Const("h", "second", types.Untyped("v")))
	require.NoError(t, err)

	byName, err := d.Get("h")
	require.NoError(t, err)
	got, err := byName.Invoke(1)
	require.NoError(t, err)
	assert.Equal(t, "second", got, "the name now maps to the latest registration")

	got, err = d.Dispatch(types.Args(1))
	require.NoError(t, err)
	assert.Equal(t, "first", got, "the earlier rule entry still routes")

	assert.Equal(t, []string{"h", "h"}, d.Describe().Rules)
}

func TestRegisterValidation(t *testing.T) {
	d := dispatcher.New("d")

	_, err := d.RegisterDefault(types.Handler{Name: "", Fn: func(types.Call) (any, error) { return nil, nil }})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = d.RegisterWithRule(rules.Rule{})(types.Handler{Name: "nofn"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	assert.Empty(t, d.HandlerNames())
}

func TestEntry(t *testing.T) {
	d := newCalc(t)

	e, err := d.Entry("double")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, e.ParamNames())

	_, err = d.Entry("nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	assert.Equal(t, []string{"add", "double"}, d.HandlerNames())
	assert.Equal(t, "add", d.DefaultName())
}
