package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/switchboard/pkg/rules"
	"github.com/arthur-debert/switchboard/pkg/types"
)

func newDoubleEntry() *types.Entry {
	h := types.MustAdapt("double", func(x int) int { return x * 2 }, "x")
	return types.NewEntry(h, rules.Rule{Types: rules.TypeRule{"x": rules.Of[int](), "ghost": rules.Any()}})
}

func TestEntryAccessors(t *testing.T) {
	e := newDoubleEntry()

	assert.Equal(t, "double", e.Name())
	assert.Equal(t, []string{"x"}, e.ParamNames())
	require.Len(t, e.Checks(), 1, "checks for unknown parameters are dropped")
	assert.Equal(t, "x", e.Checks()[0].Param)

	got, err := e.Func().Invoke(4)
	require.NoError(t, err)
	assert.Equal(t, 8, got)

	pred := e.Predicate()
	assert.True(t, pred([]any{2}, nil))
	assert.False(t, pred([]any{"no"}, nil))
}

func TestEntryAccessorsReturnCopies(t *testing.T) {
	e := newDoubleEntry()

	names := e.ParamNames()
	names[0] = "changed"
	params := e.Params()
	params[0].Name = "changed"

	assert.Equal(t, []string{"x"}, e.ParamNames())
	assert.Equal(t, "x", e.Params()[0].Name)
}

func TestEntryMetadata(t *testing.T) {
	e := newDoubleEntry()

	t.Run("peek does not create", func(t *testing.T) {
		m := e.PeekMeta("validate")
		assert.Empty(t, m)
		m["leak"] = true
		assert.False(t, e.HasMeta("validate"))
		assert.Empty(t, e.PeekMeta("validate"))
	})

	t.Run("own namespace is created lazily and live", func(t *testing.T) {
		own := e.Meta("logger")
		assert.True(t, e.HasMeta("logger"))

		own["mode"] = "print"
		assert.Equal(t, "print", e.PeekMeta("logger")["mode"])

		e.Meta("logger")["after"] = true
		assert.Equal(t, true, own["after"])
	})

	t.Run("namespaces are listed sorted", func(t *testing.T) {
		e.Meta("metrics")
		assert.Equal(t, []string{"logger", "metrics"}, e.Namespaces())
	})
}
