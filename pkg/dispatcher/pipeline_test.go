package dispatcher_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/switchboard/pkg/dispatcher"
	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/testutil"
	"github.com/arthur-debert/switchboard/pkg/types"
)

func TestLastAttachedPluginIsOutermost(t *testing.T) {
	log := &testutil.CallLog{}
	d := dispatcher.New("api")
	require.NoError(t, d.Plug(testutil.NewRecorder("P1", log)))
	require.NoError(t, d.Plug(testutil.NewRecorder("P2", log)))

	_, err := d.Register(types.NewHandler("h", func(types.Call) (any, error) {
		log.Add("handler")
		return nil, nil
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"P1:decorate:h", "P2:decorate:h"}, log.Events(), "decorate runs in attachment order")
	log.Reset()

	h, err := d.Get("h")
	require.NoError(t, err)
	_, err = h(types.Call{})
	require.NoError(t, err)

	assert.Equal(t, []string{"P2:before", "P1:before", "handler", "P1:after", "P2:after"}, log.Events())
}

func TestPluginOnlyWrapsLaterRegistrations(t *testing.T) {
	log := &testutil.CallLog{}
	d := dispatcher.New("api")

	_, err := d.Register(testutil.Const("early", 1))
	require.NoError(t, err)
	require.NoError(t, d.Plug(testutil.NewRecorder("rec", log)))
	_, err = d.Register(testutil.Const("late", 2))
	require.NoError(t, err)

	early, _ := d.Get("early")
	late, _ := d.Get("late")
	log.Reset()

	_, _ = early(types.Call{})
	assert.Empty(t, log.Events())

	_, _ = late(types.Call{})
	assert.Equal(t, []string{"rec:before", "rec:after"}, log.Events())
}

func TestDecorateFailureAbortsRegistration(t *testing.T) {
	boom := stderrors.New("boom")
	wrapped := false
	d := dispatcher.New("api")
	require.NoError(t, d.Plug(&testutil.MockPlugin{
		NameValue: "strict",
		DecorateFunc: func(entry *types.Entry, _ plugin.Host) error {
			entry.Meta("strict")["seen"] = true
			return boom
		},
		WrapFunc: func(_ plugin.Host, _ *types.Entry, next types.Func) types.Func {
			wrapped = true
			return next
		},
	}))

	_, err := d.RegisterDefault(testutil.Const("h", 1))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginHook))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "strict", errors.GetErrorDetails(err)["plugin"])
	assert.False(t, wrapped, "no wrapping after a failed decorate")

	_, err = d.Get("h")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Empty(t, d.DefaultName())

	_, err = d.Dispatch(types.Call{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoMatch), "the default must not be installed")
}

func TestLaterDecorateFailureStopsEarlierHookEffects(t *testing.T) {
	log := &testutil.CallLog{}
	d := dispatcher.New("api")
	require.NoError(t, d.Plug(testutil.NewRecorder("first", log)))
	require.NoError(t, d.Plug(&testutil.MockPlugin{
		NameValue: "second",
		DecorateFunc: func(*types.Entry, plugin.Host) error {
			return errors.New(errors.ErrValidation, "nope")
		},
	}))

	_, err := d.Register(testutil.Const("h", 1))
	assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
	assert.Equal(t, []string{"first:decorate:h"}, log.Events())
	assert.Empty(t, d.HandlerNames())
}

func TestWrapperReceivesHostAndEntry(t *testing.T) {
	d := dispatcher.New("host")
	var hostName, entryName string
	require.NoError(t, d.Plug(&testutil.MockPlugin{
		WrapFunc: func(host plugin.Host, entry *types.Entry, next types.Func) types.Func {
			hostName, entryName = host.Name(), entry.Name()
			return func(call types.Call) (any, error) {
				v, err := next(call)
				return v.(int) + 1, err
			}
		},
	}))

	fn, err := d.Register(testutil.Const("seven", 7))
	require.NoError(t, err)

	got, err := fn(types.Call{})
	require.NoError(t, err)
	assert.Equal(t, 8, got)
	assert.Equal(t, "host", hostName)
	assert.Equal(t, "seven", entryName)
}

func TestNilWrapperIsRejected(t *testing.T) {
	d := dispatcher.New("api")
	require.NoError(t, d.Plug(&testutil.MockPlugin{
		WrapFunc: func(plugin.Host, *types.Entry, types.Func) types.Func { return nil },
	}))

	_, err := d.Register(testutil.Const("h", 1))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPlugin))
}

func TestMetadataExchangeBetweenPlugins(t *testing.T) {
	d := dispatcher.New("api")
	var seen types.Meta
	require.NoError(t, d.Plug(&testutil.MockPlugin{
		NameValue: "schema",
		DecorateFunc: func(entry *types.Entry, _ plugin.Host) error {
			entry.Meta("schema")["fields"] = []string{"x"}
			return nil
		},
	}))
	require.NoError(t, d.Plug(&testutil.MockPlugin{
		NameValue: "reader",
		DecorateFunc: func(entry *types.Entry, _ plugin.Host) error {
			seen = entry.PeekMeta("schema")
			_ = entry.PeekMeta("absent")
			return nil
		},
	}))

	_, err := d.Register(testutil.Const("h", 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, seen["fields"])
	e, err := d.Entry("h")
	require.NoError(t, err)
	assert.Equal(t, []string{"schema"}, e.Namespaces())
}

func TestPlugTargets(t *testing.T) {
	log := &testutil.CallLog{}
	factories := plugin.NewRegistry()
	require.NoError(t, factories.Register(plugin.Registration{Name: "recorder", Factory: testutil.RecorderFactory(log)}))

	t.Run("by registered name", func(t *testing.T) {
		d := dispatcher.New("d", dispatcher.WithFactories(factories))
		require.NoError(t, d.Plug("recorder"))
		require.NoError(t, d.Plug("recorder", plugin.WithName("second")))
		assert.Equal(t, []string{"recorder", "second"}, d.PluginNames())
	})

	t.Run("unknown name", func(t *testing.T) {
		d := dispatcher.New("d", dispatcher.WithFactories(factories))
		err := d.Plug("nope")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPlugin))
	})

	t.Run("factory value", func(t *testing.T) {
		d := dispatcher.New("d")
		require.NoError(t, d.Plug(testutil.RecorderFactory(log), plugin.WithName("f")))
		_, err := d.Plugin("f")
		assert.NoError(t, err)
	})

	t.Run("unnamed factory func literal", func(t *testing.T) {
		d := dispatcher.New("d")
		factory := func(name string, settings map[string]any) (plugin.Plugin, error) {
			return testutil.NewRecorder("literal", log), nil
		}
		require.NoError(t, d.Plug(factory))
		assert.Equal(t, []string{"literal"}, d.PluginNames())
	})

	t.Run("spec with overriding options", func(t *testing.T) {
		d := dispatcher.New("d")
		spec := plugin.NewSpec(testutil.RecorderFactory(log), plugin.WithName("spec"), plugin.WithSetting("a", 1))
		require.NoError(t, d.Plug(spec, plugin.WithName("renamed"), plugin.WithSetting("b", 2)))

		rec, err := dispatcher.PluginAs[*testutil.Recorder](d, "renamed")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 1, "b": 2}, rec.Settings())
		assert.Nil(t, spec.Settings["b"], "the caller's spec is not modified")
	})

	t.Run("instance with settings", func(t *testing.T) {
		d := dispatcher.New("d")
		rec := testutil.NewRecorder("inst", log)
		require.NoError(t, d.Plug(rec, plugin.WithSetting("mode", "x")))
		assert.Equal(t, "x", rec.Settings()["mode"])
	})

	t.Run("instance cannot be renamed", func(t *testing.T) {
		d := dispatcher.New("d")
		err := d.Plug(testutil.NewRecorder("inst", log), plugin.WithName("other"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("settings on a non configurable instance", func(t *testing.T) {
		d := dispatcher.New("d")
		err := d.Plug(&testutil.MockPlugin{}, plugin.WithSetting("a", 1))
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPlugin))
	})

	t.Run("invalid values", func(t *testing.T) {
		d := dispatcher.New("d")
		for _, target := range []any{nil, 42, struct{}{}} {
			err := d.Plug(target)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPlugin), "target %v", target)
		}
		assert.Empty(t, d.Plugins())
	})

	t.Run("duplicate plugin name", func(t *testing.T) {
		d := dispatcher.New("d")
		require.NoError(t, d.Plug(testutil.NewRecorder("same", log)))
		err := d.Plug(testutil.NewRecorder("same", log))
		assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateName))
	})

	t.Run("must plug panics", func(t *testing.T) {
		d := dispatcher.New("d")
		assert.Panics(t, func() { d.MustPlug(42) })
		assert.Same(t, d, d.MustPlug(testutil.NewRecorder("ok", log)))
	})
}

func TestPluginLookup(t *testing.T) {
	log := &testutil.CallLog{}
	d := dispatcher.New("d")
	rec := testutil.NewRecorder("rec", log)
	require.NoError(t, d.Plug(rec))

	p, err := d.Plugin("rec")
	require.NoError(t, err)
	assert.Same(t, rec, p)

	_, err = d.Plugin("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	_, err = dispatcher.PluginAs[*testutil.MockPlugin](d, "rec")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPlugin))

	require.Len(t, d.Plugins(), 1)
	assert.Same(t, rec, d.Plugins()[0])
}
