package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/switchboard/pkg/errors"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want Mode
	}{
		{
			name: "print defaults to before and after",
			mode: "print",
			want: Mode{Enabled: true, Print: true, Before: true, After: true},
		},
		{
			name: "explicit content flags",
			mode: "print,after,time",
			want: Mode{Enabled: true, Print: true, After: true, Time: true},
		},
		{
			name: "time alone still shows before and after",
			mode: "log,time",
			want: Mode{Enabled: true, Log: true, Before: true, After: true, Time: true},
		},
		{
			name: "disabled",
			mode: "log,disabled",
			want: Mode{Log: true, Before: true, After: true},
		},
		{
			name: "blanks and case are ignored",
			mode: " Print , BEFORE ,",
			want: Mode{Enabled: true, Print: true, Before: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseModeErrors(t *testing.T) {
	tests := []struct {
		name string
		mode string
	}{
		{"no destination", "before,after"},
		{"both destinations", "print,log"},
		{"enabled and disabled", "print,enabled,disabled"},
		{"unknown flag", "print,loud"},
		{"negated destination", "!print"},
		{"set and cleared", "print,after,!after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMode(tt.mode)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		})
	}
}

func TestParseOverride(t *testing.T) {
	global, err := ParseMode("print,after,time")
	require.NoError(t, err)

	tests := []struct {
		name string
		mode string
		want Mode
	}{
		{
			name: "content flag adds to inherited ones",
			mode: "before",
			want: Mode{Enabled: true, Print: true, Before: true, After: true, Time: true},
		},
		{
			name: "destination switches",
			mode: "log",
			want: Mode{Enabled: true, Log: true, After: true, Time: true},
		},
		{
			name: "disable one handler",
			mode: "disabled",
			want: Mode{Print: true, After: true, Time: true},
		},
		{
			name: "clear a content flag",
			mode: "!time",
			want: Mode{Enabled: true, Print: true, After: true},
		},
		{
			name: "empty inherits everything",
			mode: "",
			want: global,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOverride(tt.mode, global)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("conflicts are rejected", func(t *testing.T) {
		_, err := ParseOverride("print,log", global)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})
}

func TestModeString(t *testing.T) {
	m, err := ParseMode("time,print,disabled,after")
	require.NoError(t, err)
	assert.Equal(t, "print,disabled,after,time", m.String())

	again, err := ParseMode(m.String())
	require.NoError(t, err)
	assert.Equal(t, m, again)
}
