package logger

import (
	"strings"

	"github.com/arthur-debert/switchboard/pkg/errors"
)

// Mode is a resolved logger configuration
type Mode struct {
	Enabled bool
	Print   bool
	Log     bool
	Before  bool
	After   bool
	Time    bool
}

const (
	flagPrint    = "print"
	flagLog      = "log"
	flagEnabled  = "enabled"
	flagDisabled = "disabled"
	flagBefore   = "before"
	flagAfter    = "after"
	flagTime     = "time"
)

type flagSet struct {
	set     map[string]bool
	cleared map[string]bool
}

func parseFlags(mode string) (flagSet, error) {
	fs := flagSet{set: map[string]bool{}, cleared: map[string]bool{}}
	for _, raw := range strings.Split(mode, ",") {
		flag := strings.ToLower(strings.TrimSpace(raw))
		if flag == "" {
			continue
		}
		negated := strings.HasPrefix(flag, "!")
		flag = strings.TrimPrefix(flag, "!")

		switch flag {
		case flagPrint, flagLog, flagEnabled, flagDisabled:
			if negated {
				return fs, errors.Newf(errors.ErrConfigValid, "flag %s cannot be negated", flag).
					WithDetail("mode", mode)
			}
		case flagBefore, flagAfter, flagTime:
		default:
			return fs, errors.Newf(errors.ErrConfigValid, "unknown logger flag %q", raw).
				WithDetail("mode", mode)
		}

		if negated {
			fs.cleared[flag] = true
		} else {
			fs.set[flag] = true
		}
	}

	if fs.set[flagPrint] && fs.set[flagLog] {
		return fs, errors.New(errors.ErrConfigValid, "mode cannot include both print and log").
			WithDetail("mode", mode)
	}
	if fs.set[flagEnabled] && fs.set[flagDisabled] {
		return fs, errors.New(errors.ErrConfigValid, "mode cannot include both enabled and disabled").
			WithDetail("mode", mode)
	}
	for flag := range fs.cleared {
		if fs.set[flag] {
			return fs, errors.Newf(errors.ErrConfigValid, "mode both sets and clears %s", flag).
				WithDetail("mode", mode)
		}
	}
	return fs, nil
}

// ParseMode parses a global mode string such as "print,after,time".
// Exactly one of print and log is required; enabled is the default; with
// no content flags both before and after are shown.
func ParseMode(mode string) (Mode, error) {
	fs, err := parseFlags(mode)
	if err != nil {
		return Mode{}, err
	}
	if !fs.set[flagPrint] && !fs.set[flagLog] {
		return Mode{}, errors.New(errors.ErrConfigValid, "mode must include print or log").
			WithDetail("mode", mode)
	}

	m := Mode{
		Enabled: !fs.set[flagDisabled],
		Print:   fs.set[flagPrint],
		Log:     fs.set[flagLog],
		Before:  fs.set[flagBefore],
		After:   fs.set[flagAfter],
		Time:    fs.set[flagTime],
	}
	if !m.Before && !m.After {
		m.Before, m.After = true, true
	}
	return m, nil
}

// ParseOverride parses a per-handler mode on top of base. Every axis the
// override does not mention keeps its value from base; "!flag" clears a
// content flag.
func ParseOverride(mode string, base Mode) (Mode, error) {
	fs, err := parseFlags(mode)
	if err != nil {
		return Mode{}, err
	}

	m := base
	switch {
	case fs.set[flagPrint]:
		m.Print, m.Log = true, false
	case fs.set[flagLog]:
		m.Print, m.Log = false, true
	}
	switch {
	case fs.set[flagEnabled]:
		m.Enabled = true
	case fs.set[flagDisabled]:
		m.Enabled = false
	}
	apply := func(flag string, field *bool) {
		if fs.set[flag] {
			*field = true
		}
		if fs.cleared[flag] {
			*field = false
		}
	}
	apply(flagBefore, &m.Before)
	apply(flagAfter, &m.After)
	apply(flagTime, &m.Time)
	return m, nil
}

// String renders m in canonical flag order
func (m Mode) String() string {
	flags := make([]string, 0, 5)
	if m.Print {
		flags = append(flags, flagPrint)
	} else {
		flags = append(flags, flagLog)
	}
	if m.Enabled {
		flags = append(flags, flagEnabled)
	} else {
		flags = append(flags, flagDisabled)
	}
	for _, f := range []struct {
		on   bool
		name string
	}{{m.Before, flagBefore}, {m.After, flagAfter}, {m.Time, flagTime}} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	return strings.Join(flags, ",")
}

// settings stores m in a plugin configuration map
func (m Mode) settings() map[string]any {
	return map[string]any{
		"enabled":     m.Enabled,
		"use_print":   m.Print,
		"use_log":     m.Log,
		"show_before": m.Before,
		"show_after":  m.After,
		"show_time":   m.Time,
	}
}

func modeFromSettings(s map[string]any) Mode {
	flag := func(k string) bool {
		v, _ := s[k].(bool)
		return v
	}
	return Mode{
		Enabled: flag("enabled"),
		Print:   flag("use_print"),
		Log:     flag("use_log"),
		Before:  flag("show_before"),
		After:   flag("show_after"),
		Time:    flag("show_time"),
	}
}
