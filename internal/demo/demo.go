// Package demo builds the calculator dispatcher used by the switchboard
// command: arithmetic handlers on the root and string handlers on a
// "text" child.
package demo

import (
	"strings"

	"github.com/arthur-debert/switchboard/pkg/config"
	"github.com/arthur-debert/switchboard/pkg/dispatcher"
	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/rules"
	"github.com/arthur-debert/switchboard/pkg/types"
)

// New builds the calculator from cfg. Configured plugins are attached to
// the calculator and to its text child before any handler is registered.
func New(cfg *config.Config, opts ...dispatcher.Option) (*dispatcher.Dispatcher, error) {
	calc, err := config.Build(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := registerCalc(calc); err != nil {
		return nil, err
	}

	text := dispatcher.New("text", opts...)
	if err := config.Apply(cfg, text); err != nil {
		return nil, err
	}
	if err := registerText(text); err != nil {
		return nil, err
	}
	if err := calc.AddChild(text, ""); err != nil {
		return nil, err
	}
	return calc, nil
}

func registerCalc(d *dispatcher.Dispatcher) error {
	if _, err := d.RegisterDefault(types.MustAdapt("add", func(a, b float64) float64 { return a + b }, "a", "b")); err != nil {
		return err
	}

	ints := rules.Rule{Types: rules.TypeRule{"x": rules.Of[int]()}}
	if _, err := d.RegisterWithRule(ints)(types.MustAdapt("double", func(x int) int { return x * 2 }, "x")); err != nil {
		return err
	}

	strs := rules.Rule{Types: rules.TypeRule{"name": rules.Of[string]()}}
	if _, err := d.RegisterWithRule(strs)(types.MustAdapt("greet", func(name string) string {
		return "hello, " + name
	}, "name")); err != nil {
		return err
	}

	for _, h := range []types.Handler{
		types.MustAdapt("sub", func(a, b float64) float64 { return a - b }, "a", "b"),
		types.MustAdapt("mul", func(a, b float64) float64 { return a * b }, "a", "b"),
		types.MustAdapt("div", divide, "a", "b"),
	} {
		if _, err := d.Register(h); err != nil {
			return err
		}
	}
	return nil
}

func divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errors.New(errors.ErrInvalidInput, "division by zero").
			WithDetail("field", "b")
	}
	return a / b, nil
}

func registerText(d *dispatcher.Dispatcher) error {
	repeat := types.MustAdapt("repeat", func(s string, n int) string { return strings.Repeat(s, n) }, "s", "n")
	repeat.Params[1] = repeat.Params[1].WithDefault(2)

	for _, h := range []types.Handler{
		types.MustAdapt("upper", strings.ToUpper, "s"),
		types.MustAdapt("lower", strings.ToLower, "s"),
		repeat,
	} {
		if _, err := d.Register(h); err != nil {
			return err
		}
	}
	return nil
}
