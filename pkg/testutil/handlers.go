package testutil

import (
	"github.com/arthur-debert/switchboard/pkg/types"
)

// Const declares a handler that ignores its arguments and returns v
func Const(name string, v any, params ...types.Param) types.Handler {
	return types.NewHandler(name, func(types.Call) (any, error) { return v, nil }, params...)
}

// Echo declares a handler that returns the Call it received
func Echo(name string, params ...types.Param) types.Handler {
	return types.NewHandler(name, func(call types.Call) (any, error) { return call, nil }, params...)
}

// Fail declares a handler that always returns err
func Fail(name string, err error, params ...types.Param) types.Handler {
	return types.NewHandler(name, func(types.Call) (any, error) { return nil, err }, params...)
}
