// Package types defines the values that flow through a dispatcher: the
// Call a handler receives, the Func every handler and plugin layer is
// expressed as, the declared Params of a Handler, and the Entry a
// dispatcher builds for each registration.
package types
