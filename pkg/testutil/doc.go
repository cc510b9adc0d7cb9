// Package testutil provides helpers shared by the package tests:
// recording and scriptable plugins, handler builders, and file helpers
// for configuration tests.
package testutil
