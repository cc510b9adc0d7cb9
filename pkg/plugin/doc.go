// Package plugin defines the contract every dispatcher middleware
// implements and the pieces most plugins share.
//
// # Lifecycle
//
// A plugin attached to a dispatcher sees every handler registered after
// the attachment. For each registration the dispatcher calls OnDecorate
// on all plugins in attachment order, then folds WrapHandler over them in
// the same order, seeding the fold with the handler's original function.
// The last attached plugin therefore produces the outermost layer and
// runs first on every call.
//
// # Configuration
//
// Base keeps global settings plus per-handler overrides recorded with
// Configure("add,sub", settings). Config(handler) returns the global
// settings overlaid by that handler's overrides. Wrapping happens at
// registration, so configuration must be in place before the handlers it
// targets are registered.
//
// # Factories
//
// Plugins are discoverable by name through a Registry of factories. The
// package-level registry is filled by the init functions of the bundled
// plugin packages; tests and embedders can use their own Registry.
package plugin
