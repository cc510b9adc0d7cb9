// Package config loads switchboard configuration and applies it to a
// dispatcher.
//
// Values are layered, later sources winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. a TOML or YAML file
//  3. SWITCHBOARD_* environment variables (SWITCHBOARD_LOG_VERBOSITY sets log.verbosity)
//
// A file lists the plugins to attach, in order:
//
//	name = "calc"
//
//	[[plugins]]
//	use = "logging"
//	settings = { mode = "print,after" }
//	handlers = { "add,sub" = { mode = "before" } }
//
// Apply must run before handlers are registered: plugins resolve their
// configuration when they wrap a handler.
package config
