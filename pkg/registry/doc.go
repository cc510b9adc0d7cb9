// Package registry provides a generic, thread-safe, insertion-ordered
// registry. Dispatchers keep their attached plugins and child links in
// one, and the plugin package keeps the process-wide factory table in
// another.
package registry
