package rules

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/switchboard/pkg/logging"
)

type matcherEntry[T any] struct {
	name      string
	predicate Predicate
	target    T
}

// Matcher holds predicates in insertion order and resolves a call to the
// target of the first predicate that accepts it
type Matcher[T any] struct {
	mu      sync.RWMutex
	entries []matcherEntry[T]
	logger  zerolog.Logger
}

// NewMatcher creates an empty matcher
func NewMatcher[T any]() *Matcher[T] {
	return &Matcher[T]{
		logger: logging.GetLogger("rules.matcher"),
	}
}

// Add appends a predicate. Entries are never replaced or removed.
func (m *Matcher[T]) Add(name string, predicate Predicate, target T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, matcherEntry[T]{name: name, predicate: predicate, target: target})
	m.logger.Debug().
		Str("handler", name).
		Int("position", len(m.entries)-1).
		Msg("Rule added")
}

// Match returns the target of the first accepting predicate
func (m *Matcher[T]) Match(args []any, kwargs map[string]any) (T, string, bool) {
	m.mu.RLock()
	entries := m.entries
	m.mu.RUnlock()

	for _, e := range entries {
		if e.predicate(args, kwargs) {
			m.logger.Trace().Str("handler", e.name).Msg("Rule matched")
			return e.target, e.name, true
		}
	}

	var zero T
	return zero, "", false
}

// Len returns the number of rules
func (m *Matcher[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Names returns the handler names of all rules in evaluation order
func (m *Matcher[T]) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.name
	}
	return names
}
