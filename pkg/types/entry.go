package types

import (
	"sort"

	"github.com/arthur-debert/switchboard/pkg/rules"
)

// Meta is one plugin's metadata namespace on an entry
type Meta map[string]any

// Entry is what a dispatcher records for one registration. Everything but
// the metadata container is fixed when the entry is created.
type Entry struct {
	name       string
	fn         Func
	params     []Param
	paramNames []string
	rule       rules.Rule
	checks     []rules.Check
	meta       map[string]Meta
}

// NewEntry builds the entry for h guarded by rule, compiling the rule's
// type half against the handler's parameter names
func NewEntry(h Handler, rule rules.Rule) *Entry {
	names := h.ParamNames()
	return &Entry{
		name:       h.Name,
		fn:         h.Fn,
		params:     append([]Param(nil), h.Params...),
		paramNames: names,
		rule:       rule,
		checks:     rules.Compile(rule.Types, names),
	}
}

// Name returns the handler name
func (e *Entry) Name() string { return e.name }

// Func returns the original, unwrapped function
func (e *Entry) Func() Func { return e.fn }

// Params returns a copy of the declared parameters
func (e *Entry) Params() []Param { return append([]Param(nil), e.params...) }

// ParamNames returns a copy of the declared parameter names
func (e *Entry) ParamNames() []string { return append([]string(nil), e.paramNames...) }

// Rule returns the rule the handler was registered with
func (e *Entry) Rule() rules.Rule { return e.rule }

// Checks returns the compiled type checks
func (e *Entry) Checks() []rules.Check { return append([]rules.Check(nil), e.checks...) }

// Predicate returns the routing predicate for this entry
func (e *Entry) Predicate() rules.Predicate {
	return rules.NewPredicate(e.paramNames, e.checks, e.rule.Value)
}

// Meta returns the namespace ns, creating it on first use. The returned
// map is live: later writes are visible to every later reader.
func (e *Entry) Meta(ns string) Meta {
	if e.meta == nil {
		e.meta = make(map[string]Meta)
	}
	m, ok := e.meta[ns]
	if !ok {
		m = make(Meta)
		e.meta[ns] = m
	}
	return m
}

// PeekMeta returns the namespace ns if it exists, or an empty map that is
// not stored on the entry
func (e *Entry) PeekMeta(ns string) Meta {
	if m, ok := e.meta[ns]; ok {
		return m
	}
	return Meta{}
}

// HasMeta reports whether namespace ns has been created
func (e *Entry) HasMeta(ns string) bool {
	_, ok := e.meta[ns]
	return ok
}

// Namespaces lists the created metadata namespaces, sorted
func (e *Entry) Namespaces() []string {
	names := make([]string, 0, len(e.meta))
	for ns := range e.meta {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}
