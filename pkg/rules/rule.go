package rules

import (
	"sort"
)

// TypeRule maps parameter names to declared types
type TypeRule map[string]Type

// ValueRule inspects the bound arguments of a call, keyed by parameter name
type ValueRule func(args map[string]any) bool

// Rule is the guard a handler is registered with
type Rule struct {
	Types TypeRule
	Value ValueRule
}

// IsZero reports whether the rule has neither a type nor a value part
func (r Rule) IsZero() bool {
	return len(r.Types) == 0 && r.Value == nil
}

// Check is one compiled type constraint, bound to a parameter position
type Check struct {
	Param string
	Index int
	Type  Type
}

// Predicate decides whether a call is routed to a handler
type Predicate func(args []any, kwargs map[string]any) bool

// Compile turns a TypeRule into checks ordered by parameter position.
// Names that are not in paramNames are dropped.
func Compile(rule TypeRule, paramNames []string) []Check {
	if len(rule) == 0 {
		return nil
	}

	position := make(map[string]int, len(paramNames))
	for i, name := range paramNames {
		position[name] = i
	}

	checks := make([]Check, 0, len(rule))
	for name, t := range rule {
		idx, ok := position[name]
		if !ok {
			continue
		}
		if t == nil {
			t = Any()
		}
		checks = append(checks, Check{Param: name, Index: idx, Type: t})
	}

	sort.Slice(checks, func(i, j int) bool { return checks[i].Index < checks[j].Index })
	return checks
}

// Project binds a call onto paramNames: positional values fill names by
// index, then named values fill the names still unfilled. Values that
// correspond to no parameter are left out.
func Project(paramNames []string, args []any, kwargs map[string]any) map[string]any {
	bound := make(map[string]any, len(paramNames))
	for i, name := range paramNames {
		if i < len(args) {
			bound[name] = args[i]
			continue
		}
		if v, ok := kwargs[name]; ok {
			bound[name] = v
		}
	}
	return bound
}

// NewPredicate combines compiled checks and an optional value rule. Every
// check whose parameter is present in the call must pass before the value
// rule is consulted.
func NewPredicate(paramNames []string, checks []Check, value ValueRule) Predicate {
	return func(args []any, kwargs map[string]any) bool {
		bound := Project(paramNames, args, kwargs)
		for _, c := range checks {
			v, ok := bound[c.Param]
			if !ok {
				continue
			}
			if !c.Type.Matches(v) {
				return false
			}
		}
		if value != nil {
			return value(bound)
		}
		return true
	}
}
