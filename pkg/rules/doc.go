// Package rules compiles the guards that decide which handler a call is
// routed to.
//
// A rule has two optional halves: a TypeRule mapping parameter names to
// declared types, and a ValueRule inspecting the bound argument values.
// Both are evaluated against a projection of the call onto the handler's
// parameter names (positional values by index first, then named values
// for the names still unfilled).
//
// # Type rules
//
//	rules.TypeRule{
//		"x":    rules.Of[int](),
//		"name": rules.Union(rules.Of[string](), rules.Nil()),
//		"meta": rules.Any(),
//	}
//
// Names that are not parameters of the handler are ignored when the rule
// is compiled. A parameter absent from a particular call is not checked.
//
// # Rule priority
//
// A Matcher evaluates its predicates strictly in the order they were
// added. The first predicate that accepts the call wins; there are no
// priorities or specificity scores.
package rules
