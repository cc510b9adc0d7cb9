// Package dispatcher routes calls to named handlers.
//
// A Dispatcher keeps three views of its handlers: a name table used by
// Get, an ordered rule list used by the automatic resolver returned from
// MakeDispatcher, and an optional default handler the resolver falls back
// to. Every handler is wrapped by the attached plugins once, when it is
// registered; lookups and calls never re-wrap.
//
// # Registration
//
//	calc := dispatcher.New("calc")
//	calc.MustPlug("logging", plugin.WithSetting("mode", "print,after"))
//
//	calc.RegisterDefault(types.MustAdapt("add", func(a, b float64) float64 { return a + b }, "a", "b"))
//	calc.RegisterWithRule(rules.Rule{Types: rules.TypeRule{"x": rules.Of[int]()}})(
//		types.MustAdapt("double", func(x int) int { return x * 2 }, "x"))
//
//	add, _ := calc.Get("add")
//	add.Invoke(2, 3)                          // 5
//	calc.MakeDispatcher().Invoke(4)           // 8, the double rule matches
//	calc.MakeDispatcher().Invoke(1.5, 2.5)    // 4, falls back to add
//
// # Composition
//
// Dispatchers nest with AddChild and are addressed with dotted paths
// through Lookup ("text.upper"). A dispatcher can never become its own
// descendant.
//
// # Concurrency
//
// Registration tables are guarded, so calls against a dispatcher whose
// registrations are complete may run concurrently. Plugins and entry
// metadata are not synchronized; finish setup before calling.
package dispatcher
