package dispatcher

// Description is a point-in-time snapshot of a dispatcher tree
type Description struct {
	Name     string                 `json:"name" yaml:"name" toml:"name"`
	Handlers []string               `json:"handlers" yaml:"handlers" toml:"handlers"`
	Default  string                 `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Rules    []string               `json:"rules" yaml:"rules" toml:"rules"`
	Plugins  []string               `json:"plugins" yaml:"plugins" toml:"plugins"`
	Children map[string]Description `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// RuleCount returns the number of rule-list entries
func (desc Description) RuleCount() int { return len(desc.Rules) }

// Describe snapshots d and its children. Rules lists the handler names
// of rule entries in evaluation order.
func (d *Dispatcher) Describe() Description {
	desc := Description{
		Name:     d.name,
		Handlers: d.HandlerNames(),
		Default:  d.DefaultName(),
		Rules:    d.rules.Names(),
		Plugins:  d.PluginNames(),
	}
	names := d.ChildNames()
	if len(names) > 0 {
		desc.Children = make(map[string]Description, len(names))
		for name, child := range d.Children() {
			desc.Children[name] = child.Describe()
		}
	}
	return desc
}
