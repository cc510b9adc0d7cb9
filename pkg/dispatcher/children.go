package dispatcher

import (
	"strings"

	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/types"
)

// AddChild links child below d under name, or under the child's own name
// when name is empty
func (d *Dispatcher) AddChild(child *Dispatcher, name string) error {
	if child == nil {
		return errors.New(errors.ErrInvalidInput, "cannot attach a nil dispatcher")
	}
	if name == "" {
		name = child.Name()
	}
	if child == d || child.contains(d) {
		return errors.Newf(errors.ErrSelfAttachment, "cannot attach %s to itself", child.Name()).
			WithDetail("parent", d.name).
			WithDetail("child", child.Name())
	}

	if err := d.children.Register(name, child); err != nil {
		if errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			return errors.Wrapf(err, errors.ErrDuplicateName, "%s already has a child named %s", d.name, name).
				WithDetail("child", name)
		}
		return err
	}

	d.logger.Debug().Str("child", name).Msg("Child attached")
	return nil
}

// contains reports whether target is linked anywhere below d
func (d *Dispatcher) contains(target *Dispatcher) bool {
	for _, c := range d.children.Items() {
		if c == target || c.contains(target) {
			return true
		}
	}
	return false
}

// GetChild returns the child linked as name
func (d *Dispatcher) GetChild(name string) (*Dispatcher, error) {
	child, err := d.children.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrNotFound, "%s has no child named %s", d.name, name).
			WithDetail("child", name)
	}
	return child, nil
}

// ChildNames lists link names in attachment order
func (d *Dispatcher) ChildNames() []string {
	return d.children.Names()
}

// Children returns the children keyed by link name
func (d *Dispatcher) Children() map[string]*Dispatcher {
	names := d.children.Names()
	out := make(map[string]*Dispatcher, len(names))
	for _, name := range names {
		if c, err := d.children.Get(name); err == nil {
			out[name] = c
		}
	}
	return out
}

// Lookup resolves a dotted path such as "text.upper": every segment but
// the last names a child, the last names a handler
func (d *Dispatcher) Lookup(path string) (types.Func, error) {
	segments := strings.Split(path, ".")
	current := d
	for _, seg := range segments[:len(segments)-1] {
		next, err := current.GetChild(seg)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot resolve %s", path)
		}
		current = next
	}
	return current.Get(segments[len(segments)-1])
}
