package observatory

import (
	"sort"

	"github.com/astrolive/core/internal/alpaca"
)

// Component is a node in the equipment tree. All concrete kinds implement
// it; the unexported method keeps the set closed to this package.
type Component interface {
	// SysID returns the absolute dotted system ID, e.g. "obs.tele.ccd".
	SysID() string

	// Kind returns the component kind.
	Kind() Kind

	// Parent returns the enclosing component, nil for the root.
	Parent() Component

	// Children returns the direct children ordered by local name.
	Children() []Component

	// Child returns the direct child with the given local name.
	Child(name string) (Component, bool)

	// Option looks a key up on this node and then on each ancestor in
	// turn. The second return reports whether any node carries the key;
	// absence is not an error.
	Option(key string) (any, bool)

	// LocalOption looks a key up on this node only.
	LocalOption(key string) (any, bool)

	base() *node
}

// node carries the tree bookkeeping shared by every kind.
type node struct {
	sysID    string
	kind     Kind
	parent   Component
	children map[string]Component
	options  map[string]any
	client   *alpaca.Client
}

func (n *node) base() *node       { return n }
func (n *node) SysID() string     { return n.sysID }
func (n *node) Kind() Kind        { return n.kind }
func (n *node) Parent() Component { return n.parent }

func (n *node) Children() []Component {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Component, 0, len(names))
	for _, name := range names {
		out = append(out, n.children[name])
	}
	return out
}

func (n *node) Child(name string) (Component, bool) {
	c, ok := n.children[name]
	return c, ok
}

func (n *node) LocalOption(key string) (any, bool) {
	v, ok := n.options[key]
	return v, ok
}

func (n *node) Option(key string) (any, bool) {
	if v, ok := n.options[key]; ok {
		return v, true
	}
	if n.parent == nil {
		return nil, false
	}
	return n.parent.Option(key)
}

// connector climbs to the nearest node that owns an alpaca client.
// Returns nil when no ancestor is configured with a protocol.
func (n *node) connector() *alpaca.Client {
	if n.client != nil {
		return n.client
	}
	if n.parent == nil {
		return nil
	}
	return n.parent.base().connector()
}

// Walk visits c and then, depth first, every descendant in child-name
// order.
func Walk(c Component, fn func(Component)) {
	fn(c)
	for _, child := range c.Children() {
		Walk(child, fn)
	}
}

// StringOption resolves key through the ancestor chain and coerces it to a
// string.
func StringOption(c Component, key string) (string, bool) {
	v, ok := c.Option(key)
	if !ok {
		return "", false
	}
	return asString(v)
}

// IntOption resolves key through the ancestor chain and coerces it to an
// int.
func IntOption(c Component, key string) (int, bool) {
	v, ok := c.Option(key)
	if !ok {
		return 0, false
	}
	return asInt(v)
}

// FloatOption resolves key through the ancestor chain and coerces it to a
// float64.
func FloatOption(c Component, key string) (float64, bool) {
	v, ok := c.Option(key)
	if !ok {
		return 0, false
	}
	return asFloat(v)
}

// BoolOption resolves key through the ancestor chain and coerces it to a
// bool.
func BoolOption(c Component, key string) (bool, bool) {
	v, ok := c.Option(key)
	if !ok {
		return false, false
	}
	return asBool(v)
}

// LocalString reads key on this node only, with a fallback.
func LocalString(c Component, key, fallback string) string {
	if v, ok := c.LocalOption(key); ok {
		if s, ok := asString(v); ok {
			return s
		}
	}
	return fallback
}

// LocalInt reads key on this node only, with a fallback.
func LocalInt(c Component, key string, fallback int) int {
	if v, ok := c.LocalOption(key); ok {
		if i, ok := asInt(v); ok {
			return i
		}
	}
	return fallback
}

// LocalBool reads key on this node only, with a fallback.
func LocalBool(c Component, key string, fallback bool) bool {
	if v, ok := c.LocalOption(key); ok {
		if b, ok := asBool(v); ok {
			return b
		}
	}
	return fallback
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}
