package observatory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/astrolive/core/internal/alpaca"
)

// RootSysID is the system ID of the tree root. Absolute paths start here.
const RootSysID = "obs"

// alpacaProtocol is the only remote protocol the tree knows how to drive.
const alpacaProtocol = "alpaca"

// Observatory is the root of the equipment tree.
type Observatory struct {
	*node
}

// Build constructs the tree from the nested configuration mapping. The
// mapping's own keys become root options; entries under "components"
// describe children, each keyed by its local name. A child's kind comes
// from its "kind" option, defaulting to the local name.
//
// Parameters:
//   - options: nested mapping, typically config.ObservatoryConfig.TreeOptions()
//
// Returns:
//   - *Observatory: the constructed root
//   - error: ErrUnknownKind, ErrUnknownProtocol or ErrInvalidOptions
//     (wrapped with the offending system ID)
func Build(options map[string]any) (*Observatory, error) {
	root := &Observatory{node: &node{
		sysID:    RootSysID,
		kind:     KindObservatory,
		children: map[string]Component{},
	}}
	if err := setup(root, options); err != nil {
		return nil, err
	}
	return root, nil
}

// FriendlyName returns the root's display name.
func (o *Observatory) FriendlyName() string {
	return LocalString(o, "friendly_name", "Observatory")
}

// ResolveAbsolute returns the component at a dotted absolute path. The
// first segment must equal RootSysID.
func (o *Observatory) ResolveAbsolute(path string) (Component, error) {
	segments := strings.Split(path, ".")
	if segments[0] != o.sysID {
		return nil, fmt.Errorf("%w: %q", ErrNotObservatoryPath, path)
	}
	var current Component = o
	for _, segment := range segments[1:] {
		next, ok := current.Child(segment)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, path)
		}
		current = next
	}
	return current, nil
}

// setup copies options onto the node, creates its alpaca client when a
// protocol is declared, and recursively constructs children.
func setup(c Component, options map[string]any) error {
	n := c.base()
	n.options = make(map[string]any, len(options))
	for k, v := range options {
		n.options[k] = v
	}

	if raw, ok := n.options["protocol"]; ok {
		proto, _ := asString(raw)
		if proto != alpacaProtocol {
			return fmt.Errorf("%w: %v on %s", ErrUnknownProtocol, raw, n.sysID)
		}
		n.client = alpaca.NewClient()
	}

	childOptions := n.options["components"]
	delete(n.options, "components")
	if childOptions == nil {
		return nil
	}
	byName, ok := optionMap(childOptions)
	if !ok {
		return fmt.Errorf("%w: components of %s is not a mapping", ErrInvalidOptions, n.sysID)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		opts, ok := optionMap(byName[name])
		if !ok {
			return fmt.Errorf("%w: %s.%s is not a mapping", ErrInvalidOptions, n.sysID, name)
		}
		kindName := name
		if raw, ok := opts["kind"]; ok {
			s, ok := asString(raw)
			if !ok {
				return fmt.Errorf("%w: kind of %s.%s is not a string", ErrInvalidOptions, n.sysID, name)
			}
			kindName = s
		}
		kind, err := ParseKind(kindName)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", n.sysID, name, err)
		}
		if kind == KindObservatory {
			return fmt.Errorf("%w: nested observatory at %s.%s", ErrUnknownKind, n.sysID, name)
		}
		child := newComponent(kind, n.sysID+"."+name, c)
		n.children[name] = child
		if err := setup(child, opts); err != nil {
			return err
		}
	}
	return nil
}

// optionMap accepts the mapping shapes the YAML loader produces.
func optionMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string]map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = inner
		}
		return out, true
	}
	return nil, false
}

func newComponent(kind Kind, sysID string, parent Component) Component {
	n := &node{sysID: sysID, kind: kind, parent: parent, children: map[string]Component{}}
	switch kind {
	case KindTelescope:
		return &Telescope{device{n}}
	case KindCamera:
		return &Camera{device{n}}
	case KindCameraFile:
		return &CameraFile{n}
	case KindFocuser:
		return &Focuser{device{n}}
	case KindFilterWheel:
		return &FilterWheel{device{n}}
	case KindSwitch:
		return &Switch{device{n}}
	case KindDome:
		return &Dome{device{n}}
	case KindRotator:
		return &Rotator{device{n}}
	case KindSafetyMonitor:
		return &SafetyMonitor{device{n}}
	}
	// setup rejects unknown kinds before reaching here.
	panic("observatory: unreachable kind " + string(kind))
}
