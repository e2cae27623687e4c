package observatory

import "errors"

// Sentinel errors returned by tree construction, resolution and device
// operations. Callers match with errors.Is.
var (
	// ErrUnknownKind is returned when a component declares a kind outside
	// the supported set.
	ErrUnknownKind = errors.New("observatory: unknown component kind")

	// ErrUnknownProtocol is returned when a component declares a protocol
	// other than alpaca.
	ErrUnknownProtocol = errors.New("observatory: unknown protocol")

	// ErrInvalidOptions is returned when a component's options are not a
	// nested mapping.
	ErrInvalidOptions = errors.New("observatory: invalid component options")

	// ErrNotObservatoryPath is returned by ResolveAbsolute when the path
	// does not start at the root system ID.
	ErrNotObservatoryPath = errors.New("observatory: path does not start at the observatory root")

	// ErrComponentNotFound is returned by ResolveAbsolute when a path
	// segment names no child.
	ErrComponentNotFound = errors.New("observatory: component not found")

	// ErrNotConfigured is returned by device operations when no ancestor
	// provides an alpaca client and address.
	ErrNotConfigured = errors.New("observatory: component has no alpaca endpoint")

	// ErrUnexpectedValue is returned when a device answers with a value of
	// the wrong JSON type.
	ErrUnexpectedValue = errors.New("observatory: unexpected value type")

	// ErrNoFilterNames is returned by the filter wheel state when the
	// device reports an empty name list; publishers treat it as offline.
	ErrNoFilterNames = errors.New("observatory: filter wheel reports no filter names")

	// ErrInvalidCoordinates is returned when slew targets fall outside
	// equatorial bounds.
	ErrInvalidCoordinates = errors.New("observatory: coordinates out of range")
)
