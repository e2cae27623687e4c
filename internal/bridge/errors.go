package bridge

import "errors"

// Bridge errors.
var (
	// ErrMalformedCommand indicates an inbound command payload that could
	// not be decoded or lacks a required field.
	ErrMalformedCommand = errors.New("bridge: malformed command")

	// ErrUnknownComponent indicates a command addressed to a sys_id that
	// is not present in the equipment tree.
	ErrUnknownComponent = errors.New("bridge: unknown component")

	// ErrUnknownVerb indicates a command verb the target kind does not
	// support.
	ErrUnknownVerb = errors.New("bridge: unknown command verb")
)
