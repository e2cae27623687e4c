package alpaca

import (
	"errors"
	"fmt"
)

// Domain-specific errors for Alpaca operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectionFailure is returned for transport-level failures:
	// refused connections, DNS errors, connect or total timeouts.
	// Workers treat it as device-gone and terminate for recreation.
	ErrConnectionFailure = errors.New("alpaca: connection failure")

	// ErrBadRequest is returned for an HTTP 400 without a parseable
	// error envelope. Caller error, never retried.
	ErrBadRequest = errors.New("alpaca: bad request")

	// ErrServerFault is returned for an HTTP 500 without a parseable
	// error envelope, and for any response body that cannot be decoded.
	ErrServerFault = errors.New("alpaca: server fault")
)

// Well-known Alpaca error numbers (ASCOM reserved range 0x400-0x4FF).
const (
	ErrorNotImplemented       = 0x400 // 1024
	ErrorInvalidValue         = 0x401 // 1025
	ErrorValueNotSet          = 0x402 // 1026
	ErrorNotConnected         = 0x407 // 1031
	ErrorInvalidWhileParked   = 0x408 // 1032
	ErrorInvalidWhileSlaved   = 0x409 // 1033
	ErrorInvalidOperation     = 0x40B // 1035
	ErrorActionNotImplemented = 0x40C // 1036
)

// DeviceError is an in-band application error reported by the remote
// device driver through the response envelope.
//
// A DeviceError does not necessarily mean the device is unreachable:
// ErrorValueNotSet on a camera that has not exposed yet is routine.
// Only ErrorNotConnected is classified as connection loss.
type DeviceError struct {
	Code    int
	Message string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("alpaca: device error %d: %s", e.Code, e.Message)
}

// IsConnectionLoss reports whether err means the device is gone and its
// worker should publish offline availability and terminate.
//
// True for transport failures and for the ErrorNotConnected device error.
// Every other device error is a per-tick condition the worker survives.
func IsConnectionLoss(err error) bool {
	if errors.Is(err, ErrConnectionFailure) {
		return true
	}
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Code == ErrorNotConnected
	}
	return false
}
