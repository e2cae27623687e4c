// Package alpaca implements a client for the ASCOM Alpaca device protocol.
//
// Alpaca exposes astronomical instruments (telescopes, cameras, focusers,
// filter wheels, domes, rotators, safety monitors, switches) as a REST API.
// Every attribute of a device is a URL of the form:
//
//	<address>/<kind>/<number>/<attribute>
//
// where address is the server base (e.g. http://localhost:11111/api/v1),
// kind is the device type, and number is the device index on that server.
//
// # Sessions
//
// The protocol is stateful in a narrow sense: each client identifies itself
// with a random ClientID fixed at construction, and numbers its requests
// with a strictly increasing ClientTransactionID. The server uses both for
// ordering and log correlation. One Client is created per server endpoint
// and may be shared by every device behind it; the transaction counter is
// safe for concurrent use.
//
// # Errors
//
// Callers must branch on four failure kinds: ErrConnectionFailure for
// transport problems (retryable by recreating the worker), ErrBadRequest
// and ErrServerFault for HTTP-level 400/500 responses, and *DeviceError
// for in-band protocol errors. A response that carries a parseable error
// envelope is always surfaced as *DeviceError, regardless of the HTTP
// status it arrived with; the bare HTTP classification applies only when
// no envelope can be decoded. Use IsConnectionLoss to decide whether a
// failure means the device is gone or just unhappy.
package alpaca
