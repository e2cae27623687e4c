package alpaca

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Request timeouts. Exceeding either is a connection failure, never a hang.
const (
	// connectTimeout bounds TCP connection establishment.
	connectTimeout = 2 * time.Second

	// totalTimeout bounds the whole request including the response body.
	// Camera image arrays are large; everything else answers in milliseconds.
	totalTimeout = 30 * time.Second
)

// Device addresses one device on an Alpaca server.
//
// Address is the server base URL (e.g. http://localhost:11111/api/v1),
// Kind the protocol device type, Number the device index on that server.
type Device struct {
	Address string
	Kind    string
	Number  int
}

// URL builds the endpoint for one attribute of the device.
func (d Device) URL(attribute string) string {
	return strings.Join([]string{
		strings.TrimRight(d.Address, "/"),
		d.Kind,
		strconv.Itoa(d.Number),
		attribute,
	}, "/")
}

// Response is the standard Alpaca response envelope.
//
// Value carries the attribute value for GET requests and is decoded
// generically (bool, float64, string, []any or map[string]any).
type Response struct {
	Value               any    `json:"Value"`
	ClientTransactionID uint32 `json:"ClientTransactionID"`
	ServerTransactionID uint32 `json:"ServerTransactionID"`
	ErrorNumber         int    `json:"ErrorNumber"`
	ErrorMessage        string `json:"ErrorMessage"`
}

// Client is a stateful Alpaca protocol client.
//
// One Client serves one server endpoint and is shared by every device
// behind it. The ClientID is random and fixed for the client's lifetime;
// the transaction counter increases on every request, including failed
// ones, and is never reset.
//
// Thread Safety:
//   - All methods are safe for concurrent use; sibling device workers
//     routinely share one Client.
type Client struct {
	http        *http.Client
	clientID    uint32
	transaction atomic.Uint32
}

// NewClient creates an Alpaca client with a fresh random ClientID.
func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout: totalTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		clientID: uuid.New().ID(),
	}
}

// ClientID returns the random identifier sent with every request.
func (c *Client) ClientID() uint32 {
	return c.clientID
}

// nextTransaction increments the transaction counter and returns the new
// value. The first request of a client carries transaction id 1.
func (c *Client) nextTransaction() uint32 {
	return c.transaction.Add(1)
}

// sessionParams returns the ClientID/ClientTransactionID pair for one
// request. Calling it consumes a transaction id even if the request
// subsequently fails.
func (c *Client) sessionParams() url.Values {
	return url.Values{
		"ClientID":            {strconv.FormatUint(uint64(c.clientID), 10)},
		"ClientTransactionID": {strconv.FormatUint(uint64(c.nextTransaction()), 10)},
	}
}

// Get reads one attribute of a device and returns the envelope's Value.
//
// Parameters:
//   - ctx: Context for cancellation (worker shutdown)
//   - dev: Device addressing triple
//   - attribute: Attribute name, lower case (e.g. "rightascension")
//   - params: Optional extra query parameters, may be nil
//
// Returns:
//   - any: The decoded Value field
//   - error: ErrConnectionFailure, ErrBadRequest, ErrServerFault or
//     *DeviceError; context cancellation is passed through unwrapped
func (c *Client) Get(ctx context.Context, dev Device, attribute string, params url.Values) (any, error) {
	query := c.sessionParams()
	for key, values := range params {
		query[key] = values
	}

	endpoint := dev.URL(attribute) + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("alpaca: build request: %w", err)
	}

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return env.Value, nil
}

// Put writes one attribute of a device or invokes a device action.
//
// Parameters are sent form-encoded in the request body, as the protocol
// requires. Returns the full decoded envelope; most callers only care
// that the error is nil.
func (c *Client) Put(ctx context.Context, dev Device, attribute string, params url.Values) (*Response, error) {
	form := c.sessionParams()
	for key, values := range params {
		form[key] = values
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, dev.URL(attribute), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("alpaca: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// do executes the request and decodes the response envelope.
func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		// Pass cancellation through so workers can tell shutdown from loss.
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reading response: %v", ErrConnectionFailure, err)
	}

	return decodeResponse(resp.StatusCode, body)
}

// decodeResponse maps an HTTP response to the failure taxonomy.
//
// Precedence: a parseable envelope with a non-zero ErrorNumber always
// wins, even on HTTP 400/500 (drivers wrap device errors in 500s). The
// bare status classification applies only when no envelope is present.
func decodeResponse(status int, body []byte) (*Response, error) {
	var env Response
	parseErr := json.Unmarshal(body, &env)

	if parseErr == nil && env.ErrorNumber != 0 {
		return nil, &DeviceError{Code: env.ErrorNumber, Message: env.ErrorMessage}
	}

	switch {
	case status == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, strings.TrimSpace(string(body)))
	case status == http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %s", ErrServerFault, strings.TrimSpace(string(body)))
	case status != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrServerFault, status)
	case parseErr != nil:
		return nil, fmt.Errorf("%w: decoding response: %v", ErrServerFault, parseErr)
	}

	return &env, nil
}
