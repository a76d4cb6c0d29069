// Package transport performs the HTTP exchange of a single JSON-RPC call.
//
// HTTPTransport opens one TCP connection per call and closes it once the body
// has been read:
//
//	Call ──POST──→ fresh TCP conn ──→ peer
//	     ←─body──  conn closed
//
// There is no pool and no background goroutine. Everything that goes wrong at
// this layer comes back classified as message.ErrTransport.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"mini-jsonrpc/message"
	"mini-jsonrpc/protocol"

	"github.com/pkg/errors"
)

// maxErrorBody bounds how much of a non-2xx body is kept on StatusError.
const maxErrorBody = 4 << 10

// Transport delivers an encoded call and returns the raw response body.
type Transport interface {
	RoundTrip(ctx context.Context, call *protocol.Call) ([]byte, error)
}

// StatusError reports a non-2xx HTTP status. The body is not interpreted.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte // at most maxErrorBody bytes
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected http status %s", e.Status)
}

// HTTPTransport posts calls with net/http. Keep-alive is disabled.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport. A zero timeout leaves the deadline to the context.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
	}
}

// RoundTrip sends exactly one request. It never retries.
func (t *HTTPTransport) RoundTrip(ctx context.Context, call *protocol.Call) ([]byte, error) {
	req, err := protocol.NewHTTPRequest(ctx, call)
	if err != nil {
		return nil, message.TransportError(err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, message.TransportError(errors.Wrapf(err, "post %s", call.Endpoint.Addr()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, message.TransportError(&StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, message.TransportError(errors.Wrap(err, "failed to read response body"))
	}

	return body, nil
}
