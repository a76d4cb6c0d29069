// Package protocol describes how one JSON-RPC call is framed on HTTP.
//
// Every call is a single POST to the root path of the peer:
//
//	POST / HTTP/1.1
//	Host: <host>:<port>
//	Content-Type: application/json
//	Authorization: Basic <base64(user:password)>
//	Connection: close
//
//	{"jsonrpc":"2.0","id":"<id>","method":"<method>","params":[...]}
//
// Connection: close asks both sides to tear the TCP connection down after the
// response, so no connection outlives the call that opened it.
package protocol

import (
	"bytes"
	"context"
	"encoding/base64"
	"net"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderConnection    = "Connection"
)

// Endpoint is the network identity of the peer.
type Endpoint struct {
	Host string
	Port uint16
}

// Addr returns host:port, bracketing IPv6 literals.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// URL returns the URL every call is posted to.
func (e Endpoint) URL() string {
	return "http://" + e.Addr() + "/"
}

// Call is one fully encoded request, ready to go on the wire.
type Call struct {
	Endpoint      Endpoint
	Authorization string
	ContentType   string
	Body          []byte
}

// BasicAuth returns the Authorization header value for user and password.
// It is computed fresh for every call.
func BasicAuth(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

// NewHTTPRequest builds the POST for call. The request is marked to close its
// connection once the response has been read.
func NewHTTPRequest(ctx context.Context, call *Call) (*http.Request, error) {
	if call.Endpoint.Host == "" {
		return nil, errors.New("endpoint host is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, call.Endpoint.URL(), bytes.NewReader(call.Body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build http request")
	}

	req.Host = call.Endpoint.Addr()
	req.Header.Set(HeaderContentType, call.ContentType)
	req.Header.Set(HeaderAuthorization, call.Authorization)
	req.Header.Set(HeaderConnection, "close")
	req.Close = true

	return req, nil
}
