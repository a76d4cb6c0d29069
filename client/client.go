package client

import (
	"context"
	"time"

	"mini-jsonrpc/codec"
	"mini-jsonrpc/message"
	"mini-jsonrpc/middleware"
	"mini-jsonrpc/protocol"
	"mini-jsonrpc/transport"

	"github.com/pkg/errors"
)

// Config is the identity and credentials of one RPC peer.
type Config struct {
	Host      string
	Port      uint16
	User      string
	Password  string
	RequestID string // sent as the id of every request
}

// Endpoint returns the peer address.
func (c Config) Endpoint() protocol.Endpoint {
	return protocol.Endpoint{Host: c.Host, Port: c.Port}
}

// Client calls methods on a single JSON-RPC endpoint over HTTP.
//
// The configuration never changes after New, and every call builds its own
// envelope and opens its own connection, so a Client is safe for concurrent use.
type Client struct {
	cfg         Config
	timeout     time.Duration
	transport   transport.Transport
	codec       codec.Codec
	middlewares []middleware.Middleware
	invoke      middleware.Invoker
}

type Option func(*Client)

// WithTimeout bounds each HTTP exchange of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithCodec replaces the JSON codec.
func WithCodec(cdc codec.Codec) Option {
	return func(c *Client) {
		c.codec = cdc
	}
}

// WithMiddleware wraps every call; middlewares run in the order given.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, mws...)
	}
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.codec == nil {
		c.codec = codec.Default()
	}
	if c.transport == nil {
		c.transport = transport.NewHTTPTransport(c.timeout)
	}
	c.invoke = middleware.Chain(c.middlewares...)(c.roundTrip)
	return c
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// roundTrip is the innermost invoker: encode, send once, decode.
func (c *Client) roundTrip(ctx context.Context, req *message.Request) (*message.Response, error) {
	body, err := c.codec.Encode(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode request for '%s'", req.Method)
	}

	raw, err := c.transport.RoundTrip(ctx, &protocol.Call{
		Endpoint:      c.cfg.Endpoint(),
		Authorization: protocol.BasicAuth(c.cfg.User, c.cfg.Password),
		ContentType:   c.codec.ContentType(),
		Body:          body,
	})
	if err != nil {
		return nil, message.TransportError(err)
	}

	var resp message.Response
	if err := c.codec.Decode(raw, &resp); err != nil {
		return nil, message.FormatError(err)
	}
	if err := resp.Validate(); err != nil {
		return nil, message.FormatError(err)
	}
	return &resp, nil
}

// Invoke performs one call and returns the interpreted outcome. A peer error is
// reported as an OutcomeFailure with a nil error; err is only set for
// transport and format failures.
func (c *Client) Invoke(ctx context.Context, method string, params []any) (message.Outcome, error) {
	resp, err := c.invoke(ctx, message.NewRequest(c.cfg.RequestID, method, params))
	if err != nil {
		return message.Outcome{}, err
	}
	return resp.Outcome(), nil
}

// Call performs one call and decodes the result into reply.
//
// It reports whether the peer sent a value. A peer error is returned as a
// *message.RPCError. reply may be nil when the value is not needed.
func (c *Client) Call(ctx context.Context, method string, params []any, reply any) (bool, error) {
	outcome, err := c.Invoke(ctx, method, params)
	if err != nil {
		return false, err
	}

	switch outcome.Kind {
	case message.OutcomeFailure:
		return false, outcome.Err
	case message.OutcomeEmpty:
		return false, nil
	}

	if reply != nil {
		if err := c.codec.Decode(outcome.Value, reply); err != nil {
			return false, message.FormatError(errors.Wrapf(err, "failed to decode result of '%s'", method))
		}
	}
	return true, nil
}

// Call is the typed form of Client.Call. A nil pointer with a nil error means
// the peer returned no value.
func Call[T any](ctx context.Context, c *Client, method string, params ...any) (*T, error) {
	var value T
	ok, err := c.Call(ctx, method, params, &value)
	if err != nil || !ok {
		return nil, err
	}
	return &value, nil
}
