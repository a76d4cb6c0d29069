package client

import (
	"mini-jsonrpc/message"

	"github.com/pkg/errors"
)

var (
	// ErrTransport matches network and HTTP level failures.
	ErrTransport = message.ErrTransport
	// ErrResponseFormat matches responses that are not a valid JSON-RPC envelope.
	ErrResponseFormat = message.ErrResponseFormat
)

// RPCError is the error the peer reported.
type RPCError = message.RPCError

// IsRPCError returns the peer error carried by err, if any.
func IsRPCError(err error) (*RPCError, bool) {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr, true
	}
	return nil, false
}
