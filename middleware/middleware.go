package middleware

import (
	"context"

	"mini-jsonrpc/message"
)

// Invoker performs one call: it sends req and returns the decoded response envelope.
type Invoker func(ctx context.Context, req *message.Request) (*message.Response, error)

type Middleware func(next Invoker) Invoker

// Chain composes middlewares into one. The first one is the outermost: it
// sees the call first and the result last.
//
//	Chain(A, B, C)(invoker) == A(B(C(invoker)))
func Chain(middlewares ...Middleware) Middleware {
	return func(next Invoker) Invoker {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
