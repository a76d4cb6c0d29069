package middleware

import (
	"context"
	"time"

	"mini-jsonrpc/message"

	"github.com/pkg/errors"
)

type result struct {
	resp *message.Response
	err  error
}

// TimeOutMiddleware bounds each call by d. A call that runs past d fails with
// a transport error even if next does not watch its context.
func TimeOutMiddleware(d time.Duration) Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			done := make(chan result, 1)
			go func() {
				resp, err := next(ctx, req)
				done <- result{resp: resp, err: err}
			}()

			select {
			case r := <-done:
				return r.resp, r.err
			case <-ctx.Done():
				return nil, message.TransportError(errors.Wrap(ctx.Err(), "request timed out"))
			}
		}
	}
}
