package middleware

import (
	"context"

	"mini-jsonrpc/message"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware allows r calls per second with bursts of up to burst.
// Calls wait for a token; a context that ends first fails the call as a
// transport error without sending anything.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next Invoker) Invoker {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, message.TransportError(errors.Wrap(err, "rate limit"))
			}
			return next(ctx, req)
		}
	}
}
