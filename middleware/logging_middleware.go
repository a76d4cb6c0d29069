package middleware

import (
	"context"
	"time"

	"mini-jsonrpc/message"

	"github.com/rs/zerolog"
)

// LoggingMiddleware logs every call with its method, duration and outcome.
// Credentials and params are never logged.
func LoggingMiddleware(logger zerolog.Logger) Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				logger.Error().Err(err).
					Str("method", req.Method).
					Str("id", req.ID).
					Dur("duration", duration).
					Msg("rpc call failed")
				return resp, err
			}

			outcome := resp.Outcome()
			event := logger.Debug()
			if outcome.Kind == message.OutcomeFailure {
				event = logger.Warn().Int("code", outcome.Err.Code).Str("error", outcome.Err.Message)
			}
			event.Str("method", req.Method).
				Str("id", req.ID).
				Stringer("outcome", outcome.Kind).
				Dur("duration", duration).
				Msg("rpc call")
			return resp, nil
		}
	}
}
