package middleware

import (
	"context"
	"log/slog"
	"time"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/commands"
	"airbrb/internal/app/queries"
)

// Logging records every command with its key, actor and duration. Rejections by the
// caller's fault log at Info, other failures at Error.
func Logging(logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		if logger == nil {
			return next
		}
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			started := time.Now()
			res, err := nextFn(ctx, cmd)
			key, actor := commands.Describe(cmd)
			logOutcome(ctx, logger, "command", key, actor, time.Since(started), err)
			return res, err
		})
	}
}

// QueryLogging is Logging for the query bus; successful reads log at Debug.
func QueryLogging(logger *slog.Logger) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		if logger == nil {
			return next
		}
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			started := time.Now()
			res, err := nextFn(ctx, q)
			key, viewer := queries.Describe(q)
			logOutcome(ctx, logger, "query", key, viewer, time.Since(started), err)
			return res, err
		})
	}
}

func logOutcome(ctx context.Context, logger *slog.Logger, kind, key, caller string, took time.Duration, err error) {
	attrs := []any{kind, key, "caller_id", caller, "duration_ms", took.Milliseconds()}
	switch {
	case err == nil && kind == "query":
		logger.DebugContext(ctx, kind+" handled", attrs...)
	case err == nil:
		logger.InfoContext(ctx, kind+" handled", attrs...)
	case apperr.Classified(err):
		logger.InfoContext(ctx, kind+" rejected", append(attrs, "error", err)...)
	default:
		logger.ErrorContext(ctx, kind+" failed", append(attrs, "error", err)...)
	}
}
