package middleware

import (
	"context"

	"airbrb/internal/app/commands"
	"airbrb/internal/app/outbox"
)

// OutboxFlush releases the events a command recorded once it succeeds, and drops them
// when it fails. It runs inside the transaction so staging stays per-command.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				if discarder, ok := box.(outbox.Discarder); ok {
					_ = discarder.Discard(ctx)
				}
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
