package middleware

import (
	"context"
	"errors"
	"strings"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/commands"
	"airbrb/internal/app/queries"
)

var ErrUnauthenticated = errors.New("authentication required")

// RequireActor rejects commands that act on behalf of a user but carry no user id.
func RequireActor() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if actor, ok := cmd.(commands.Actor); ok && strings.TrimSpace(actor.ActorID()) == "" {
				return nil, apperr.Access(ErrUnauthenticated)
			}
			return nextFn(ctx, cmd)
		})
	}
}

// RequireViewer is the query-side counterpart of RequireActor.
func RequireViewer() QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if viewer, ok := q.(queries.Viewer); ok && strings.TrimSpace(viewer.ViewerID()) == "" {
				return nil, apperr.Access(ErrUnauthenticated)
			}
			return nextFn(ctx, q)
		})
	}
}
