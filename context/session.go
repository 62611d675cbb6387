package context

import (
	"context"

	"github.com/rahul4469/area-analyzer/internal/models"
)

type contextkey string

const (
	sessionKey contextkey = "session"
)

// ContextSetSession binds the browser session to ctx.
func ContextSetSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// ContextGetSession retrieves the browser session from request context.
// Returns nil if no session is set.
func ContextGetSession(ctx context.Context) *models.Session {
	val := ctx.Value(sessionKey)
	session, ok := val.(*models.Session)
	if !ok {
		return nil
	}
	return session
}
