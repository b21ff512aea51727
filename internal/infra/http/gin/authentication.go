package ginserver

import (
	"errors"
	"log/slog"

	gin "github.com/gin-gonic/gin"

	"airbrb/internal/app/services/auth"
	domainauth "airbrb/internal/domain/auth"
)

const principalContextKey = "airbrb.principal"

type principal struct {
	ID    string
	Name  string
	Token string
}

// AuthMiddleware attaches the caller when the Authorization header resolves to a live
// session. Routes decide on their own whether an anonymous caller is acceptable.
type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := auth.NormalizeToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(principalContextKey, principal{
		ID:    string(resolved.User.ID),
		Name:  resolved.User.Name,
		Token: token,
	})
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

// callerID is empty for anonymous callers; the command and query buses reject those.
func callerID(c *gin.Context) string {
	p, _ := currentPrincipal(c)
	return p.ID
}
