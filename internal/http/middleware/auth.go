package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/http/response"
	"github.com/yungbote/force-backend/internal/platform/ctxutil"
	"github.com/yungbote/force-backend/internal/platform/logger"
)

// SessionCookie is the cookie set by the Google login handler.
const SessionCookie = "session"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (types.Principal, error)
}

type AuthMiddleware struct {
	log  *logger.Logger
	auth Authenticator
}

func NewAuthMiddleware(log *logger.Logger, auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), auth: auth}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.RespondError(c, apperr.New(apperr.CodeUnauthenticated, "auth.middleware", "missing session"))
			return
		}
		p, err := am.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			am.log.Debug("rejected session", "path", c.FullPath(), "error", err)
			response.RespondError(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// Principal returns the caller stored by RequireAuth.
func Principal(c *gin.Context) (types.Principal, bool) {
	return ctxutil.PrincipalFrom(c.Request.Context())
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
