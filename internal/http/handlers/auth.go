package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/force-backend/internal/http/middleware"
	"github.com/yungbote/force-backend/internal/http/response"
	"github.com/yungbote/force-backend/internal/platform/logger"
	"github.com/yungbote/force-backend/internal/services"
)

type AuthHandler struct {
	log          *logger.Logger
	authService  services.AuthService
	userService  services.UserService
	cookieSecure bool
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, userService services.UserService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		log:          log.With("handler", "AuthHandler"),
		authService:  authService,
		userService:  userService,
		cookieSecure: cookieSecure,
	}
}

type googleLoginRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
}

// POST /api/auth/google
func (ah *AuthHandler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if !bindJSON(c, "auth.google_login", &req) {
		return
	}
	session, err := ah.authService.GoogleLogin(c.Request.Context(), req.Code, req.RedirectURI)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	ah.setSessionCookie(c, session.Token, ah.authService.SessionTTL())
	response.RespondOK(c, gin.H{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
		"user":      session.User,
	})
}

// POST /api/auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := ah.authService.Logout(c.Request.Context(), p); err != nil {
		response.RespondError(c, err)
		return
	}
	ah.setSessionCookie(c, "", -time.Second)
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/auth/me
func (ah *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	me, err := ah.userService.Me(c.Request.Context(), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": me})
}

// setSessionCookie writes the session cookie; a negative ttl expires it.
func (ah *AuthHandler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   ah.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
