package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/http/middleware"
	"github.com/yungbote/force-backend/internal/http/response"
)

// principal reads the caller set by the auth middleware and writes a 401
// when it is missing.
func principal(c *gin.Context) (types.Principal, bool) {
	p, ok := middleware.Principal(c)
	if !ok {
		response.RespondError(c, apperr.New(apperr.CodeUnauthenticated, "http", ""))
	}
	return p, ok
}

// bindJSON decodes the body or writes a 400.
func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, op, "request body must be valid JSON")
		return false
	}
	return true
}

func uuidParam(c *gin.Context, op, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, op, name+" must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
