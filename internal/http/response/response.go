package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/force-backend/internal/domain/apperr"
)

// StatusClientClosedRequest is nginx's non-standard code for a caller that
// went away before the answer was ready.
const StatusClientClosedRequest = 499

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func StatusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperr.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case apperr.CodeUpstreamAuth, apperr.CodeInvalidAIResponse:
		return http.StatusBadGateway
	case apperr.CodeRateLimited:
		return http.StatusTooManyRequests
	case apperr.CodeCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the envelope for err. Only the public message leaves
// the process; causes stay in the logs.
func RespondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(code), ErrorEnvelope{
		Error: APIError{
			Message: apperr.PublicMessage(err),
			Code:    string(code),
		},
	})
}

// BadRequest is for bodies that never reach a service.
func BadRequest(c *gin.Context, op, message string) {
	RespondError(c, apperr.New(apperr.CodeInvalidArgument, op, message))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
