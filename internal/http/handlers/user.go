package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/force-backend/internal/http/response"
	"github.com/yungbote/force-backend/internal/services"
)

type UserHandler struct {
	userService   services.UserService
	avatarService services.AvatarService
}

func NewUserHandler(userService services.UserService, avatarService services.AvatarService) *UserHandler {
	return &UserHandler{userService: userService, avatarService: avatarService}
}

// POST /api/users
// body: { "email": "...", "name": "..." }
func (uh *UserHandler) Create(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if !bindJSON(c, "user.create", &req) {
		return
	}
	u, err := uh.userService.Create(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": u})
}

// GET /api/users/:id
func (uh *UserHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "user.get", "id")
	if !ok {
		return
	}
	u, err := uh.userService.Get(c.Request.Context(), p, id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// GET /api/users/me/avatar.png
func (uh *UserHandler) Avatar(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	me, err := uh.userService.Me(c.Request.Context(), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	png, err := uh.avatarService.Render(me.Name)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
