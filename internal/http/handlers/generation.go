package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/force-backend/internal/http/response"
	"github.com/yungbote/force-backend/internal/services"
)

// GenerationHandler serves the three AI-backed endpoints.
type GenerationHandler struct {
	roleProfiles services.RoleProfileService
	growthPlans  services.GrowthPlanService
	mentalModels services.MentalModelService
}

func NewGenerationHandler(roleProfiles services.RoleProfileService, growthPlans services.GrowthPlanService, mentalModels services.MentalModelService) *GenerationHandler {
	return &GenerationHandler{roleProfiles: roleProfiles, growthPlans: growthPlans, mentalModels: mentalModels}
}

// POST /api/role-profile
// body: { "roleDescription": "..." }
func (h *GenerationHandler) RoleProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req struct {
		RoleDescription string `json:"roleDescription"`
	}
	if !bindJSON(c, "role_profile.generate", &req) {
		return
	}
	profile, err := h.roleProfiles.Generate(c.Request.Context(), p, req.RoleDescription)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

// POST /api/growth-plan
func (h *GenerationHandler) GrowthPlan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	items, err := h.growthPlans.Generate(c.Request.Context(), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"growthItems": items})
}

// POST /api/mental-models
// body: { "prompt": "..." }
func (h *GenerationHandler) MentalModels(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !bindJSON(c, "mental_models.coach", &req) {
		return
	}
	session, err := h.mentalModels.Coach(c.Request.Context(), p, req.Prompt)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, session)
}
