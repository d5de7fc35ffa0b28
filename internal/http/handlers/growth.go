package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/force-backend/internal/http/response"
	"github.com/yungbote/force-backend/internal/services"
)

type GrowthHandler struct {
	growthPlans  services.GrowthPlanService
	mentalModels services.MentalModelService
	skills       services.SkillService
	reflections  services.ReflectionService
	progress     services.ProgressService
}

type GrowthHandlerDeps struct {
	GrowthPlans  services.GrowthPlanService
	MentalModels services.MentalModelService
	Skills       services.SkillService
	Reflections  services.ReflectionService
	Progress     services.ProgressService
}

func NewGrowthHandler(deps GrowthHandlerDeps) *GrowthHandler {
	return &GrowthHandler{
		growthPlans:  deps.GrowthPlans,
		mentalModels: deps.MentalModels,
		skills:       deps.Skills,
		reflections:  deps.Reflections,
		progress:     deps.Progress,
	}
}

// GET /api/growth-items
func (h *GrowthHandler) ListItems(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	items, err := h.growthPlans.List(c.Request.Context(), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"growthItems": items})
}

// PUT /api/growth-items/status   body: { "itemId": "...", "status": "..." }
// PUT /api/growth-items/:id/status body: { "status": "..." }
func (h *GrowthHandler) UpdateItemStatus(c *gin.Context) {
	const op = "growth_items.update_status"
	p, ok := principal(c)
	if !ok {
		return
	}
	var req struct {
		ItemID string `json:"itemId"`
		Status string `json:"status"`
	}
	if !bindJSON(c, op, &req) {
		return
	}
	raw := c.Param("id")
	if raw == "" {
		raw = req.ItemID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, op, "itemId must be a uuid")
		return
	}
	item, err := h.growthPlans.UpdateStatus(c.Request.Context(), p, id, req.Status)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, item)
}

// GET /api/mental-models
func (h *GrowthHandler) ListMentalModels(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	sessions, err := h.mentalModels.List(c.Request.Context(), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}

// GET /api/mental-models/:id
func (h *GrowthHandler) GetMentalModels(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "mental_models.get", "id")
	if !ok {
		return
	}
	session, err := h.mentalModels.Get(c.Request.Context(), p, id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, session)
}

// POST /api/mental-models/:id/journal
func (h *GrowthHandler) SaveMentalModelsToJournal(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "mental_models.journal", "id")
	if !ok {
		return
	}
	entry, err := h.mentalModels.SaveToJournal(c.Request.Context(), p, id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

// POST /api/skills
func (h *GrowthHandler) SaveSkill(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req struct {
		SkillID              string   `json:"skillId"`
		Area                 string   `json:"area"`
		Name                 string   `json:"name"`
		TargetLevel          int      `json:"targetLevel"`
		CurrentLevel         int      `json:"currentLevel"`
		Examples             *string  `json:"examples"`
		RecommendedResources []string `json:"recommendedResources"`
	}
	if !bindJSON(c, "skills.save", &req) {
		return
	}
	saved, err := h.skills.Save(c.Request.Context(), p, services.SkillAssessmentInput{
		SkillID:              req.SkillID,
		Area:                 req.Area,
		Name:                 req.Name,
		TargetLevel:          req.TargetLevel,
		CurrentLevel:         req.CurrentLevel,
		Examples:             req.Examples,
		RecommendedResources: req.RecommendedResources,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, saved)
}

// GET /api/skills
func (h *GrowthHandler) ListSkills(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	skills, err := h.skills.List(c.Request.Context(), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"skills": skills})
}

// POST /api/reflections
func (h *GrowthHandler) CreateReflection(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if !bindJSON(c, "reflections.create", &req) {
		return
	}
	entry, err := h.reflections.Create(c.Request.Context(), p, req.Content, req.Type)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

// GET /api/reflections?type=weekly_review
func (h *GrowthHandler) ListReflections(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	entries, err := h.reflections.List(c.Request.Context(), p, c.Query("type"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reflections": entries})
}

// GET /api/progress
func (h *GrowthHandler) Progress(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	summary, err := h.progress.Summary(c.Request.Context(), p)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, summary)
}
