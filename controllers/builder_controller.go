package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haimult/pulse-survey-server/auth"
	"github.com/haimult/pulse-survey-server/services"
	"github.com/haimult/pulse-survey-server/utils"
)

// BuilderController exposes the survey-configuration lifecycle to the
// builder UI.
type BuilderController struct {
	configs   *services.SurveyConfigService
	jwtSecret string
}

func NewBuilderController(configs *services.SurveyConfigService, jwtSecret string) *BuilderController {
	return &BuilderController{configs: configs, jwtSecret: jwtSecret}
}

// POST /api/builder/config
func (ctl *BuilderController) CreateConfig(c *gin.Context) {
	var req services.CreateConfigInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	view, err := ctl.configs.CreateConfig(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GET /api/builder/config
func (ctl *BuilderController) ListConfigs(c *gin.Context) {
	summaries, err := ctl.configs.ListConfigs()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GET /api/builder/config/:customId
func (ctl *BuilderController) GetConfig(c *gin.Context) {
	view, err := ctl.configs.GetByCustomID(c.Param("customId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type updateConfigReq struct {
	services.UpdateConfigInput
	AdminPassword string `json:"admin_password" binding:"required"`
}

// PUT /api/builder/config/:customId
func (ctl *BuilderController) UpdateConfig(c *gin.Context) {
	var req updateConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	view, err := ctl.configs.UpdateConfig(c.Param("customId"), req.UpdateConfigInput, req.AdminPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type verifyReq struct {
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

// POST /api/builder/config/:customId/verify
//
// Verification failure is a plain {"valid": false}, never an error;
// a successful admin check additionally returns a session token for
// the dashboard and export surfaces.
func (ctl *BuilderController) VerifyPassword(c *gin.Context) {
	customID := c.Param("customId")

	var req verifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	tier := auth.TierRespondent
	if req.IsAdmin {
		tier = auth.TierAdmin
	}
	valid, err := ctl.configs.VerifyCredential(customID, req.Password, tier)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"valid": valid}
	if valid && tier == auth.TierAdmin {
		token, err := utils.GenerateSessionToken(customID, string(tier), ctl.jwtSecret)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["token"] = token
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/builder/suggest-id?name=...
func (ctl *BuilderController) SuggestID(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name query parameter is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"custom_id": auth.SuggestCustomID(name)})
}
