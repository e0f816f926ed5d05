package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haimult/pulse-survey-server/services"
)

// SurveyController is the public, unauthenticated surface respondents
// hit: survey view and submission.
type SurveyController struct {
	configs   *services.SurveyConfigService
	responses *services.ResponseService
}

func NewSurveyController(configs *services.SurveyConfigService, responses *services.ResponseService) *SurveyController {
	return &SurveyController{configs: configs, responses: responses}
}

// GET /api/survey/:customId
func (ctl *SurveyController) GetSurvey(c *gin.Context) {
	view, err := ctl.configs.GetByCustomID(c.Param("customId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !view.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"message": services.ErrInactive.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                view.ID,
		"custom_id":         view.CustomID,
		"name":              view.Name,
		"description":       view.Description,
		"primary_color":     view.PrimaryColor,
		"secondary_color":   view.SecondaryColor,
		"background_color":  view.BackgroundColor,
		"text_color":        view.TextColor,
		"accent_color":      view.AccentColor,
		"chart_type":        view.ChartType,
		"chart_colors":      view.ChartColors,
		"show_legend":       view.ShowLegend,
		"show_grid":         view.ShowGrid,
		"animation_enabled": view.AnimationEnabled,
		"questions":         view.Questions,
		// Tells the wizard to prompt; says nothing about the value.
		"requires_password": view.HasUserPassword,
	})
}

// POST /api/survey/:customId/submit
func (ctl *SurveyController) Submit(c *gin.Context) {
	var req services.SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	response, err := ctl.responses.Submit(c.Param("customId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":           response.ID,
		"total_score":  response.TotalScore,
		"completed_at": response.CompletedAt,
	})
}
