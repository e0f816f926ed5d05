package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haimult/pulse-survey-server/services"
)

type QuestionController struct {
	configs *services.SurveyConfigService
}

func NewQuestionController(configs *services.SurveyConfigService) *QuestionController {
	return &QuestionController{configs: configs}
}

type addQuestionsReq struct {
	AdminPassword string                   `json:"admin_password" binding:"required"`
	Questions     []services.QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// POST /api/builder/config/:customId/questions
func (ctl *QuestionController) AddQuestions(c *gin.Context) {
	var req addQuestionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	result, err := ctl.configs.AddQuestions(c.Param("customId"), req.Questions, req.AdminPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type importCSVReq struct {
	AdminPassword string `json:"admin_password" binding:"required"`
	CSVData       string `json:"csv_data" binding:"required"`
}

// POST /api/builder/config/:customId/import-csv
//
// Append-only by convention: rows are inserted as-is, with no
// order-based reconciliation against the stored set.
func (ctl *QuestionController) ImportCSV(c *gin.Context) {
	var req importCSVReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	result, err := ctl.configs.ImportQuestionsCSV(c.Param("customId"), req.CSVData, req.AdminPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
