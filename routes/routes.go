package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/haimult/pulse-survey-server/controllers"
	"github.com/haimult/pulse-survey-server/middleware"
)

type Controllers struct {
	Builder   *controllers.BuilderController
	Question  *controllers.QuestionController
	Survey    *controllers.SurveyController
	Dashboard *controllers.DashboardController
	Export    *controllers.ExportController
}

func SetupRoutes(r *gin.Engine, ctl Controllers, jwtSecret string) {
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	builder := api.Group("/builder")
	{
		builder.POST("/config", middleware.RateLimitConfigCreate(), ctl.Builder.CreateConfig)
		builder.GET("/config", ctl.Builder.ListConfigs)
		builder.GET("/config/:customId", ctl.Builder.GetConfig)
		builder.PUT("/config/:customId", ctl.Builder.UpdateConfig)
		builder.POST("/config/:customId/verify", middleware.RateLimitVerify(), ctl.Builder.VerifyPassword)
		builder.POST("/config/:customId/questions", ctl.Question.AddQuestions)
		builder.POST("/config/:customId/import-csv", ctl.Question.ImportCSV)
		builder.POST("/config/:customId/export", ctl.Export.StartExport)
		builder.GET("/suggest-id", ctl.Builder.SuggestID)
	}

	survey := api.Group("/survey")
	{
		survey.GET("/:customId", ctl.Survey.GetSurvey)
		survey.POST("/:customId/submit", ctl.Survey.Submit)
	}

	dashboard := api.Group("/dashboard", middleware.RequireAdminSession(jwtSecret))
	{
		dashboard.GET("/stats", ctl.Dashboard.Overall)
		dashboard.GET("/categories", ctl.Dashboard.Categories)
		dashboard.GET("/distribution", ctl.Dashboard.Distribution)
		dashboard.GET("/timeline", ctl.Dashboard.Timeline)
		dashboard.GET("/recent", ctl.Dashboard.Recent)
	}

	exports := api.Group("/exports", middleware.RequireAdminSession(jwtSecret))
	{
		exports.GET("/:jobId", ctl.Export.GetJob)
	}
}
