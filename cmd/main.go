package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	appconfig "github.com/haimult/pulse-survey-server/config"
	"github.com/haimult/pulse-survey-server/controllers"
	"github.com/haimult/pulse-survey-server/logger"
	"github.com/haimult/pulse-survey-server/repository"
	"github.com/haimult/pulse-survey-server/routes"
	"github.com/haimult/pulse-survey-server/services"
)

func main() {
	logger.Init()

	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := appconfig.ConnectDB(cfg); err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	db := appconfig.DB

	configRepo := repository.NewConfigRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	respondentRepo := repository.NewRespondentRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	configService := services.NewSurveyConfigService(configRepo, questionRepo, cfg.LegacySecret)
	responseService := services.NewResponseService(configService, respondentRepo, responseRepo)
	statsService := services.NewStatsService(responseRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	if err := r.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("set trusted proxies")
	}

	routes.SetupRoutes(r, routes.Controllers{
		Builder:   controllers.NewBuilderController(configService, cfg.JWTSecret),
		Question:  controllers.NewQuestionController(configService),
		Survey:    controllers.NewSurveyController(configService, responseService),
		Dashboard: controllers.NewDashboardController(statsService, configService),
		Export:    controllers.NewExportController(db, configService, responseRepo, cfg.Supabase),
	}, cfg.JWTSecret)

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// requestLogger emits one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
