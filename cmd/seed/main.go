package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	appconfig "github.com/haimult/pulse-survey-server/config"
	"github.com/haimult/pulse-survey-server/logger"
	"github.com/haimult/pulse-survey-server/repository"
	"github.com/haimult/pulse-survey-server/services"
)

const defaultCustomID = "workplace-pulse"

var defaultQuestions = []services.QuestionInput{
	{Text: "I feel valued and recognized at work", Category: "Recognition", Order: 1},
	{Text: "The work environment is collaborative and positive", Category: "Environment", Order: 2},
	{Text: "I have clear opportunities for growth and development", Category: "Growth", Order: 3},
	{Text: "Communication between teams and managers is effective", Category: "Communication", Order: 4},
	{Text: "My work has purpose and contributes to company goals", Category: "Purpose", Order: 5},
	{Text: "The company promotes a healthy work-life balance", Category: "Balance", Order: 6},
	{Text: "I receive constructive and regular feedback on my performance", Category: "Feedback", Order: 7},
	{Text: "Leadership inspires and motivates me to do my best", Category: "Leadership", Order: 8},
	{Text: "I have enough autonomy to do my work", Category: "Autonomy", Order: 9},
	{Text: "I would recommend this company as a good place to work", Category: "Recommendation", Order: 10},
}

// Seeds the default workplace-pulse survey with its ten questions.
// Idempotent: an existing config is reused and its question set merged
// by order.
func main() {
	logger.Init()

	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := appconfig.ConnectDB(cfg); err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD is not set")
	}

	configRepo := repository.NewConfigRepository(appconfig.DB)
	questionRepo := repository.NewQuestionRepository(appconfig.DB)
	configService := services.NewSurveyConfigService(configRepo, questionRepo, cfg.LegacySecret)

	_, err = configService.CreateConfig(services.CreateConfigInput{
		CustomID:      defaultCustomID,
		Name:          "Workplace Pulse",
		Description:   "Baseline workplace climate survey",
		AdminPassword: adminPassword,
	})
	switch {
	case err == nil:
		log.Info().Str("custom_id", defaultCustomID).Msg("default config created")
	case errors.Is(err, services.ErrCustomIDTaken):
		log.Info().Str("custom_id", defaultCustomID).Msg("default config already present")
	default:
		log.Fatal().Err(err).Msg("create default config")
	}

	result, err := configService.AddQuestions(defaultCustomID, defaultQuestions, adminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("seed questions")
	}
	log.Info().Int("count", result.Count).Bool("updated", result.Updated).Msg("seed complete")
}
