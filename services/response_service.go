package services

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/haimult/pulse-survey-server/auth"
	"github.com/haimult/pulse-survey-server/models"
	"github.com/haimult/pulse-survey-server/repository"
)

const (
	anonymousEmail = "anon@local"
	anonymousName  = "Anonymous"
)

type AnswerInput struct {
	QuestionID uint `json:"question_id" binding:"required"`
	Score      *int `json:"score" binding:"required,min=0,max=3"`
}

type SubmitInput struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	UserPassword string        `json:"user_password"`
	Answers      []AnswerInput `json:"responses" binding:"required,min=1,dive"`
}

// ResponseService records respondent submissions against a survey
// configuration. Responses are write-once; nothing here mutates or
// deletes them.
type ResponseService struct {
	configs     *SurveyConfigService
	respondents repository.RespondentRepository
	responses   repository.ResponseRepository
}

func NewResponseService(configs *SurveyConfigService, respondents repository.RespondentRepository, responses repository.ResponseRepository) *ResponseService {
	return &ResponseService{configs: configs, respondents: respondents, responses: responses}
}

// Submit verifies the respondent gate when one is configured, upserts
// the respondent identity by e-mail (anonymous fallback), sums the
// per-question scores and stores the response with its score entries.
func (s *ResponseService) Submit(customID string, in SubmitInput) (*models.SurveyResponse, error) {
	cfg, err := s.configs.GetByCustomID(customID)
	if err != nil {
		return nil, err
	}
	if !cfg.IsActive {
		return nil, ErrInactive
	}

	if cfg.HasUserPassword {
		if in.UserPassword == "" {
			return nil, ErrUnauthorized
		}
		ok, err := s.configs.VerifyCredential(customID, in.UserPassword, auth.TierRespondent)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnauthorized
		}
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" {
		email, name = anonymousEmail, anonymousName
	} else if name == "" {
		name = "Participant"
	}
	respondent, err := s.respondents.UpsertByEmail(email, name)
	if err != nil {
		return nil, err
	}

	total := 0
	entries := make([]models.QuestionResponse, 0, len(in.Answers))
	for _, a := range in.Answers {
		total += *a.Score
		entries = append(entries, models.QuestionResponse{
			QuestionID: a.QuestionID,
			Score:      *a.Score,
		})
	}

	response := models.SurveyResponse{
		ConfigID:          cfg.ID,
		RespondentID:      respondent.ID,
		TotalScore:        total,
		QuestionResponses: entries,
	}
	if err := s.responses.Create(&response); err != nil {
		return nil, err
	}

	log.Info().
		Str("custom_id", customID).
		Uint("response_id", response.ID).
		Int("total_score", total).
		Msg("survey response recorded")
	return &response, nil
}
