package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/haimult/pulse-survey-server/models"
)

type RespondentRepository interface {
	// UpsertByEmail finds or creates the respondent, refreshing the
	// display name when a non-empty one is supplied.
	UpsertByEmail(email, name string) (*models.Respondent, error)
}

type respondentRepository struct {
	db *gorm.DB
}

func NewRespondentRepository(db *gorm.DB) RespondentRepository {
	return &respondentRepository{db: db}
}

func (r *respondentRepository) UpsertByEmail(email, name string) (*models.Respondent, error) {
	var resp models.Respondent
	err := r.db.Where("email = ?", email).First(&resp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resp = models.Respondent{Email: email, Name: name}
		if err := r.db.Create(&resp).Error; err != nil {
			return nil, translate(err)
		}
		return &resp, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	if name != "" && name != resp.Name {
		if err := r.db.Model(&resp).Update("name", name).Error; err != nil {
			return nil, translate(err)
		}
		resp.Name = name
	}
	return &resp, nil
}

// ResponseRepository covers both the write path (submission) and the
// read projections the aggregation service needs. A nil configID
// means "across all configurations".
type ResponseRepository interface {
	Create(resp *models.SurveyResponse) error
	ListScores(configID *uint) ([]models.SurveyResponse, error)
	QuestionsWithScores(configID *uint) ([]models.CustomQuestion, error)
	CountDistinctRespondents(configID *uint) (int64, error)
	ListRecent(configID *uint, limit int) ([]models.SurveyResponse, error)
	ListForExport(configID uint, from, to *time.Time) ([]models.SurveyResponse, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(resp *models.SurveyResponse) error {
	// Nested QuestionResponses ride along in the same insert.
	return translate(r.db.Create(resp).Error)
}

func scopeConfig(q *gorm.DB, col string, configID *uint) *gorm.DB {
	if configID != nil {
		return q.Where(col+" = ?", *configID)
	}
	return q
}

func (r *responseRepository) ListScores(configID *uint) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	q := r.db.Model(&models.SurveyResponse{}).
		Select("id, config_id, respondent_id, total_score, completed_at")
	q = scopeConfig(q, "config_id", configID)
	if err := q.Find(&responses).Error; err != nil {
		return nil, translate(err)
	}
	return responses, nil
}

func (r *responseRepository) QuestionsWithScores(configID *uint) ([]models.CustomQuestion, error) {
	var questions []models.CustomQuestion
	q := r.db.Model(&models.CustomQuestion{}).Preload("Responses")
	q = scopeConfig(q, "config_id", configID)
	if err := q.Find(&questions).Error; err != nil {
		return nil, translate(err)
	}
	return questions, nil
}

func (r *responseRepository) CountDistinctRespondents(configID *uint) (int64, error) {
	var count int64
	q := r.db.Model(&models.SurveyResponse{}).
		Distinct("respondent_id")
	q = scopeConfig(q, "config_id", configID)
	if err := q.Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *responseRepository) ListRecent(configID *uint, limit int) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	q := r.db.Model(&models.SurveyResponse{}).
		Preload("Respondent").
		Preload("QuestionResponses").
		Order("completed_at DESC").
		Limit(limit)
	q = scopeConfig(q, "config_id", configID)
	if err := q.Find(&responses).Error; err != nil {
		return nil, translate(err)
	}
	return responses, nil
}

func (r *responseRepository) ListForExport(configID uint, from, to *time.Time) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	q := r.db.Model(&models.SurveyResponse{}).
		Preload("Respondent").
		Preload("QuestionResponses").
		Where("config_id = ?", configID).
		Order("completed_at ASC")
	if from != nil {
		q = q.Where("completed_at >= ?", from)
	}
	if to != nil {
		q = q.Where("completed_at <= ?", to)
	}
	if err := q.Find(&responses).Error; err != nil {
		return nil, translate(err)
	}
	return responses, nil
}
