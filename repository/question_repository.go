package repository

import (
	"gorm.io/gorm"

	"github.com/haimult/pulse-survey-server/models"
)

type QuestionRepository interface {
	// FindByConfig returns the stored questions for a config, order
	// column populated, cheapest projection.
	FindByConfig(configID uint) ([]models.CustomQuestion, error)
	CreateBatch(questions []models.CustomQuestion) error
	// UpdateByOrder rewrites text/category on the row holding the
	// given order. The order itself never changes here.
	UpdateByOrder(configID uint, order int, text, category string) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByConfig(configID uint) ([]models.CustomQuestion, error) {
	var questions []models.CustomQuestion
	err := r.db.
		Select("id, config_id, question_order").
		Where("config_id = ?", configID).
		Find(&questions).Error
	if err != nil {
		return nil, translate(err)
	}
	return questions, nil
}

func (r *questionRepository) CreateBatch(questions []models.CustomQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return translate(r.db.Create(&questions).Error)
}

func (r *questionRepository) UpdateByOrder(configID uint, order int, text, category string) error {
	return translate(r.db.Model(&models.CustomQuestion{}).
		Where("config_id = ? AND question_order = ?", configID, order).
		Updates(map[string]interface{}{"text": text, "category": category}).Error)
}
