package repository

import (
	"gorm.io/gorm"

	"github.com/haimult/pulse-survey-server/models"
)

// ConfigRepository is the persistence contract the configuration
// service consumes: create/find/update keyed by the uniquely
// constrained custom_id column.
type ConfigRepository interface {
	Create(cfg *models.SurveyConfig) error
	// FindByCustomID loads a config with its active questions in
	// display order.
	FindByCustomID(customID string) (*models.SurveyConfig, error)
	// FindAuth loads only what credential verification needs.
	FindAuth(customID string) (*models.SurveyConfig, error)
	Exists(customID string) (bool, error)
	UpdateByCustomID(customID string, updates map[string]interface{}) (*models.SurveyConfig, error)
	ListActive() ([]models.SurveyConfig, error)
}

type configRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Create(cfg *models.SurveyConfig) error {
	return translate(r.db.Create(cfg).Error)
}

func (r *configRepository) FindByCustomID(customID string) (*models.SurveyConfig, error) {
	var cfg models.SurveyConfig
	err := r.db.
		Where("custom_id = ?", customID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("question_order ASC, id ASC")
		}).
		First(&cfg).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

func (r *configRepository) FindAuth(customID string) (*models.SurveyConfig, error) {
	var cfg models.SurveyConfig
	err := r.db.
		Select("id, custom_id, admin_password, user_password, is_active").
		Where("custom_id = ?", customID).
		First(&cfg).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

func (r *configRepository) Exists(customID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SurveyConfig{}).
		Where("custom_id = ?", customID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *configRepository) UpdateByCustomID(customID string, updates map[string]interface{}) (*models.SurveyConfig, error) {
	res := r.db.Model(&models.SurveyConfig{}).
		Where("custom_id = ?", customID).
		Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByCustomID(customID)
}

func (r *configRepository) ListActive() ([]models.SurveyConfig, error) {
	var configs []models.SurveyConfig
	err := r.db.
		Select("id, custom_id, name, description, created_at, updated_at").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&configs).Error
	if err != nil {
		return nil, translate(err)
	}
	return configs, nil
}
