package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/haimult/pulse-survey-server/auth"
	"github.com/haimult/pulse-survey-server/models"
	"github.com/haimult/pulse-survey-server/repository"
)

var defaultChartColors = []string{"#3b82f6", "#8b5cf6", "#10b981", "#f59e0b", "#ef4444"}

type CreateConfigInput struct {
	CustomID        string   `json:"custom_id" binding:"required"`
	Name            string   `json:"name" binding:"required,min=1"`
	Description     string   `json:"description"`
	PrimaryColor    string   `json:"primary_color"`
	SecondaryColor  string   `json:"secondary_color"`
	BackgroundColor string   `json:"background_color"`
	TextColor       string   `json:"text_color"`
	AccentColor     string   `json:"accent_color"`
	ChartType       string   `json:"chart_type"`
	ChartColors     []string `json:"chart_colors"`
	ShowLegend      *bool    `json:"show_legend"`
	ShowGrid        *bool    `json:"show_grid"`
	AnimationEnabled *bool   `json:"animation_enabled"`
	UserPassword    string   `json:"user_password"`
	AdminPassword   string   `json:"admin_password" binding:"required"`
	CreatedBy       *string  `json:"created_by"`
}

type UpdateConfigInput struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	PrimaryColor    *string   `json:"primary_color"`
	SecondaryColor  *string   `json:"secondary_color"`
	BackgroundColor *string   `json:"background_color"`
	TextColor       *string   `json:"text_color"`
	AccentColor     *string   `json:"accent_color"`
	ChartType       *string   `json:"chart_type"`
	ChartColors     *[]string `json:"chart_colors"`
	ShowLegend      *bool     `json:"show_legend"`
	ShowGrid        *bool     `json:"show_grid"`
	AnimationEnabled *bool    `json:"animation_enabled"`
	UserPassword    *string   `json:"user_password"`
	IsActive        *bool     `json:"is_active"`
}

// ConfigView is what leaves the service: both credential hashes
// stripped, the respondent password reduced to a present/absent flag.
type ConfigView struct {
	ID              uint                    `json:"id"`
	CustomID        string                  `json:"custom_id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	PrimaryColor    string                  `json:"primary_color"`
	SecondaryColor  string                  `json:"secondary_color"`
	BackgroundColor string                  `json:"background_color"`
	TextColor       string                  `json:"text_color"`
	AccentColor     string                  `json:"accent_color"`
	ChartType       string                  `json:"chart_type"`
	ChartColors     []string                `json:"chart_colors"`
	ShowLegend      bool                    `json:"show_legend"`
	ShowGrid        bool                    `json:"show_grid"`
	AnimationEnabled bool                   `json:"animation_enabled"`
	IsActive        bool                    `json:"is_active"`
	HasUserPassword bool                    `json:"has_user_password"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Questions       []models.CustomQuestion `json:"questions"`
}

type ConfigSummary struct {
	ID          uint      `json:"id"`
	CustomID    string    `json:"custom_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type QuestionInput struct {
	Text     string `json:"text" binding:"required"`
	Category string `json:"category" binding:"required"`
	Order    int    `json:"order"`
}

// ReconcileResult reports a merge: Count rows touched, Updated true
// when at least one existing row was rewritten rather than inserted.
type ReconcileResult struct {
	Count   int  `json:"count"`
	Updated bool `json:"updated"`
}

type ImportResult struct {
	Count int `json:"count"`
}

// SurveyConfigService owns the configuration lifecycle: validated
// creation, slug lookup with the legacy-hash fallback, authenticated
// mutation and question-set reconciliation.
type SurveyConfigService struct {
	configs      repository.ConfigRepository
	questions    repository.QuestionRepository
	legacySecret string
}

func NewSurveyConfigService(configs repository.ConfigRepository, questions repository.QuestionRepository, legacySecret string) *SurveyConfigService {
	return &SurveyConfigService{configs: configs, questions: questions, legacySecret: legacySecret}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// CreateConfig validates the slug and both credentials, hashes the
// passwords per tier and persists the record with the slug stored in
// cleartext. New records never use the legacy hashed-identifier
// scheme.
func (s *SurveyConfigService) CreateConfig(in CreateConfigInput) (*ConfigView, error) {
	if !auth.IsValidCustomID(in.CustomID) {
		return nil, ErrInvalidCustomID
	}

	// Read-then-write: the window between this check and the insert
	// is closed by the unique index, surfaced as ErrDuplicateKey.
	exists, err := s.configs.Exists(in.CustomID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCustomIDTaken
	}

	if err := auth.ValidatePassword(in.AdminPassword, auth.TierAdmin); err != nil {
		return nil, err
	}
	if in.UserPassword != "" {
		if err := auth.ValidatePassword(in.UserPassword, auth.TierRespondent); err != nil {
			return nil, err
		}
	}

	adminHash, err := auth.HashPassword(in.AdminPassword, auth.TierAdmin)
	if err != nil {
		return nil, err
	}
	var userHash *string
	if in.UserPassword != "" {
		h, err := auth.HashPassword(in.UserPassword, auth.TierRespondent)
		if err != nil {
			return nil, err
		}
		userHash = &h
	}

	colors := in.ChartColors
	if len(colors) == 0 {
		colors = defaultChartColors
	}
	colorsJSON, err := json.Marshal(colors)
	if err != nil {
		return nil, err
	}

	cfg := models.SurveyConfig{
		CustomID:        in.CustomID,
		Name:            in.Name,
		Description:     in.Description,
		PrimaryColor:    orDefault(in.PrimaryColor, "#3b82f6"),
		SecondaryColor:  orDefault(in.SecondaryColor, "#8b5cf6"),
		BackgroundColor: orDefault(in.BackgroundColor, "#ffffff"),
		TextColor:       orDefault(in.TextColor, "#1f2937"),
		AccentColor:     orDefault(in.AccentColor, "#10b981"),
		ChartType:       orDefault(in.ChartType, "bar"),
		ChartColorsJSON: string(colorsJSON),
		ShowLegend:      boolOr(in.ShowLegend, true),
		ShowGrid:        boolOr(in.ShowGrid, true),
		AnimationEnabled: boolOr(in.AnimationEnabled, true),
		AdminPassword:   adminHash,
		UserPassword:    userHash,
		IsActive:        true,
		CreatedBy:       in.CreatedBy,
	}

	if err := s.configs.Create(&cfg); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrCustomIDTaken
		}
		return nil, err
	}

	log.Info().Str("custom_id", cfg.CustomID).Msg("survey config created")
	return s.view(&cfg, cfg.CustomID), nil
}

// GetByCustomID looks the slug up directly first and falls back to
// its legacy lookup key, so records created under the old
// hashed-identifier scheme stay reachable. The returned view always
// carries the slug the caller asked with.
func (s *SurveyConfigService) GetByCustomID(customID string) (*ConfigView, error) {
	cfg, err := s.configs.FindByCustomID(customID)
	if errors.Is(err, repository.ErrNotFound) {
		// Legacy compatibility shim; drop once old records are migrated.
		cfg, err = s.configs.FindByCustomID(auth.LegacyLookupKey(customID, s.legacySecret))
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.view(cfg, customID), nil
}

// VerifyCredential reports whether the password matches the stored
// hash for the tier. A missing config or unset credential verifies as
// false, not as an error.
func (s *SurveyConfigService) VerifyCredential(customID, password string, tier auth.Tier) (bool, error) {
	if tier == auth.TierAdmin {
		// Verify-side trim only; creation hashes the password as
		// supplied. Observed behavior, kept on purpose.
		password = strings.TrimSpace(password)
	}

	cfg, err := s.configs.FindAuth(customID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var hash string
	switch tier {
	case auth.TierAdmin:
		hash = cfg.AdminPassword
	default:
		if cfg.UserPassword == nil {
			return false, nil
		}
		hash = *cfg.UserPassword
	}
	if hash == "" {
		return false, nil
	}
	return auth.VerifyPassword(password, hash, tier), nil
}

// authenticate gates the mutating operations. All failure modes
// collapse into ErrUnauthorized so callers cannot probe existence.
func (s *SurveyConfigService) authenticate(customID, adminPassword string) (*models.SurveyConfig, error) {
	cfg, err := s.configs.FindAuth(customID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(strings.TrimSpace(adminPassword), cfg.AdminPassword, auth.TierAdmin) {
		return nil, ErrUnauthorized
	}
	return cfg, nil
}

// UpdateConfig applies only the fields present in the payload.
// Omitted fields keep their stored values; the slug is immutable and
// has no update path at all.
func (s *SurveyConfigService) UpdateConfig(customID string, in UpdateConfigInput, adminPassword string) (*ConfigView, error) {
	if _, err := s.authenticate(customID, adminPassword); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.PrimaryColor != nil {
		updates["primary_color"] = *in.PrimaryColor
	}
	if in.SecondaryColor != nil {
		updates["secondary_color"] = *in.SecondaryColor
	}
	if in.BackgroundColor != nil {
		updates["background_color"] = *in.BackgroundColor
	}
	if in.TextColor != nil {
		updates["text_color"] = *in.TextColor
	}
	if in.AccentColor != nil {
		updates["accent_color"] = *in.AccentColor
	}
	if in.ChartType != nil {
		updates["chart_type"] = *in.ChartType
	}
	if in.ChartColors != nil {
		colorsJSON, err := json.Marshal(*in.ChartColors)
		if err != nil {
			return nil, err
		}
		updates["chart_colors"] = string(colorsJSON)
	}
	if in.ShowLegend != nil {
		updates["show_legend"] = *in.ShowLegend
	}
	if in.ShowGrid != nil {
		updates["show_grid"] = *in.ShowGrid
	}
	if in.AnimationEnabled != nil {
		updates["animation_enabled"] = *in.AnimationEnabled
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.UserPassword != nil {
		if err := auth.ValidatePassword(*in.UserPassword, auth.TierRespondent); err != nil {
			return nil, err
		}
		h, err := auth.HashPassword(*in.UserPassword, auth.TierRespondent)
		if err != nil {
			return nil, err
		}
		updates["user_password"] = h
	}

	if len(updates) == 0 {
		cfg, err := s.configs.FindByCustomID(customID)
		if err != nil {
			return nil, err
		}
		return s.view(cfg, customID), nil
	}

	cfg, err := s.configs.UpdateByCustomID(customID, updates)
	if err != nil {
		return nil, err
	}
	return s.view(cfg, customID), nil
}

// ListConfigs returns the minimal projection of every active config,
// newest first. No credentials, no questions.
func (s *SurveyConfigService) ListConfigs() ([]ConfigSummary, error) {
	configs, err := s.configs.ListActive()
	if err != nil {
		return nil, err
	}
	summaries := make([]ConfigSummary, 0, len(configs))
	if err := copier.Copy(&summaries, &configs); err != nil {
		return nil, err
	}
	return summaries, nil
}

// AddQuestions merges an incoming batch into the stored question set,
// treating order as the natural key: new orders insert, existing
// orders update text/category in place. Mixed batches are fine; the
// read/partition/write sequence is not atomic, which is acceptable
// for a low-frequency administrative operation.
func (s *SurveyConfigService) AddQuestions(customID string, incoming []QuestionInput, adminPassword string) (*ReconcileResult, error) {
	cfg, err := s.authenticate(customID, adminPassword)
	if err != nil {
		return nil, err
	}

	// Caller-input integrity check, before any storage access.
	seen := make(map[int]bool, len(incoming))
	var duplicates []int
	for _, q := range incoming {
		if seen[q.Order] {
			duplicates = append(duplicates, q.Order)
		}
		seen[q.Order] = true
	}
	if len(duplicates) > 0 {
		return nil, &DuplicateOrderError{Orders: duplicates}
	}

	existing, err := s.questions.FindByConfig(cfg.ID)
	if err != nil {
		return nil, err
	}
	existingOrders := make(map[int]bool, len(existing))
	for _, q := range existing {
		existingOrders[q.Order] = true
	}

	var inserts []models.CustomQuestion
	var updates []QuestionInput
	for _, q := range incoming {
		if existingOrders[q.Order] {
			updates = append(updates, q)
		} else {
			inserts = append(inserts, models.CustomQuestion{
				ConfigID: cfg.ID,
				Text:     q.Text,
				Category: q.Category,
				Order:    q.Order,
				IsActive: true,
			})
		}
	}

	if err := s.questions.CreateBatch(inserts); err != nil {
		return nil, err
	}
	for _, q := range updates {
		if err := s.questions.UpdateByOrder(cfg.ID, q.Order, q.Text, q.Category); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("custom_id", customID).
		Int("inserted", len(inserts)).
		Int("updated", len(updates)).
		Msg("questions reconciled")
	return &ReconcileResult{Count: len(inserts) + len(updates), Updated: len(updates) > 0}, nil
}

// ImportQuestionsCSV parses "text,category[,order]" lines and inserts
// every valid row. Malformed lines are skipped, not fatal. Unlike
// AddQuestions this path appends without reconciling against stored
// orders; wholesale import by convention.
func (s *SurveyConfigService) ImportQuestionsCSV(customID, csvData, adminPassword string) (*ImportResult, error) {
	cfg, err := s.authenticate(customID, adminPassword)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(csvData, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	var questions []models.CustomQuestion
	for i, line := range lines {
		// Plain comma split; quoted fields are out of contract here.
		parts := strings.Split(line, ",")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		if len(parts) < 2 {
			continue
		}
		text, category := parts[0], parts[1]
		if text == "" || category == "" {
			continue
		}

		order := i + 1 // 1-based index among non-blank lines
		if len(parts) >= 3 && parts[2] != "" {
			n, err := strconv.Atoi(parts[2])
			if err != nil {
				continue
			}
			order = n
		}
		questions = append(questions, models.CustomQuestion{
			ConfigID: cfg.ID,
			Text:     text,
			Category: category,
			Order:    order,
			IsActive: true,
		})
	}

	if len(questions) == 0 {
		return nil, ErrEmptyImport
	}
	if err := s.questions.CreateBatch(questions); err != nil {
		return nil, err
	}

	log.Info().Str("custom_id", customID).Int("count", len(questions)).Msg("questions imported from CSV")
	return &ImportResult{Count: len(questions)}, nil
}

// view strips both credential hashes, keeping only the existence flag
// for the respondent password.
func (s *SurveyConfigService) view(cfg *models.SurveyConfig, customID string) *ConfigView {
	var colors []string
	if cfg.ChartColorsJSON != "" {
		_ = json.Unmarshal([]byte(cfg.ChartColorsJSON), &colors)
	}
	questions := cfg.Questions
	if questions == nil {
		questions = []models.CustomQuestion{}
	}
	return &ConfigView{
		ID:              cfg.ID,
		CustomID:        customID,
		Name:            cfg.Name,
		Description:     cfg.Description,
		PrimaryColor:    cfg.PrimaryColor,
		SecondaryColor:  cfg.SecondaryColor,
		BackgroundColor: cfg.BackgroundColor,
		TextColor:       cfg.TextColor,
		AccentColor:     cfg.AccentColor,
		ChartType:       cfg.ChartType,
		ChartColors:     colors,
		ShowLegend:      cfg.ShowLegend,
		ShowGrid:        cfg.ShowGrid,
		AnimationEnabled: cfg.AnimationEnabled,
		IsActive:        cfg.IsActive,
		HasUserPassword: cfg.UserPassword != nil && *cfg.UserPassword != "",
		CreatedAt:       cfg.CreatedAt,
		UpdatedAt:       cfg.UpdatedAt,
		Questions:       questions,
	}
}
