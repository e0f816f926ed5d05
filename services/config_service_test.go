package services

import (
	"errors"
	"testing"

	"github.com/haimult/pulse-survey-server/auth"
	"github.com/haimult/pulse-survey-server/models"
	"github.com/haimult/pulse-survey-server/repository"
)

const (
	testLegacySecret = "test-lookup-secret"
	strongAdminPass  = "Str0ng!Passw0rd"
)

type fakeConfigRepo struct {
	byCustomID map[string]*models.SurveyConfig
	nextID     uint
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{byCustomID: make(map[string]*models.SurveyConfig), nextID: 1}
}

func (f *fakeConfigRepo) Create(cfg *models.SurveyConfig) error {
	if _, ok := f.byCustomID[cfg.CustomID]; ok {
		return repository.ErrDuplicateKey
	}
	cfg.ID = f.nextID
	f.nextID++
	stored := *cfg
	f.byCustomID[cfg.CustomID] = &stored
	return nil
}

func (f *fakeConfigRepo) FindByCustomID(customID string) (*models.SurveyConfig, error) {
	cfg, ok := f.byCustomID[customID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *cfg
	return &out, nil
}

func (f *fakeConfigRepo) FindAuth(customID string) (*models.SurveyConfig, error) {
	return f.FindByCustomID(customID)
}

func (f *fakeConfigRepo) Exists(customID string) (bool, error) {
	_, ok := f.byCustomID[customID]
	return ok, nil
}

func (f *fakeConfigRepo) UpdateByCustomID(customID string, updates map[string]interface{}) (*models.SurveyConfig, error) {
	cfg, ok := f.byCustomID[customID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "name":
			cfg.Name = v.(string)
		case "description":
			cfg.Description = v.(string)
		case "chart_type":
			cfg.ChartType = v.(string)
		case "chart_colors":
			cfg.ChartColorsJSON = v.(string)
		case "user_password":
			s := v.(string)
			cfg.UserPassword = &s
		case "is_active":
			cfg.IsActive = v.(bool)
		case "show_legend":
			cfg.ShowLegend = v.(bool)
		case "show_grid":
			cfg.ShowGrid = v.(bool)
		case "animation_enabled":
			cfg.AnimationEnabled = v.(bool)
		}
	}
	out := *cfg
	return &out, nil
}

func (f *fakeConfigRepo) ListActive() ([]models.SurveyConfig, error) {
	var out []models.SurveyConfig
	for _, cfg := range f.byCustomID {
		if cfg.IsActive {
			out = append(out, *cfg)
		}
	}
	return out, nil
}

type fakeQuestionRepo struct {
	questions []models.CustomQuestion
	nextID    uint
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{nextID: 1}
}

func (f *fakeQuestionRepo) FindByConfig(configID uint) ([]models.CustomQuestion, error) {
	var out []models.CustomQuestion
	for _, q := range f.questions {
		if q.ConfigID == configID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) CreateBatch(questions []models.CustomQuestion) error {
	for _, q := range questions {
		q.ID = f.nextID
		f.nextID++
		f.questions = append(f.questions, q)
	}
	return nil
}

func (f *fakeQuestionRepo) UpdateByOrder(configID uint, order int, text, category string) error {
	for i := range f.questions {
		if f.questions[i].ConfigID == configID && f.questions[i].Order == order {
			f.questions[i].Text = text
			f.questions[i].Category = category
		}
	}
	return nil
}

func newTestService() (*SurveyConfigService, *fakeConfigRepo, *fakeQuestionRepo) {
	configs := newFakeConfigRepo()
	questions := newFakeQuestionRepo()
	return NewSurveyConfigService(configs, questions, testLegacySecret), configs, questions
}

func mustCreate(t *testing.T, svc *SurveyConfigService, in CreateConfigInput) *ConfigView {
	t.Helper()
	view, err := svc.CreateConfig(in)
	if err != nil {
		t.Fatalf("CreateConfig(%q): %v", in.CustomID, err)
	}
	return view
}

func TestCreateConfigValidation(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, CreateConfigInput{CustomID: "team-pulse", Name: "Pulse", AdminPassword: strongAdminPass})

	tests := []struct {
		name    string
		input   CreateConfigInput
		wantErr error
	}{
		{
			name:    "slug too short",
			input:   CreateConfigInput{CustomID: "abc", Name: "x", AdminPassword: strongAdminPass},
			wantErr: ErrInvalidCustomID,
		},
		{
			name:    "slug with illegal characters",
			input:   CreateConfigInput{CustomID: "has space!", Name: "x", AdminPassword: strongAdminPass},
			wantErr: ErrInvalidCustomID,
		},
		{
			name:    "slug already taken",
			input:   CreateConfigInput{CustomID: "team-pulse", Name: "x", AdminPassword: strongAdminPass},
			wantErr: ErrCustomIDTaken,
		},
		{
			name:    "weak admin password",
			input:   CreateConfigInput{CustomID: "valid-slug", Name: "x", AdminPassword: "onlylowercase123"},
			wantErr: auth.ErrWeakPassword,
		},
		{
			name:    "weak respondent password",
			input:   CreateConfigInput{CustomID: "valid-slug", Name: "x", AdminPassword: strongAdminPass, UserPassword: "short"},
			wantErr: auth.ErrWeakPassword,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateConfig(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateConfigStripsCredentials(t *testing.T) {
	svc, repo, _ := newTestService()
	view := mustCreate(t, svc, CreateConfigInput{
		CustomID:      "gated-survey",
		Name:          "Gated",
		AdminPassword: strongAdminPass,
		UserPassword:  "secret123",
	})

	if !view.HasUserPassword {
		t.Error("HasUserPassword = false, want true")
	}
	stored := repo.byCustomID["gated-survey"]
	if stored.AdminPassword == strongAdminPass {
		t.Error("admin password stored in cleartext")
	}
	if stored.UserPassword == nil || *stored.UserPassword == "secret123" {
		t.Error("respondent password not hashed")
	}
	if !auth.VerifyPassword(strongAdminPass, stored.AdminPassword, auth.TierAdmin) {
		t.Error("stored admin hash does not verify against the original password")
	}
}

func TestGetByCustomIDLegacyFallback(t *testing.T) {
	svc, repo, _ := newTestService()

	// A record created under the old scheme is stored keyed by the
	// lookup hash, not the cleartext slug.
	hash, _ := auth.HashPassword(strongAdminPass, auth.TierAdmin)
	repo.byCustomID[auth.LegacyLookupKey("old-survey", testLegacySecret)] = &models.SurveyConfig{
		ID:            7,
		CustomID:      auth.LegacyLookupKey("old-survey", testLegacySecret),
		Name:          "Legacy",
		AdminPassword: hash,
		IsActive:      true,
	}

	view, err := svc.GetByCustomID("old-survey")
	if err != nil {
		t.Fatalf("GetByCustomID: %v", err)
	}
	if view.CustomID != "old-survey" {
		t.Errorf("view.CustomID = %q, want the requested slug", view.CustomID)
	}
	if view.Name != "Legacy" {
		t.Errorf("view.Name = %q, want %q", view.Name, "Legacy")
	}

	if _, err := svc.GetByCustomID("never-existed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByCustomID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestVerifyCredential(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, CreateConfigInput{
		CustomID:      "verify-me",
		Name:          "V",
		AdminPassword: strongAdminPass,
		UserPassword:  "secret123",
	})

	tests := []struct {
		name     string
		customID string
		password string
		tier     auth.Tier
		want     bool
	}{
		{"admin match", "verify-me", strongAdminPass, auth.TierAdmin, true},
		{"admin match with surrounding whitespace", "verify-me", "  " + strongAdminPass + "  ", auth.TierAdmin, true},
		{"admin mismatch", "verify-me", "WrongPass1!xx", auth.TierAdmin, false},
		{"respondent match", "verify-me", "secret123", auth.TierRespondent, true},
		{"respondent mismatch", "verify-me", "nope99", auth.TierRespondent, false},
		{"missing config verifies false", "no-such-survey", strongAdminPass, auth.TierAdmin, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.VerifyCredential(tt.customID, tt.password, tt.tier)
			if err != nil {
				t.Fatalf("VerifyCredential: %v", err)
			}
			if got != tt.want {
				t.Errorf("VerifyCredential() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyCredentialNoRespondentPassword(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, CreateConfigInput{CustomID: "open-survey", Name: "O", AdminPassword: strongAdminPass})

	got, err := svc.VerifyCredential("open-survey", "anything", auth.TierRespondent)
	if err != nil {
		t.Fatalf("VerifyCredential: %v", err)
	}
	if got {
		t.Error("VerifyCredential() = true for a survey without a respondent password")
	}
}

func TestUpdateConfig(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, CreateConfigInput{
		CustomID:      "update-me",
		Name:          "Before",
		Description:   "keep this",
		AdminPassword: strongAdminPass,
	})

	if _, err := svc.UpdateConfig("update-me", UpdateConfigInput{}, "WrongPass1!xx"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("UpdateConfig(wrong password) error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.UpdateConfig("no-such-survey", UpdateConfigInput{}, strongAdminPass); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("UpdateConfig(missing config) error = %v, want ErrUnauthorized", err)
	}

	name := "After"
	view, err := svc.UpdateConfig("update-me", UpdateConfigInput{Name: &name}, strongAdminPass)
	if err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if view.Name != "After" {
		t.Errorf("Name = %q, want %q", view.Name, "After")
	}
	if view.Description != "keep this" {
		t.Errorf("Description = %q, omitted field must keep its value", view.Description)
	}
}

func TestAddQuestionsReconciles(t *testing.T) {
	svc, _, questions := newTestService()
	mustCreate(t, svc, CreateConfigInput{CustomID: "merge-test", Name: "M", AdminPassword: strongAdminPass})

	first := []QuestionInput{
		{Text: "Q1", Category: "A", Order: 1},
		{Text: "Q2", Category: "A", Order: 2},
	}
	result, err := svc.AddQuestions("merge-test", first, strongAdminPass)
	if err != nil {
		t.Fatalf("AddQuestions(first): %v", err)
	}
	if result.Count != 2 || result.Updated {
		t.Errorf("first batch = %+v, want Count 2, Updated false", result)
	}

	second := []QuestionInput{
		{Text: "Q1 revised", Category: "B", Order: 1},
		{Text: "Q3", Category: "C", Order: 3},
	}
	result, err = svc.AddQuestions("merge-test", second, strongAdminPass)
	if err != nil {
		t.Fatalf("AddQuestions(second): %v", err)
	}
	if result.Count != 2 || !result.Updated {
		t.Errorf("second batch = %+v, want Count 2, Updated true", result)
	}

	if len(questions.questions) != 3 {
		t.Fatalf("stored questions = %d, want 3", len(questions.questions))
	}
	byOrder := make(map[int]models.CustomQuestion)
	for _, q := range questions.questions {
		byOrder[q.Order] = q
	}
	if q := byOrder[1]; q.Text != "Q1 revised" || q.Category != "B" {
		t.Errorf("order 1 = %q/%q, want rewritten in place", q.Text, q.Category)
	}
	if q := byOrder[3]; q.Text != "Q3" {
		t.Errorf("order 3 = %q, want inserted", q.Text)
	}
}

func TestAddQuestionsDuplicateOrders(t *testing.T) {
	svc, _, questions := newTestService()
	mustCreate(t, svc, CreateConfigInput{CustomID: "dup-test", Name: "D", AdminPassword: strongAdminPass})

	batch := []QuestionInput{
		{Text: "Q1", Category: "A", Order: 1},
		{Text: "Q1 again", Category: "A", Order: 1},
	}
	_, err := svc.AddQuestions("dup-test", batch, strongAdminPass)

	var dup *DuplicateOrderError
	if !errors.As(err, &dup) {
		t.Fatalf("AddQuestions error = %v, want DuplicateOrderError", err)
	}
	if len(dup.Orders) != 1 || dup.Orders[0] != 1 {
		t.Errorf("duplicate orders = %v, want [1]", dup.Orders)
	}
	if len(questions.questions) != 0 {
		t.Error("duplicate batch must be rejected before any row is written")
	}
}

func TestImportQuestionsCSV(t *testing.T) {
	svc, _, questions := newTestService()
	mustCreate(t, svc, CreateConfigInput{CustomID: "csv-test", Name: "C", AdminPassword: strongAdminPass})

	csvData := "Q1,CatA,1\nQ2,CatB\n\n,CatC,3"
	result, err := svc.ImportQuestionsCSV("csv-test", csvData, strongAdminPass)
	if err != nil {
		t.Fatalf("ImportQuestionsCSV: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("Count = %d, want 2 (row with empty text skipped)", result.Count)
	}

	if got := questions.questions[0]; got.Text != "Q1" || got.Category != "CatA" || got.Order != 1 {
		t.Errorf("row 0 = %+v, want Q1/CatA/1", got)
	}
	// No explicit order: the 1-based position among non-blank lines.
	if got := questions.questions[1]; got.Text != "Q2" || got.Category != "CatB" || got.Order != 2 {
		t.Errorf("row 1 = %+v, want Q2/CatB/2", got)
	}
}

func TestImportQuestionsCSVEdgeCases(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, CreateConfigInput{CustomID: "csv-edge", Name: "C", AdminPassword: strongAdminPass})

	tests := []struct {
		name    string
		csvData string
		wantErr error
		want    int
	}{
		{"all lines blank", "\n\n\n", ErrEmptyImport, 0},
		{"non-numeric explicit order skipped", "Q1,CatA,abc", ErrEmptyImport, 0},
		{"single field lines skipped", "just-text\nQ1,CatA", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ImportQuestionsCSV("csv-edge", tt.csvData, strongAdminPass)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ImportQuestionsCSV: %v", err)
			}
			if result.Count != tt.want {
				t.Errorf("Count = %d, want %d", result.Count, tt.want)
			}
		})
	}
}

func TestListConfigs(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreate(t, svc, CreateConfigInput{CustomID: "list-one", Name: "One", AdminPassword: strongAdminPass})
	mustCreate(t, svc, CreateConfigInput{CustomID: "list-two", Name: "Two", AdminPassword: strongAdminPass})

	summaries, err := svc.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len = %d, want 2", len(summaries))
	}
	for _, s := range summaries {
		if s.CustomID == "" || s.Name == "" {
			t.Errorf("summary missing fields: %+v", s)
		}
	}
}
