package services

import (
	"errors"
	"testing"

	"github.com/haimult/pulse-survey-server/models"
)

type fakeRespondentRepo struct {
	byEmail map[string]*models.Respondent
	nextID  uint
}

func newFakeRespondentRepo() *fakeRespondentRepo {
	return &fakeRespondentRepo{byEmail: make(map[string]*models.Respondent), nextID: 1}
}

func (f *fakeRespondentRepo) UpsertByEmail(email, name string) (*models.Respondent, error) {
	if r, ok := f.byEmail[email]; ok {
		if name != "" {
			r.Name = name
		}
		out := *r
		return &out, nil
	}
	r := &models.Respondent{ID: f.nextID, Email: email, Name: name}
	f.nextID++
	f.byEmail[email] = r
	out := *r
	return &out, nil
}

func newSubmitFixture(t *testing.T, userPassword string) (*ResponseService, *fakeRespondentRepo, *fakeResponseRepo) {
	t.Helper()
	configService, _, _ := newTestService()
	mustCreate(t, configService, CreateConfigInput{
		CustomID:      "pulse-2026",
		Name:          "Pulse",
		AdminPassword: strongAdminPass,
		UserPassword:  userPassword,
	})

	respondents := newFakeRespondentRepo()
	responses := newFakeResponseRepo()
	return NewResponseService(configService, respondents, responses), respondents, responses
}

func score(n int) *int { return &n }

func TestSubmitRecordsResponse(t *testing.T) {
	svc, respondents, responses := newSubmitFixture(t, "")

	resp, err := svc.Submit("pulse-2026", SubmitInput{
		Name:  "Dana",
		Email: "Dana@Example.com",
		Answers: []AnswerInput{
			{QuestionID: 1, Score: score(2)},
			{QuestionID: 2, Score: score(3)},
			{QuestionID: 3, Score: score(0)},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if resp.TotalScore != 5 {
		t.Errorf("TotalScore = %d, want 5", resp.TotalScore)
	}
	if len(resp.QuestionResponses) != 3 {
		t.Errorf("QuestionResponses = %d, want 3", len(resp.QuestionResponses))
	}
	// E-mail normalized to lowercase before the upsert.
	if _, ok := respondents.byEmail["dana@example.com"]; !ok {
		t.Error("respondent not stored under the normalized e-mail")
	}
	if len(responses.responses) != 1 {
		t.Fatalf("stored responses = %d, want 1", len(responses.responses))
	}
}

func TestSubmitAnonymousFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		input     SubmitInput
		wantEmail string
		wantName  string
	}{
		{
			name:      "no email becomes anonymous",
			input:     SubmitInput{Answers: []AnswerInput{{QuestionID: 1, Score: score(1)}}},
			wantEmail: "anon@local",
			wantName:  "Anonymous",
		},
		{
			name: "email without name gets placeholder",
			input: SubmitInput{
				Email:   "someone@example.com",
				Answers: []AnswerInput{{QuestionID: 1, Score: score(1)}},
			},
			wantEmail: "someone@example.com",
			wantName:  "Participant",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, respondents, _ := newSubmitFixture(t, "")
			if _, err := svc.Submit("pulse-2026", tt.input); err != nil {
				t.Fatalf("Submit: %v", err)
			}
			r, ok := respondents.byEmail[tt.wantEmail]
			if !ok {
				t.Fatalf("respondent %q not stored", tt.wantEmail)
			}
			if r.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", r.Name, tt.wantName)
			}
		})
	}
}

func TestSubmitRespondentGate(t *testing.T) {
	svc, _, responses := newSubmitFixture(t, "secret123")
	answers := []AnswerInput{{QuestionID: 1, Score: score(2)}}

	if _, err := svc.Submit("pulse-2026", SubmitInput{Answers: answers}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Submit(no password) error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Submit("pulse-2026", SubmitInput{UserPassword: "wrong1", Answers: answers}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Submit(wrong password) error = %v, want ErrUnauthorized", err)
	}
	if len(responses.responses) != 0 {
		t.Fatal("rejected submissions must not be stored")
	}

	if _, err := svc.Submit("pulse-2026", SubmitInput{UserPassword: "secret123", Answers: answers}); err != nil {
		t.Errorf("Submit(correct password) error = %v", err)
	}
}

func TestSubmitMissingAndInactiveSurvey(t *testing.T) {
	svc, _, _ := newSubmitFixture(t, "")
	answers := []AnswerInput{{QuestionID: 1, Score: score(1)}}

	if _, err := svc.Submit("no-such-survey", SubmitInput{Answers: answers}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Submit(missing) error = %v, want ErrNotFound", err)
	}

	inactive := false
	if _, err := svc.configs.UpdateConfig("pulse-2026", UpdateConfigInput{IsActive: &inactive}, strongAdminPass); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Submit("pulse-2026", SubmitInput{Answers: answers}); !errors.Is(err, ErrInactive) {
		t.Errorf("Submit(inactive) error = %v, want ErrInactive", err)
	}
}
