package models

import "time"

// SurveyResponse is created once at submission time and never mutated.
// TotalScore is the sum of the per-question scores.
type SurveyResponse struct {
	ID           uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConfigID     uint `gorm:"column:config_id;not null;index" json:"config_id"`
	RespondentID uint `gorm:"column:respondent_id;not null;index" json:"respondent_id"`

	TotalScore  int       `gorm:"column:total_score;not null" json:"total_score"`
	CompletedAt time.Time `gorm:"column:completed_at;autoCreateTime" json:"completed_at"`

	Respondent        Respondent         `gorm:"foreignKey:RespondentID" json:"respondent,omitempty"`
	QuestionResponses []QuestionResponse `gorm:"foreignKey:ResponseID" json:"question_responses,omitempty"`
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}

// QuestionResponse is a single Likert answer, score in [0,3].
type QuestionResponse struct {
	ID         uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ResponseID uint `gorm:"column:response_id;not null;index" json:"response_id"`
	QuestionID uint `gorm:"column:question_id;not null;index" json:"question_id"`
	Score      int  `gorm:"column:score;not null" json:"score"`
}

func (QuestionResponse) TableName() string {
	return "question_responses"
}
