package models

import "time"

// Respondent is whoever answered a survey, keyed by e-mail. Anonymous
// submissions all collapse onto a single well-known record.
type Respondent struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null" json:"name"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Responses []SurveyResponse `gorm:"foreignKey:RespondentID" json:"-"`
}

func (Respondent) TableName() string {
	return "respondents"
}
