package models

import "time"

// CustomQuestion belongs to exactly one SurveyConfig. Within a single
// reconciliation batch (config_id, question_order) acts as the natural
// key; text and category are free to change, the order is not.
type CustomQuestion struct {
	ID       uint         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConfigID uint         `gorm:"column:config_id;not null;index" json:"config_id"`
	Config   SurveyConfig `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE" json:"-"`

	Text     string `gorm:"column:text;type:text;not null" json:"text"`
	Category string `gorm:"column:category;size:100;not null" json:"category"`
	// "order" is reserved in Postgres, hence the column name.
	Order    int  `gorm:"column:question_order;not null;default:0" json:"order"`
	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Responses []QuestionResponse `gorm:"foreignKey:QuestionID" json:"-"`
}

func (CustomQuestion) TableName() string {
	return "custom_questions"
}
