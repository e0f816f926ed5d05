package models

import "time"

// SurveyConfig is one builder-created survey. CustomID is the public
// slug and the only external lookup key; it never changes after create.
type SurveyConfig struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CustomID string `gorm:"column:custom_id;size:255;uniqueIndex;not null" json:"custom_id"`

	Name        string `gorm:"column:name;size:255;not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`

	PrimaryColor    string `gorm:"column:primary_color;size:20;default:'#3b82f6'" json:"primary_color"`
	SecondaryColor  string `gorm:"column:secondary_color;size:20;default:'#8b5cf6'" json:"secondary_color"`
	BackgroundColor string `gorm:"column:background_color;size:20;default:'#ffffff'" json:"background_color"`
	TextColor       string `gorm:"column:text_color;size:20;default:'#1f2937'" json:"text_color"`
	AccentColor     string `gorm:"column:accent_color;size:20;default:'#10b981'" json:"accent_color"`

	ChartType       string `gorm:"column:chart_type;size:20;default:'bar'" json:"chart_type"`
	ChartColorsJSON string `gorm:"column:chart_colors;type:text" json:"-"`
	ShowLegend      bool   `gorm:"column:show_legend;default:true" json:"show_legend"`
	ShowGrid        bool   `gorm:"column:show_grid;default:true" json:"show_grid"`
	AnimationEnabled bool  `gorm:"column:animation_enabled;default:true" json:"animation_enabled"`

	// Bcrypt hashes, never serialized.
	AdminPassword string  `gorm:"column:admin_password;type:text;not null" json:"-"`
	UserPassword  *string `gorm:"column:user_password;type:text" json:"-"`

	IsActive  bool    `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedBy *string `gorm:"column:created_by;size:255" json:"created_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Questions []CustomQuestion `gorm:"foreignKey:ConfigID" json:"-"`
	Responses []SurveyResponse `gorm:"foreignKey:ConfigID" json:"-"`
}

func (SurveyConfig) TableName() string {
	return "survey_configs"
}
