package models

import "time"

type ExportJob struct {
	JobID     string     `gorm:"column:job_id;primaryKey;size:36" json:"job_id"`
	ConfigID  uint       `gorm:"column:config_id;index" json:"config_id"`
	Format    string     `gorm:"column:format;size:10" json:"format"` // csv
	RangeFrom *time.Time `gorm:"column:range_from" json:"range_from,omitempty"`
	RangeTo   *time.Time `gorm:"column:range_to" json:"range_to,omitempty"`
	Status    string     `gorm:"column:status;size:20;default:'queued'" json:"status"`
	FileURL   *string    `gorm:"column:file_url;type:text" json:"file_url,omitempty"`
	ErrorMsg  *string    `gorm:"column:error_msg;type:text" json:"error_msg,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}
