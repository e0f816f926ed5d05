package controllers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/haimult/pulse-survey-server/auth"
	"github.com/haimult/pulse-survey-server/config"
	"github.com/haimult/pulse-survey-server/models"
	"github.com/haimult/pulse-survey-server/repository"
	"github.com/haimult/pulse-survey-server/services"
	"github.com/haimult/pulse-survey-server/utils"
)

// ExportController runs response exports as background jobs: the POST
// returns a queued job ID immediately, the worker goroutine renders the
// CSV, uploads it to the storage bucket and flips the job row to done
// or failed.
type ExportController struct {
	db        *gorm.DB
	configs   *services.SurveyConfigService
	responses repository.ResponseRepository
	supabase  config.Supabase
}

func NewExportController(db *gorm.DB, configs *services.SurveyConfigService, responses repository.ResponseRepository, supabase config.Supabase) *ExportController {
	return &ExportController{db: db, configs: configs, responses: responses, supabase: supabase}
}

type exportReq struct {
	AdminPassword string     `json:"admin_password" binding:"required"`
	From          *time.Time `json:"from"`
	To            *time.Time `json:"to"`
}

// POST /api/builder/config/:customId/export
func (ctl *ExportController) StartExport(c *gin.Context) {
	customID := c.Param("customId")

	var req exportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	valid, err := ctl.configs.VerifyCredential(customID, req.AdminPassword, auth.TierAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	if !valid {
		respondError(c, services.ErrUnauthorized)
		return
	}

	view, err := ctl.configs.GetByCustomID(customID)
	if err != nil {
		respondError(c, err)
		return
	}

	job := models.ExportJob{
		JobID:     uuid.NewString(),
		ConfigID:  view.ID,
		Format:    "csv",
		RangeFrom: req.From,
		RangeTo:   req.To,
		Status:    "queued",
	}
	if err := ctl.db.Create(&job).Error; err != nil {
		respondError(c, err)
		return
	}

	go ctl.run(job, customID)

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.JobID, "status": job.Status})
}

// GET /api/exports/:jobId
func (ctl *ExportController) GetJob(c *gin.Context) {
	var job models.ExportJob
	err := ctl.db.Where("job_id = ?", c.Param("jobId")).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, services.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (ctl *ExportController) run(job models.ExportJob, customID string) {
	if err := ctl.execute(&job, customID); err != nil {
		log.Error().Err(err).Str("job_id", job.JobID).Msg("export failed")
		msg := err.Error()
		ctl.db.Model(&models.ExportJob{}).
			Where("job_id = ?", job.JobID).
			Updates(map[string]interface{}{"status": "failed", "error_msg": msg})
		return
	}
}

func (ctl *ExportController) execute(job *models.ExportJob, customID string) error {
	ctl.db.Model(&models.ExportJob{}).
		Where("job_id = ?", job.JobID).
		Update("status", "running")

	responses, err := ctl.responses.ListForExport(job.ConfigID, job.RangeFrom, job.RangeTo)
	if err != nil {
		return err
	}

	data, err := renderCSV(responses)
	if err != nil {
		return err
	}

	objectPath := fmt.Sprintf("%s/%s.csv", customID, job.JobID)
	url, err := utils.UploadExport(ctl.supabase.URL, ctl.supabase.Key, ctl.supabase.Bucket, objectPath, data, "text/csv")
	if err != nil {
		return err
	}

	return ctl.db.Model(&models.ExportJob{}).
		Where("job_id = ?", job.JobID).
		Updates(map[string]interface{}{"status": "done", "file_url": url}).Error
}

func renderCSV(responses []models.SurveyResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"response_id", "respondent_name", "respondent_email", "total_score", "completed_at", "question_id", "score"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, resp := range responses {
		base := []string{
			strconv.FormatUint(uint64(resp.ID), 10),
			resp.Respondent.Name,
			resp.Respondent.Email,
			strconv.Itoa(resp.TotalScore),
			resp.CompletedAt.UTC().Format(time.RFC3339),
		}
		if len(resp.QuestionResponses) == 0 {
			if err := w.Write(append(base, "", "")); err != nil {
				return nil, err
			}
			continue
		}
		for _, qr := range resp.QuestionResponses {
			row := append(append([]string{}, base...),
				strconv.FormatUint(uint64(qr.QuestionID), 10),
				strconv.Itoa(qr.Score),
			)
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
