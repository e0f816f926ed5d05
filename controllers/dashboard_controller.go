package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/haimult/pulse-survey-server/middleware"
	"github.com/haimult/pulse-survey-server/services"
)

// DashboardController serves the read-only aggregates behind the admin
// dashboard. Every route sits behind RequireAdminSession; an optional
// ?config=<customId> narrows the aggregates to one survey, and the
// session token must have been issued for that same survey.
type DashboardController struct {
	stats   *services.StatsService
	configs *services.SurveyConfigService
}

func NewDashboardController(stats *services.StatsService, configs *services.SurveyConfigService) *DashboardController {
	return &DashboardController{stats: stats, configs: configs}
}

// scope resolves the optional config query parameter to a database ID
// and enforces that the session was issued for that survey. The
// returned bool is false when a response has already been written.
func (ctl *DashboardController) scope(c *gin.Context) (*uint, bool) {
	slug := c.Query("config")
	if slug == "" {
		return nil, true
	}

	claims := middleware.SessionClaims(c)
	if claims == nil || claims.CustomID != slug {
		c.JSON(http.StatusForbidden, gin.H{"message": "session does not cover this survey"})
		return nil, false
	}

	view, err := ctl.configs.GetByCustomID(slug)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	id := view.ID
	return &id, true
}

// GET /api/dashboard/stats
func (ctl *DashboardController) Overall(c *gin.Context) {
	configID, ok := ctl.scope(c)
	if !ok {
		return
	}
	stats, err := ctl.stats.Overall(configID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/dashboard/categories
func (ctl *DashboardController) Categories(c *gin.Context) {
	configID, ok := ctl.scope(c)
	if !ok {
		return
	}
	averages, err := ctl.stats.CategoryAverages(configID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, averages)
}

// GET /api/dashboard/distribution
func (ctl *DashboardController) Distribution(c *gin.Context) {
	configID, ok := ctl.scope(c)
	if !ok {
		return
	}
	buckets, err := ctl.stats.ScoreDistribution(configID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// GET /api/dashboard/timeline
func (ctl *DashboardController) Timeline(c *gin.Context) {
	configID, ok := ctl.scope(c)
	if !ok {
		return
	}
	series, err := ctl.stats.DailyTimeline(configID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GET /api/dashboard/recent?limit=N
func (ctl *DashboardController) Recent(c *gin.Context) {
	configID, ok := ctl.scope(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	responses, err := ctl.stats.Recent(configID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses)
}
