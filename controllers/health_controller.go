package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haimult/pulse-survey-server/config"
)

// GET /health
func HealthCheck(c *gin.Context) {
	sqlDB, err := config.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
