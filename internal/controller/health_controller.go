package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB        *gorm.DB
	startedAt time.Time
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db, startedAt: time.Now()}
}

// @Summary Liveness and database health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	dbStatus := "up"
	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	status := http.StatusOK
	if dbStatus == "down" {
		status = http.StatusServiceUnavailable
	}

	ctx.JSON(status, gin.H{
		"status":    dbStatus,
		"uptime":    time.Since(c.startedAt).String(),
		"checkedAt": time.Now().Format(time.RFC3339),
	})
}
