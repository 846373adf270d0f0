package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sportsmatch/backend/internal/config"
	"github.com/sportsmatch/backend/internal/lifecycle"
)

// ExpireMatches runs an expiry sweep on demand. The scheduled gocron job does
// the same thing; the endpoint exists for operational triggers.
func ExpireMatches(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svc.ExpireDue(c.Request.Context(), time.Now())
		if err != nil {
			log.Printf("[EXPIRY] sweep: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Expiry sweep failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "expired": report.Expired})
	}
}

// RemindMatches runs a reminder sweep on demand.
func RemindMatches(svc *lifecycle.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		window := time.Duration(cfg.ReminderWindowMinutes) * time.Minute
		report, err := svc.RemindUpcoming(c.Request.Context(), time.Now(), window)
		if err != nil {
			log.Printf("[REMINDER] sweep: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Reminder sweep failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reminded": report.Reminded, "matches": report.Outcomes})
	}
}
