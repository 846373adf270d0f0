package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportsmatch/backend/internal/config"
	"github.com/sportsmatch/backend/internal/matchmaking"
	"github.com/sportsmatch/backend/internal/models"
	"github.com/sportsmatch/backend/internal/store"
)

// FindOpponents ranks nearby opponents for a matchmaking request. The store
// pre-filters by radius and rating band; the scorer ranks and caps the list.
func FindOpponents(st store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID    string          `json:"userId" binding:"required"`
			Sport     string          `json:"sport"`
			Location  models.GeoPoint `json:"location" binding:"required"`
			Schedule  time.Time       `json:"schedule" binding:"required"`
			Playstyle string          `json:"playstyle"`
			Radius    float64         `json:"radius"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid matchmaking request"})
			return
		}
		if _, err := uuid.Parse(req.UserID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid userId"})
			return
		}

		requester, err := st.GetPlayer(c.Request.Context(), req.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Player not found"})
				return
			}
			log.Printf("[MATCHMAKER] load requester %s: %v", req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load player"})
			return
		}

		radius := req.Radius
		if radius <= 0 {
			radius = cfg.DefaultRadiusKm
		}
		candidates, err := st.FindCandidates(c.Request.Context(), store.CandidateQuery{
			Sport:     req.Sport,
			Location:  req.Location,
			RadiusKm:  radius,
			MinRating: requester.Rating - cfg.RatingBand,
			MaxRating: requester.Rating + cfg.RatingBand,
			ExcludeID: requester.ID,
		})
		if err != nil {
			log.Printf("[MATCHMAKER] candidate query for %s: %v", requester.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to find candidates"})
			return
		}

		recent, err := st.RecentOpponentIDs(c.Request.Context(), time.Duration(cfg.RecentOpponentDays)*24*time.Hour)
		if err != nil {
			// The recency penalty is a soft signal; ranking proceeds without it.
			log.Printf("[MATCHMAKER] recent opponents: %v", err)
			recent = map[string]struct{}{}
		}

		// Scoring uses the requester's declared location for this request.
		scored := *requester
		scored.Latitude.Float64, scored.Latitude.Valid = req.Location.Latitude, true
		scored.Longitude.Float64, scored.Longitude.Valid = req.Location.Longitude, true

		opponents := matchmaking.RankOpponents(scored, req.Schedule, candidates, recent, req.Playstyle)

		c.JSON(http.StatusOK, gin.H{"success": true, "opponents": opponents})
	}
}
