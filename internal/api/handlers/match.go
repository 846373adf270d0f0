package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportsmatch/backend/internal/lifecycle"
	"github.com/sportsmatch/backend/internal/store"
)

// CompleteMatch records a final score and applies the rating update.
func CompleteMatch(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID := c.Param("id")
		if _, err := uuid.Parse(matchID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid match id"})
			return
		}

		var req struct {
			CreatorScore  *int `json:"creatorScore" binding:"required"`
			OpponentScore *int `json:"opponentScore" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "creatorScore and opponentScore required"})
			return
		}

		result, err := svc.Complete(c.Request.Context(), matchID, *req.CreatorScore, *req.OpponentScore)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Match not found"})
		case errors.Is(err, store.ErrAlreadyTerminal):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Match already completed or expired"})
		case errors.Is(err, lifecycle.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case err != nil:
			log.Printf("[LIFECYCLE] complete match %s: %v", matchID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to complete match"})
		default:
			c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
		}
	}
}

// GetMatch returns a match with its history records.
func GetMatch(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID := c.Param("id")
		if _, err := uuid.Parse(matchID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid match id"})
			return
		}

		match, err := st.GetMatch(c.Request.Context(), matchID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Match not found"})
			return
		}
		if err != nil {
			log.Printf("[API] get match %s: %v", matchID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load match"})
			return
		}

		history, err := st.MatchHistory(c.Request.Context(), matchID)
		if err != nil {
			log.Printf("[API] history for match %s: %v", matchID, err)
			history = nil
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "match": match, "history": history})
	}
}
