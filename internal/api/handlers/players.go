package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sportsmatch/backend/internal/store"
)

func playerID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid player id"})
		return "", false
	}
	return id, true
}

// GetPlayerStats returns a player's rating and match counters.
func GetPlayerStats(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := playerID(c)
		if !ok {
			return
		}
		player, err := st.GetPlayer(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Player not found"})
			return
		}
		if err != nil {
			log.Printf("[API] player stats %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load player"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "player": player})
	}
}

// GetPlayerAchievements returns the achievements a player has earned.
func GetPlayerAchievements(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := playerID(c)
		if !ok {
			return
		}
		earned, err := st.PlayerAchievements(c.Request.Context(), id)
		if err != nil {
			log.Printf("[API] achievements for %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load achievements"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "achievements": earned})
	}
}

// GetPlayerNotifications returns a player's notifications, broadcasts included.
func GetPlayerNotifications(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := playerID(c)
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		notifications, err := st.PlayerNotifications(c.Request.Context(), id, limit)
		if err != nil {
			log.Printf("[API] notifications for %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load notifications"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
	}
}

// Leaderboard returns the highest-rated players.
func Leaderboard(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		players, err := st.TopPlayers(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[API] leaderboard: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load leaderboard"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "players": players})
	}
}
