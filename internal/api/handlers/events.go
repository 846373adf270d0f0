package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sportsmatch/backend/internal/models"
	"github.com/sportsmatch/backend/internal/notify"
	"github.com/sportsmatch/backend/internal/store"
)

// IngestEvent accepts a channel-addressed domain event and fans it out as
// notifications. Channel shapes: "matches:<id>", "friends:<id>",
// "leaderboard". Unknown channels are acknowledged and dropped: the router
// never fails a caller over an event it does not recognize.
func IngestEvent(st store.Store, pub *notify.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Channel string          `json:"channel" binding:"required"`
			Event   string          `json:"event" binding:"required"`
			Payload models.Metadata `json:"payload"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "channel and event required"})
			return
		}

		ev := notify.Event{Name: req.Event, Payload: req.Payload}
		switch {
		case strings.HasPrefix(req.Channel, "matches:"):
			matchID := strings.TrimPrefix(req.Channel, "matches:")
			match, err := st.GetMatch(c.Request.Context(), matchID)
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Match not found"})
				return
			}
			if err != nil {
				log.Printf("[NOTIFY] event lookup for %s: %v", req.Channel, err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to resolve match"})
				return
			}
			ev.Kind = notify.MatchStatusChange
			ev.MatchID = match.ID
			ev.CreatorID = match.CreatorID
			ev.OpponentID = match.OpponentID.String

		case strings.HasPrefix(req.Channel, "friends:"):
			ev.Kind = notify.FriendActivity
			ev.UserID = strings.TrimPrefix(req.Channel, "friends:")

		case req.Channel == "leaderboard":
			ev.Kind = notify.LeaderboardChange
		}

		pub.Emit(c.Request.Context(), ev)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
