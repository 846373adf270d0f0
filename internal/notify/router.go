package notify

import (
	"database/sql"
	"fmt"

	"github.com/sportsmatch/backend/internal/models"
)

// Notification types written by the engine.
const (
	TypeMatchUpdate  = "match_update"
	TypeFriendUpdate = "friend_update"
	TypeSystem       = "system"
	TypeAchievement  = "achievement"
	TypeReminder     = "reminder"
)

// EventKind identifies a domain event shape.
type EventKind string

const (
	MatchStatusChange  EventKind = "match_status_change"
	FriendActivity     EventKind = "friend_activity"
	LeaderboardChange  EventKind = "leaderboard_change"
	AchievementGranted EventKind = "achievement_granted"
)

// Event is a domain event to be fanned out as notifications.
type Event struct {
	Kind EventKind

	// Description of what happened, e.g. "completed" or "rescheduled".
	Name string

	// MatchStatusChange: the match and its (possibly absent) participants.
	MatchID    string
	CreatorID  string
	OpponentID string

	// FriendActivity and AchievementGranted: the player concerned.
	UserID string

	// AchievementGranted: the rule that was earned.
	Achievement *models.Achievement

	// Extra context carried into notification metadata.
	Payload models.Metadata
}

// Route maps an event to its notification records. It performs no transport
// and never fails: unknown event shapes simply produce no notifications, so a
// caller's transaction can never be poisoned by a stray event.
func Route(ev Event) []models.Notification {
	switch ev.Kind {
	case MatchStatusChange:
		var out []models.Notification
		meta := withPayload(models.Metadata{"match_id": ev.MatchID}, ev.Payload)
		for _, id := range []string{ev.CreatorID, ev.OpponentID} {
			if id == "" {
				continue
			}
			out = append(out, models.Notification{
				UserID:   sql.NullString{String: id, Valid: true},
				Type:     TypeMatchUpdate,
				Title:    "Match Updated",
				Message:  fmt.Sprintf("Match %s", ev.Name),
				Metadata: meta,
			})
		}
		return out

	case FriendActivity:
		if ev.UserID == "" {
			return nil
		}
		return []models.Notification{{
			UserID:   sql.NullString{String: ev.UserID, Valid: true},
			Type:     TypeFriendUpdate,
			Title:    "Friend Update",
			Message:  fmt.Sprintf("Friend activity: %s", ev.Name),
			Metadata: withPayload(models.Metadata{}, ev.Payload),
		}}

	case LeaderboardChange:
		// One broadcast record; the null recipient means everyone.
		return []models.Notification{{
			Type:     TypeSystem,
			Title:    "Leaderboard updated",
			Message:  fmt.Sprintf("Leaderboard: %s", ev.Name),
			Metadata: withPayload(models.Metadata{}, ev.Payload),
		}}

	case AchievementGranted:
		if ev.UserID == "" || ev.Achievement == nil {
			return nil
		}
		return []models.Notification{{
			UserID:   sql.NullString{String: ev.UserID, Valid: true},
			Type:     TypeAchievement,
			Title:    "New Achievement",
			Message:  fmt.Sprintf("You earned %s", ev.Achievement.Name),
			Metadata: models.Metadata{"achievement_id": ev.Achievement.ID},
		}}
	}

	return nil
}

func withPayload(meta, payload models.Metadata) models.Metadata {
	if len(payload) > 0 {
		meta["payload"] = map[string]interface{}(payload)
	}
	return meta
}
