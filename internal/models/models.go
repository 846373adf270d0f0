package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Match statuses. Transitions are one-way: scheduled -> completed|expired.
const (
	MatchScheduled = "scheduled"
	MatchCompleted = "completed"
	MatchExpired   = "expired"
)

// Achievement requirement kinds.
const (
	RequireWins         = "wins"
	RequireRating       = "rating"
	RequireTotalMatches = "total_matches"
)

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Availability is a player's declared preferred play times, stored as JSONB.
// The zero value (no hours, no days) never earns a scheduling bonus.
type Availability struct {
	PreferredHours []int `json:"preferred_times"`
	PreferredDays  []int `json:"preferred_days"`
}

// Scan resolves the JSONB column once at the data-access boundary.
// NULL or malformed availability degrades to the zero value, not an error.
func (a *Availability) Scan(src interface{}) error {
	*a = Availability{}
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}
	if err := json.Unmarshal(raw, a); err != nil {
		*a = Availability{}
	}
	return nil
}

// Value serializes availability for storage; an empty declaration stores NULL.
func (a Availability) Value() (driver.Value, error) {
	if len(a.PreferredHours) == 0 && len(a.PreferredDays) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

// Covers reports whether t's local hour and weekday are both declared preferred.
func (a Availability) Covers(t time.Time) bool {
	if len(a.PreferredHours) == 0 || len(a.PreferredDays) == 0 {
		return false
	}
	hour, day := t.Hour(), int(t.Weekday())
	hourOK := false
	for _, h := range a.PreferredHours {
		if h == hour {
			hourOK = true
			break
		}
	}
	if !hourOK {
		return false
	}
	for _, d := range a.PreferredDays {
		if d == day {
			return true
		}
	}
	return false
}

// Player represents a user in the system. Rating, wins, losses and
// total_matches are mutated only by the match lifecycle.
type Player struct {
	ID           string          `db:"id" json:"id"`
	DisplayName  string          `db:"display_name" json:"display_name"`
	Rating       int             `db:"rating" json:"rating"`
	Wins         int             `db:"wins" json:"wins"`
	Losses       int             `db:"losses" json:"losses"`
	TotalMatches int             `db:"total_matches" json:"total_matches"`
	Sport        string          `db:"sport" json:"sport"`
	Playstyle    string          `db:"playstyle" json:"playstyle"`
	Latitude     sql.NullFloat64 `db:"latitude" json:"latitude,omitempty"`
	Longitude    sql.NullFloat64 `db:"longitude" json:"longitude,omitempty"`
	Availability Availability    `db:"availability" json:"availability"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Location returns the player's coordinates, or fallback when either is missing.
func (p Player) Location(fallback GeoPoint) GeoPoint {
	if !p.Latitude.Valid || !p.Longitude.Valid {
		return fallback
	}
	return GeoPoint{Latitude: p.Latitude.Float64, Longitude: p.Longitude.Float64}
}

// Match represents a scheduled game between two players. Created by the
// booking flow; status transitions owned by the lifecycle service.
type Match struct {
	ID            string         `db:"id" json:"id"`
	CreatorID     string         `db:"creator_id" json:"creator_id"`
	OpponentID    sql.NullString `db:"opponent_id" json:"opponent_id,omitempty"`
	Sport         string         `db:"sport" json:"sport"`
	ScheduledTime time.Time      `db:"scheduled_time" json:"scheduled_time"`
	Status        string         `db:"status" json:"status"`
	CreatorScore  sql.NullInt64  `db:"creator_score" json:"creator_score,omitempty"`
	OpponentScore sql.NullInt64  `db:"opponent_score" json:"opponent_score,omitempty"`
	CourtID       sql.NullString `db:"court_id" json:"court_id,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// Terminal reports whether the match can no longer transition.
func (m Match) Terminal() bool {
	return m.Status == MatchCompleted || m.Status == MatchExpired
}

// Court is a venue a match is played at.
type Court struct {
	ID        string  `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	Outdoor   bool    `db:"outdoor" json:"outdoor"`
}

// MatchHistory is an immutable record of a terminal match, written exactly
// once. Expired matches record null participants and zero rating movement.
type MatchHistory struct {
	ID               int            `db:"id" json:"id"`
	MatchID          string         `db:"match_id" json:"match_id"`
	Player1ID        sql.NullString `db:"player1_id" json:"player1_id,omitempty"`
	Player2ID        sql.NullString `db:"player2_id" json:"player2_id,omitempty"`
	Player1EloBefore int            `db:"player1_elo_before" json:"player1_elo_before"`
	Player1EloAfter  int            `db:"player1_elo_after" json:"player1_elo_after"`
	Player2EloBefore int            `db:"player2_elo_before" json:"player2_elo_before"`
	Player2EloAfter  int            `db:"player2_elo_after" json:"player2_elo_after"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// Achievement is one rule in the static achievement catalog.
type Achievement struct {
	ID               string `db:"id" json:"id"`
	Name             string `db:"name" json:"name"`
	RequirementType  string `db:"requirement_type" json:"requirement_type"`
	RequirementValue int    `db:"requirement_value" json:"requirement_value"`
}

// PlayerAchievement records a grant; unique per (player, achievement).
type PlayerAchievement struct {
	PlayerID      string    `db:"player_id" json:"player_id"`
	AchievementID string    `db:"achievement_id" json:"achievement_id"`
	AwardedAt     time.Time `db:"awarded_at" json:"awarded_at"`
}

// Metadata is free-form notification context stored as JSONB.
type Metadata map[string]interface{}

func (m *Metadata) Scan(src interface{}) error {
	*m = Metadata{}
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(raw, m)
}

func (m Metadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

// Notification is a write-only engine output. A null recipient means
// broadcast; delivery is handled by an external transport.
type Notification struct {
	ID        int            `db:"id" json:"id"`
	UserID    sql.NullString `db:"user_id" json:"user_id,omitempty"`
	Type      string         `db:"type" json:"type"`
	Title     string         `db:"title" json:"title"`
	Message   string         `db:"message" json:"message"`
	Metadata  Metadata       `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
