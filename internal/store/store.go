package store

import (
	"context"
	"errors"
	"time"

	"github.com/sportsmatch/backend/internal/matchmaking"
	"github.com/sportsmatch/backend/internal/models"
)

// Sentinel errors surfaced to the lifecycle service and API layer.
var (
	// ErrNotFound means a referenced player or match does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyTerminal means a completion raced against an earlier
	// completion or expiry. The guarded transaction in CompleteMatch makes
	// this the correctness backstop against double rating updates.
	ErrAlreadyTerminal = errors.New("match already terminal")
)

// CandidateQuery is the pre-filter applied by the storage layer before
// scoring: geographic radius, rating band, and self-exclusion.
type CandidateQuery struct {
	Sport     string
	Location  models.GeoPoint
	RadiusKm  float64
	MinRating int
	MaxRating int
	ExcludeID string
	Limit     int
}

// PlayerUpdate carries a participant's post-match stats for the completion
// transaction.
type PlayerUpdate struct {
	ID           string
	Rating       int
	Wins         int
	Losses       int
	TotalMatches int
}

// Completion is everything the completion transaction persists atomically:
// the terminal match row, both participants' new stats, and the single
// history record.
type Completion struct {
	MatchID       string
	CreatorScore  int
	OpponentScore int
	Creator       PlayerUpdate
	Opponent      PlayerUpdate
	History       models.MatchHistory
}

// Store is the collaborator interface the engine is written against. The
// production implementation is Postgres; tests use an in-memory fake.
type Store interface {
	// Players.
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	TopPlayers(ctx context.Context, limit int) ([]models.Player, error)
	FindCandidates(ctx context.Context, q CandidateQuery) ([]matchmaking.Candidate, error)
	RecentOpponentIDs(ctx context.Context, within time.Duration) (map[string]struct{}, error)

	// Matches. CompleteMatch and ExpireMatch are single transactions with a
	// status guard, so the terminal transition and its history record happen
	// exactly once per match. ExpireMatch reports whether the row actually
	// transitioned.
	GetMatch(ctx context.Context, id string) (*models.Match, error)
	CompleteMatch(ctx context.Context, c Completion) error
	DueMatches(ctx context.Context, now time.Time) ([]models.Match, error)
	ExpireMatch(ctx context.Context, matchID string) (bool, error)
	UpcomingMatches(ctx context.Context, from, to time.Time) ([]models.Match, error)
	MatchHistory(ctx context.Context, matchID string) ([]models.MatchHistory, error)

	// Courts.
	GetCourt(ctx context.Context, id string) (*models.Court, error)

	// Achievements.
	AchievementCatalog(ctx context.Context) ([]models.Achievement, error)
	GrantedAchievements(ctx context.Context, playerID string) (map[string]struct{}, error)
	GrantAchievement(ctx context.Context, playerID, achievementID string) error
	PlayerAchievements(ctx context.Context, playerID string) ([]models.Achievement, error)

	// Notifications.
	CreateNotification(ctx context.Context, n *models.Notification) error
	PlayerNotifications(ctx context.Context, playerID string, limit int) ([]models.Notification, error)
}
