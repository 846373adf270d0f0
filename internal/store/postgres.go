package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sportsmatch/backend/internal/matchmaking"
	"github.com/sportsmatch/backend/internal/models"
)

// Postgres implements Store on top of sqlx/lib/pq.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

const playerColumns = `id, display_name, rating, wins, losses, total_matches, sport, playstyle,
	latitude, longitude, availability, created_at`

func (s *Postgres) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var p models.Player
	err := s.db.GetContext(ctx, &p, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get player %s: %w", id, err)
	}
	return &p, nil
}

func (s *Postgres) TopPlayers(ctx context.Context, limit int) ([]models.Player, error) {
	var players []models.Player
	err := s.db.SelectContext(ctx, &players, `
		SELECT `+playerColumns+`
		FROM players
		ORDER BY rating DESC, wins DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top players: %w", err)
	}
	return players, nil
}

type candidateRow struct {
	models.Player
	Distance float64 `db:"distance"`
}

// FindCandidates applies the storage-owned pre-filter: haversine radius,
// rating band, sport tag and self-exclusion. Scoring happens elsewhere.
func (s *Postgres) FindCandidates(ctx context.Context, q CandidateQuery) ([]matchmaking.Candidate, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var rows []candidateRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM (
			SELECT `+playerColumns+`,
			       6371 * acos(least(1.0,
			           cos(radians($1)) * cos(radians(latitude)) *
			           cos(radians(longitude) - radians($2)) +
			           sin(radians($1)) * sin(radians(latitude))
			       )) AS distance
			FROM players
			WHERE id != $3
			  AND latitude IS NOT NULL
			  AND longitude IS NOT NULL
			  AND rating BETWEEN $4 AND $5
			  AND ($6 = '' OR sport = $6)
		) nearby
		WHERE distance <= $7
		ORDER BY distance
		LIMIT $8
	`, q.Location.Latitude, q.Location.Longitude, q.ExcludeID, q.MinRating, q.MaxRating, q.Sport, q.RadiusKm, limit)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	candidates := make([]matchmaking.Candidate, 0, len(rows))
	for _, r := range rows {
		candidates = append(candidates, matchmaking.Candidate{Player: r.Player, Distance: r.Distance})
	}
	return candidates, nil
}

// RecentOpponentIDs returns every player that appears in match history within
// the window. The recency penalty works off this set.
func (s *Postgres) RecentOpponentIDs(ctx context.Context, within time.Duration) (map[string]struct{}, error) {
	var rows []struct {
		Player1ID sql.NullString `db:"player1_id"`
		Player2ID sql.NullString `db:"player2_id"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT player1_id, player2_id
		FROM match_history
		WHERE created_at >= $1
	`, time.Now().Add(-within))
	if err != nil {
		return nil, fmt.Errorf("recent opponents: %w", err)
	}

	ids := make(map[string]struct{}, len(rows)*2)
	for _, r := range rows {
		if r.Player1ID.Valid {
			ids[r.Player1ID.String] = struct{}{}
		}
		if r.Player2ID.Valid {
			ids[r.Player2ID.String] = struct{}{}
		}
	}
	return ids, nil
}

const matchColumns = `id, creator_id, opponent_id, sport, scheduled_time, status,
	creator_score, opponent_score, court_id, created_at`

func (s *Postgres) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	var m models.Match
	err := s.db.GetContext(ctx, &m, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	return &m, nil
}

// CompleteMatch persists a completion as one transaction: terminal match row,
// both participants' stats and the single history record. The row lock plus
// status check guarantees the transition happens at most once even when two
// completions race.
func (s *Postgres) CompleteMatch(ctx context.Context, c Completion) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin completion tx: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.GetContext(ctx, &status, `SELECT status FROM matches WHERE id = $1 FOR UPDATE`, c.MatchID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("match %s: %w", c.MatchID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock match %s: %w", c.MatchID, err)
	}
	if status != models.MatchScheduled {
		return fmt.Errorf("match %s is %s: %w", c.MatchID, status, ErrAlreadyTerminal)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE matches
		SET status = $1, creator_score = $2, opponent_score = $3
		WHERE id = $4
	`, models.MatchCompleted, c.CreatorScore, c.OpponentScore, c.MatchID)
	if err != nil {
		return fmt.Errorf("complete match %s: %w", c.MatchID, err)
	}

	for _, u := range []PlayerUpdate{c.Creator, c.Opponent} {
		res, err := tx.ExecContext(ctx, `
			UPDATE players
			SET rating = $1, wins = $2, losses = $3, total_matches = $4
			WHERE id = $5
		`, u.Rating, u.Wins, u.Losses, u.TotalMatches, u.ID)
		if err != nil {
			return fmt.Errorf("update player %s: %w", u.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("player %s: %w", u.ID, ErrNotFound)
		}
	}

	if err := appendHistoryTx(ctx, tx, &c.History); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit completion for match %s: %w", c.MatchID, err)
	}
	return nil
}

func (s *Postgres) DueMatches(ctx context.Context, now time.Time) ([]models.Match, error) {
	var matches []models.Match
	err := s.db.SelectContext(ctx, &matches, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE status = $1 AND scheduled_time < $2
		ORDER BY scheduled_time
	`, models.MatchScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("due matches: %w", err)
	}
	return matches, nil
}

// ExpireMatch transitions one overdue match and writes its zero-delta history
// row in a single transaction. Returns false when the status guard finds the
// match already terminal, which makes overlapping sweeps harmless.
func (s *Postgres) ExpireMatch(ctx context.Context, matchID string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin expiry tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE matches SET status = $1 WHERE id = $2 AND status = $3
	`, models.MatchExpired, matchID, models.MatchScheduled)
	if err != nil {
		return false, fmt.Errorf("expire match %s: %w", matchID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	// Expiry never touches ratings: null participants, zero movement.
	if err := appendHistoryTx(ctx, tx, &models.MatchHistory{MatchID: matchID}); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit expiry for match %s: %w", matchID, err)
	}
	return true, nil
}

func appendHistoryTx(ctx context.Context, tx *sqlx.Tx, rec *models.MatchHistory) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO match_history
			(match_id, player1_id, player2_id,
			 player1_elo_before, player1_elo_after, player2_elo_before, player2_elo_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.MatchID, rec.Player1ID, rec.Player2ID,
		rec.Player1EloBefore, rec.Player1EloAfter, rec.Player2EloBefore, rec.Player2EloAfter)
	if err != nil {
		return fmt.Errorf("append history for match %s: %w", rec.MatchID, err)
	}
	return nil
}

func (s *Postgres) UpcomingMatches(ctx context.Context, from, to time.Time) ([]models.Match, error) {
	var matches []models.Match
	err := s.db.SelectContext(ctx, &matches, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE status = $1 AND scheduled_time >= $2 AND scheduled_time <= $3
		ORDER BY scheduled_time
	`, models.MatchScheduled, from, to)
	if err != nil {
		return nil, fmt.Errorf("upcoming matches: %w", err)
	}
	return matches, nil
}

func (s *Postgres) MatchHistory(ctx context.Context, matchID string) ([]models.MatchHistory, error) {
	var records []models.MatchHistory
	err := s.db.SelectContext(ctx, &records, `
		SELECT id, match_id, player1_id, player2_id,
		       player1_elo_before, player1_elo_after, player2_elo_before, player2_elo_after,
		       created_at
		FROM match_history
		WHERE match_id = $1
		ORDER BY id
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("history for match %s: %w", matchID, err)
	}
	return records, nil
}

func (s *Postgres) GetCourt(ctx context.Context, id string) (*models.Court, error) {
	var c models.Court
	err := s.db.GetContext(ctx, &c, `
		SELECT id, name, latitude, longitude, outdoor FROM courts WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("court %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get court %s: %w", id, err)
	}
	return &c, nil
}

func (s *Postgres) AchievementCatalog(ctx context.Context) ([]models.Achievement, error) {
	var catalog []models.Achievement
	err := s.db.SelectContext(ctx, &catalog, `
		SELECT id, name, requirement_type, requirement_value
		FROM achievements
		ORDER BY requirement_type, requirement_value
	`)
	if err != nil {
		return nil, fmt.Errorf("achievement catalog: %w", err)
	}
	return catalog, nil
}

func (s *Postgres) GrantedAchievements(ctx context.Context, playerID string) (map[string]struct{}, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, `
		SELECT achievement_id FROM player_achievements WHERE player_id = $1
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("granted achievements for %s: %w", playerID, err)
	}
	granted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		granted[id] = struct{}{}
	}
	return granted, nil
}

// GrantAchievement is idempotent: the unique (player, achievement) constraint
// absorbs replays.
func (s *Postgres) GrantAchievement(ctx context.Context, playerID, achievementID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO player_achievements (player_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (player_id, achievement_id) DO NOTHING
	`, playerID, achievementID)
	if err != nil {
		return fmt.Errorf("grant %s to %s: %w", achievementID, playerID, err)
	}
	return nil
}

func (s *Postgres) PlayerAchievements(ctx context.Context, playerID string) ([]models.Achievement, error) {
	var earned []models.Achievement
	err := s.db.SelectContext(ctx, &earned, `
		SELECT a.id, a.name, a.requirement_type, a.requirement_value
		FROM achievements a
		JOIN player_achievements pa ON pa.achievement_id = a.id
		WHERE pa.player_id = $1
		ORDER BY pa.awarded_at
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("achievements for %s: %w", playerID, err)
	}
	return earned, nil
}

func (s *Postgres) CreateNotification(ctx context.Context, n *models.Notification) error {
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO notifications (user_id, type, title, message, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, n.UserID, n.Type, n.Title, n.Message, n.Metadata).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// PlayerNotifications returns a player's notifications, broadcasts included.
func (s *Postgres) PlayerNotifications(ctx context.Context, playerID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notifications []models.Notification
	err := s.db.SelectContext(ctx, &notifications, `
		SELECT id, user_id, type, title, message, metadata, created_at
		FROM notifications
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("notifications for %s: %w", playerID, err)
	}
	return notifications, nil
}
