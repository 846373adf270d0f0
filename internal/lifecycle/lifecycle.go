package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sportsmatch/backend/internal/achievements"
	"github.com/sportsmatch/backend/internal/config"
	"github.com/sportsmatch/backend/internal/models"
	"github.com/sportsmatch/backend/internal/notify"
	"github.com/sportsmatch/backend/internal/rating"
	"github.com/sportsmatch/backend/internal/store"
	"github.com/sportsmatch/backend/internal/weather"
)

// ErrValidation marks malformed completion input, e.g. negative scores.
var ErrValidation = errors.New("invalid input")

// Service owns match state transitions: completion, expiry and reminders.
// All collaborators are injected; the heavy computations (rating, scoring,
// achievement checks) stay pure and live in their own packages.
type Service struct {
	store    store.Store
	notifier *notify.Publisher
	weather  weather.Provider
	cfg      *config.Config
}

// NewService wires the lifecycle service. weather may be nil: reminders then
// go out without a weather clause.
func NewService(st store.Store, notifier *notify.Publisher, wp weather.Provider, cfg *config.Config) *Service {
	return &Service{store: st, notifier: notifier, weather: wp, cfg: cfg}
}

func (s *Service) kFactor() int {
	if s.cfg != nil && s.cfg.EloKFactor > 0 {
		return s.cfg.EloKFactor
	}
	return rating.DefaultKFactor
}

// RatingChange reports one participant's rating movement.
type RatingChange struct {
	PlayerID string `json:"player_id"`
	Before   int    `json:"before"`
	After    int    `json:"after"`
	Change   int    `json:"change"`
}

// CompletionResult is returned to the caller of Complete.
type CompletionResult struct {
	MatchID  string         `json:"match_id"`
	Outcome  rating.Outcome `json:"outcome"`
	Creator  RatingChange   `json:"creator"`
	Opponent RatingChange   `json:"opponent"`
}

// Complete records a match result: derives the outcome, recomputes both
// ratings, persists the terminal transition with its history record in one
// guarded transaction, then runs achievement evaluation and notification
// fan-out for both participants.
//
// Re-invoking on a terminal match returns store.ErrAlreadyTerminal without
// touching ratings.
func (s *Service) Complete(ctx context.Context, matchID string, creatorScore, opponentScore int) (*CompletionResult, error) {
	if creatorScore < 0 || opponentScore < 0 {
		return nil, fmt.Errorf("%w: scores must be non-negative", ErrValidation)
	}

	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Terminal() {
		return nil, fmt.Errorf("match %s is %s: %w", matchID, match.Status, store.ErrAlreadyTerminal)
	}
	if !match.OpponentID.Valid {
		return nil, fmt.Errorf("%w: match %s has no opponent", ErrValidation, matchID)
	}

	creator, err := s.store.GetPlayer(ctx, match.CreatorID)
	if err != nil {
		return nil, err
	}
	opponent, err := s.store.GetPlayer(ctx, match.OpponentID.String)
	if err != nil {
		return nil, err
	}

	// A tie is exactly a draw; anything else is decided by strict comparison.
	outcome := rating.Draw
	switch {
	case creatorScore > opponentScore:
		outcome = rating.WinA
	case creatorScore < opponentScore:
		outcome = rating.WinB
	}

	newCreator, newOpponent := rating.Update(creator.Rating, opponent.Rating, outcome, s.kFactor())

	completion := store.Completion{
		MatchID:       matchID,
		CreatorScore:  creatorScore,
		OpponentScore: opponentScore,
		Creator: store.PlayerUpdate{
			ID:           creator.ID,
			Rating:       newCreator,
			Wins:         creator.Wins + winIncrement(outcome == rating.WinA),
			Losses:       creator.Losses + winIncrement(outcome == rating.WinB),
			TotalMatches: creator.TotalMatches + 1,
		},
		Opponent: store.PlayerUpdate{
			ID:           opponent.ID,
			Rating:       newOpponent,
			Wins:         opponent.Wins + winIncrement(outcome == rating.WinB),
			Losses:       opponent.Losses + winIncrement(outcome == rating.WinA),
			TotalMatches: opponent.TotalMatches + 1,
		},
		History: models.MatchHistory{
			MatchID:          matchID,
			Player1ID:        sql.NullString{String: creator.ID, Valid: true},
			Player2ID:        sql.NullString{String: opponent.ID, Valid: true},
			Player1EloBefore: creator.Rating,
			Player1EloAfter:  newCreator,
			Player2EloBefore: opponent.Rating,
			Player2EloAfter:  newOpponent,
		},
	}

	if err := s.store.CompleteMatch(ctx, completion); err != nil {
		return nil, err
	}

	result := &CompletionResult{
		MatchID: matchID,
		Outcome: outcome,
		Creator: RatingChange{
			PlayerID: creator.ID, Before: creator.Rating, After: newCreator, Change: newCreator - creator.Rating,
		},
		Opponent: RatingChange{
			PlayerID: opponent.ID, Before: opponent.Rating, After: newOpponent, Change: newOpponent - opponent.Rating,
		},
	}

	log.Printf("[LIFECYCLE] match %s completed %d-%d: %s %d->%d, %s %d->%d",
		matchID, creatorScore, opponentScore,
		creator.ID, creator.Rating, newCreator,
		opponent.ID, opponent.Rating, newOpponent)

	// Side effects run after persistence and are best-effort: a failed grant
	// or notification must not undo a recorded result.
	if s.notifier != nil {
		s.notifier.Emit(ctx, notify.Event{
			Kind:       notify.MatchStatusChange,
			Name:       "completed",
			MatchID:    matchID,
			CreatorID:  creator.ID,
			OpponentID: opponent.ID,
			Payload: models.Metadata{
				"creator_score":  creatorScore,
				"opponent_score": opponentScore,
			},
		})
	}
	s.awardAchievements(ctx, creator.ID)
	s.awardAchievements(ctx, opponent.ID)

	return result, nil
}

func winIncrement(won bool) int {
	if won {
		return 1
	}
	return 0
}

// ExpiryOutcome reports one match's fate during a sweep.
type ExpiryOutcome struct {
	MatchID string `json:"match_id"`
	Expired bool   `json:"expired"`
	Err     error  `json:"-"`
}

// ExpiryReport aggregates a sweep.
type ExpiryReport struct {
	Expired  int             `json:"expired"`
	Outcomes []ExpiryOutcome `json:"outcomes,omitempty"`
}

// ExpireDue transitions every scheduled match whose time has passed. Each row
// is expired independently: one failure never aborts the batch, and matches
// that already turned terminal (by a racing sweep or completion) are skipped
// by the status guard. Expiry never touches ratings or win/loss counts.
func (s *Service) ExpireDue(ctx context.Context, now time.Time) (ExpiryReport, error) {
	due, err := s.store.DueMatches(ctx, now)
	if err != nil {
		return ExpiryReport{}, err
	}

	report := ExpiryReport{}
	for _, match := range due {
		expired, err := s.store.ExpireMatch(ctx, match.ID)
		report.Outcomes = append(report.Outcomes, ExpiryOutcome{MatchID: match.ID, Expired: expired, Err: err})
		if err != nil {
			log.Printf("[EXPIRY] match %s: %v", match.ID, err)
			continue
		}
		if !expired {
			continue
		}
		report.Expired++
		if s.notifier != nil {
			s.notifier.Emit(ctx, notify.Event{
				Kind:       notify.MatchStatusChange,
				Name:       "expired",
				MatchID:    match.ID,
				CreatorID:  match.CreatorID,
				OpponentID: match.OpponentID.String,
			})
		}
	}

	if report.Expired > 0 {
		log.Printf("[EXPIRY] expired %d of %d due matches", report.Expired, len(due))
	}
	return report, nil
}

// ReminderOutcome reports one upcoming match's reminder fan-out.
type ReminderOutcome struct {
	MatchID  string `json:"match_id"`
	Notified int    `json:"notified"`
	Weather  bool   `json:"weather"`
}

// ReminderReport aggregates a reminder sweep.
type ReminderReport struct {
	Reminded int               `json:"reminded"`
	Outcomes []ReminderOutcome `json:"outcomes,omitempty"`
}

// RemindUpcoming notifies participants of matches starting within window of
// now. Outdoor venues get a weather clause when the provider can supply one;
// any weather or court failure degrades to a plain reminder rather than
// dropping it.
func (s *Service) RemindUpcoming(ctx context.Context, now time.Time, window time.Duration) (ReminderReport, error) {
	upcoming, err := s.store.UpcomingMatches(ctx, now, now.Add(window))
	if err != nil {
		return ReminderReport{}, err
	}

	report := ReminderReport{}
	for _, match := range upcoming {
		clause := s.weatherClause(ctx, match)
		message := fmt.Sprintf("Match in %d minutes.%s", int(window.Minutes()), clause)

		var batch []models.Notification
		for _, id := range []string{match.CreatorID, match.OpponentID.String} {
			if id == "" {
				continue
			}
			batch = append(batch, models.Notification{
				UserID:   sql.NullString{String: id, Valid: true},
				Type:     notify.TypeReminder,
				Title:    "Match Reminder",
				Message:  message,
				Metadata: models.Metadata{"match_id": match.ID},
			})
		}
		if s.notifier != nil {
			s.notifier.Dispatch(ctx, batch...)
		}

		report.Reminded++
		report.Outcomes = append(report.Outcomes, ReminderOutcome{
			MatchID:  match.ID,
			Notified: len(batch),
			Weather:  clause != "",
		})
	}

	if report.Reminded > 0 {
		log.Printf("[REMINDER] reminded %d upcoming matches", report.Reminded)
	}
	return report, nil
}

// weatherClause returns " Weather: <desc>, <temp>°C" for outdoor venues, or
// the empty string when the venue is indoors, unknown, or the provider is
// absent or failing.
func (s *Service) weatherClause(ctx context.Context, match models.Match) string {
	if s.weather == nil || !match.CourtID.Valid {
		return ""
	}
	court, err := s.store.GetCourt(ctx, match.CourtID.String)
	if err != nil {
		log.Printf("[REMINDER] court lookup for match %s: %v", match.ID, err)
		return ""
	}
	if !court.Outdoor {
		return ""
	}
	cond, err := s.weather.Current(ctx, court.Latitude, court.Longitude)
	if err != nil {
		log.Printf("[REMINDER] weather unavailable for match %s: %v", match.ID, err)
		return ""
	}
	return fmt.Sprintf(" Weather: %s, %.1f°C", cond.Description, cond.TempC)
}

// awardAchievements runs one evaluation pass for a player after a completed
// match. Grants and their notifications are best-effort; failures are logged
// and never propagate to the completion that triggered them.
func (s *Service) awardAchievements(ctx context.Context, playerID string) {
	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		log.Printf("[ACHIEVEMENT] load player %s: %v", playerID, err)
		return
	}
	catalog, err := s.store.AchievementCatalog(ctx)
	if err != nil {
		log.Printf("[ACHIEVEMENT] load catalog: %v", err)
		return
	}
	granted, err := s.store.GrantedAchievements(ctx, playerID)
	if err != nil {
		log.Printf("[ACHIEVEMENT] load grants for %s: %v", playerID, err)
		return
	}

	for _, earned := range achievements.Evaluate(*player, catalog, granted) {
		if err := s.store.GrantAchievement(ctx, playerID, earned.ID); err != nil {
			log.Printf("[ACHIEVEMENT] grant %s to %s: %v", earned.ID, playerID, err)
			continue
		}
		log.Printf("[ACHIEVEMENT] %s earned %q", playerID, earned.Name)
		if s.notifier != nil {
			rule := earned
			s.notifier.Emit(ctx, notify.Event{
				Kind:        notify.AchievementGranted,
				UserID:      playerID,
				Achievement: &rule,
			})
		}
	}
}
