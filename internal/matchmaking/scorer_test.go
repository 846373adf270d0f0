package matchmaking

import (
	"database/sql"
	"testing"
	"time"

	"github.com/sportsmatch/backend/internal/models"
)

// Monday 2024-06-03 18:00 UTC: hour 18, weekday 1.
var schedule = time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC)

func player(id string, elo int) models.Player {
	return models.Player{
		ID:        id,
		Rating:    elo,
		Playstyle: "competitive",
		Latitude:  sql.NullFloat64{Float64: 0.33, Valid: true},
		Longitude: sql.NullFloat64{Float64: 32.58, Valid: true},
	}
}

func noRecent() map[string]struct{} { return map[string]struct{}{} }

func TestEmptyCandidateListYieldsEmptyRanking(t *testing.T) {
	got := RankOpponents(player("req", 1200), schedule, nil, noRecent(), "casual")
	if len(got) != 0 {
		t.Errorf("expected empty ranking, got %d results", len(got))
	}
}

func TestRatingGapPenalty(t *testing.T) {
	req := player("req", 1200)
	candidates := []Candidate{{Player: player("a", 1350)}}
	got := RankOpponents(req, schedule, candidates, noRecent(), "other")
	// |1200-1350|/10 = 15 off the base of 100.
	if got[0].Score != 85 {
		t.Errorf("expected score 85, got %v", got[0].Score)
	}
}

func TestPlaystyleBonus(t *testing.T) {
	req := player("req", 1200)
	candidates := []Candidate{{Player: player("a", 1200)}}
	got := RankOpponents(req, schedule, candidates, noRecent(), "competitive")
	if got[0].Score != 120 {
		t.Errorf("expected score 120 with playstyle bonus, got %v", got[0].Score)
	}
}

func TestAvailabilityBonusRequiresHourAndDay(t *testing.T) {
	req := player("req", 1200)

	match := player("a", 1200)
	match.Availability = models.Availability{PreferredHours: []int{18}, PreferredDays: []int{1}}

	hourOnly := player("b", 1200)
	hourOnly.Availability = models.Availability{PreferredHours: []int{18}, PreferredDays: []int{5}}

	missing := player("c", 1200)

	got := RankOpponents(req, schedule, []Candidate{{Player: match}, {Player: hourOnly}, {Player: missing}}, noRecent(), "other")
	if got[0].Player.ID != "a" || got[0].Score != 115 {
		t.Errorf("expected a first with 115, got %s with %v", got[0].Player.ID, got[0].Score)
	}
	if got[1].Score != 100 || got[2].Score != 100 {
		t.Errorf("hour-only and absent availability must not earn the bonus: %v %v", got[1].Score, got[2].Score)
	}
}

func TestRecencyPenalty(t *testing.T) {
	req := player("req", 1200)
	candidates := []Candidate{{Player: player("recent", 1200)}, {Player: player("fresh", 1200)}}
	recent := map[string]struct{}{"recent": {}}

	got := RankOpponents(req, schedule, candidates, recent, "other")
	if got[0].Player.ID != "fresh" {
		t.Errorf("fresh candidate should outrank recent one, got %s first", got[0].Player.ID)
	}
	if diff := got[0].Score - got[1].Score; diff != 25 {
		t.Errorf("recency penalty should be exactly 25, got %v", diff)
	}
}

func TestScoreFlooredAtZero(t *testing.T) {
	req := player("req", 1200)
	// Gap penalty alone drives the score to 0; recency cannot push it negative.
	candidates := []Candidate{{Player: player("far", 2400)}}
	got := RankOpponents(req, schedule, candidates, map[string]struct{}{"far": {}}, "other")
	if got[0].Score != 0 {
		t.Errorf("expected floored score 0, got %v", got[0].Score)
	}
}

func TestTiesKeepInputOrder(t *testing.T) {
	req := player("req", 1200)
	candidates := []Candidate{
		{Player: player("first", 1250)},
		{Player: player("second", 1150)},
	}
	got := RankOpponents(req, schedule, candidates, noRecent(), "other")
	if got[0].Player.ID != "first" || got[1].Player.ID != "second" {
		t.Errorf("tie must preserve input order: got %s, %s", got[0].Player.ID, got[1].Player.ID)
	}
}

func TestOnlyTopThreeReturned(t *testing.T) {
	req := player("req", 1200)
	candidates := []Candidate{
		{Player: player("a", 1600)},
		{Player: player("b", 1210)},
		{Player: player("c", 1250)},
		{Player: player("d", 1300)},
		{Player: player("e", 1500)},
	}
	got := RankOpponents(req, schedule, candidates, noRecent(), "other")
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0].Player.ID != "b" || got[1].Player.ID != "c" || got[2].Player.ID != "d" {
		t.Errorf("wrong top 3: %s, %s, %s", got[0].Player.ID, got[1].Player.ID, got[2].Player.ID)
	}
}

func TestMidpoint(t *testing.T) {
	req := player("req", 1200)
	req.Latitude = sql.NullFloat64{Float64: 10, Valid: true}
	req.Longitude = sql.NullFloat64{Float64: 20, Valid: true}

	cand := player("a", 1200)
	cand.Latitude = sql.NullFloat64{Float64: 30, Valid: true}
	cand.Longitude = sql.NullFloat64{Float64: 40, Valid: true}

	got := RankOpponents(req, schedule, []Candidate{{Player: cand}}, noRecent(), "other")
	if got[0].Midpoint.Latitude != 20 || got[0].Midpoint.Longitude != 30 {
		t.Errorf("expected midpoint (20, 30), got (%v, %v)", got[0].Midpoint.Latitude, got[0].Midpoint.Longitude)
	}
}

func TestMidpointDegeneratesToRequesterWhenCandidateUnlocated(t *testing.T) {
	req := player("req", 1200)
	req.Latitude = sql.NullFloat64{Float64: 10, Valid: true}
	req.Longitude = sql.NullFloat64{Float64: 20, Valid: true}

	cand := player("a", 1200)
	cand.Latitude = sql.NullFloat64{}
	cand.Longitude = sql.NullFloat64{}

	got := RankOpponents(req, schedule, []Candidate{{Player: cand}}, noRecent(), "other")
	if got[0].Midpoint.Latitude != 10 || got[0].Midpoint.Longitude != 20 {
		t.Errorf("expected requester's own position, got (%v, %v)", got[0].Midpoint.Latitude, got[0].Midpoint.Longitude)
	}
}
