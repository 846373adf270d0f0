package matchmaking

import (
	"math"
	"sort"
	"time"

	"github.com/sportsmatch/backend/internal/models"
)

// Scoring weights. Candidates start at a base score and collect bonuses and
// penalties; the result never goes below zero.
const (
	baseScore         = 100.0
	availabilityBonus = 15.0
	playstyleBonus    = 20.0
	recencyPenalty    = 25.0
	maxResults        = 3
)

// Candidate is a pre-filtered potential opponent. The store has already
// applied the geographic radius and the +/-200 rating band; the scorer only
// ranks.
type Candidate struct {
	Player   models.Player
	Distance float64
}

// RankedOpponent is one scored result. Midpoint is the arithmetic mean of the
// requester's and the candidate's coordinates.
type RankedOpponent struct {
	Player   models.Player   `json:"player"`
	Score    float64         `json:"score"`
	Distance float64         `json:"distance"`
	Midpoint models.GeoPoint `json:"midpoint"`
}

// RankOpponents scores every candidate against the requester and returns the
// top results, highest score first. Ties keep the candidates' input order, so
// ranking is deterministic. An empty candidate list yields an empty result.
//
// recentIDs holds players seen in recent match history; facing one of them
// again costs recencyPenalty.
func RankOpponents(requester models.Player, scheduleTime time.Time, candidates []Candidate, recentIDs map[string]struct{}, playstyle string) []RankedOpponent {
	origin := requester.Location(models.GeoPoint{})
	ranked := make([]RankedOpponent, 0, len(candidates))

	for _, c := range candidates {
		gap := math.Abs(float64(requester.Rating - c.Player.Rating))
		score := math.Max(0, baseScore-gap/10)

		if c.Player.Availability.Covers(scheduleTime) {
			score += availabilityBonus
		}
		if c.Player.Playstyle == playstyle {
			score += playstyleBonus
		}
		if _, recent := recentIDs[c.Player.ID]; recent {
			score -= recencyPenalty
		}

		// A candidate without coordinates collapses the midpoint onto the
		// requester's own position.
		loc := c.Player.Location(origin)
		ranked = append(ranked, RankedOpponent{
			Player:   c.Player,
			Score:    math.Max(0, score),
			Distance: c.Distance,
			Midpoint: models.GeoPoint{
				Latitude:  (origin.Latitude + loc.Latitude) / 2,
				Longitude: (origin.Longitude + loc.Longitude) / 2,
			},
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}
