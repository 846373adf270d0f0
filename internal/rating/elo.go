package rating

import "math"

// DefaultRating is the rating every new player starts at.
const DefaultRating = 1200

// DefaultKFactor controls the magnitude of rating change per match.
const DefaultKFactor = 32

// Outcome is the result of a match from player A's perspective.
type Outcome float64

const (
	WinA Outcome = 1.0
	WinB Outcome = 0.0
	Draw Outcome = 0.5
)

// Expected returns A's expected score against B. Always strictly inside
// (0, 1), so the update below can never be degenerate.
func Expected(ratingA, ratingB int) float64 {
	return 1 / (1 + math.Pow(10, float64(ratingB-ratingA)/400))
}

// Update computes both players' new ratings for the given outcome.
// Pure and deterministic; rounding is to nearest, ties away from zero.
func Update(ratingA, ratingB int, outcome Outcome, kFactor int) (int, int) {
	k := float64(kFactor)
	newA := math.Round(float64(ratingA) + k*(float64(outcome)-Expected(ratingA, ratingB)))
	newB := math.Round(float64(ratingB) + k*((1-float64(outcome))-Expected(ratingB, ratingA)))
	return int(newA), int(newB)
}
