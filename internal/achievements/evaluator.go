package achievements

import "github.com/sportsmatch/backend/internal/models"

// Evaluate returns the catalog rules the player newly qualifies for, in
// catalog order. Rules already present in granted are skipped, so grants stay
// idempotent per (player, achievement). All qualifying rules are returned in
// one pass.
func Evaluate(player models.Player, catalog []models.Achievement, granted map[string]struct{}) []models.Achievement {
	var earned []models.Achievement
	for _, rule := range catalog {
		if _, held := granted[rule.ID]; held {
			continue
		}
		if qualifies(player, rule) {
			earned = append(earned, rule)
		}
	}
	return earned
}

func qualifies(player models.Player, rule models.Achievement) bool {
	switch rule.RequirementType {
	case models.RequireWins:
		return player.Wins >= rule.RequirementValue
	case models.RequireRating:
		return player.Rating >= rule.RequirementValue
	case models.RequireTotalMatches:
		return player.TotalMatches >= rule.RequirementValue
	}
	return false
}
