package achievements

import (
	"testing"

	"github.com/sportsmatch/backend/internal/models"
)

var catalog = []models.Achievement{
	{ID: "first-win", Name: "First Win", RequirementType: models.RequireWins, RequirementValue: 1},
	{ID: "winner-5", Name: "On a Roll", RequirementType: models.RequireWins, RequirementValue: 5},
	{ID: "elo-1400", Name: "Rising Star", RequirementType: models.RequireRating, RequirementValue: 1400},
	{ID: "veteran-10", Name: "Veteran", RequirementType: models.RequireTotalMatches, RequirementValue: 10},
}

func TestThresholdKinds(t *testing.T) {
	player := models.Player{ID: "p1", Wins: 5, Rating: 1250, TotalMatches: 12}
	earned := Evaluate(player, catalog, map[string]struct{}{})

	want := []string{"first-win", "winner-5", "veteran-10"}
	if len(earned) != len(want) {
		t.Fatalf("expected %d grants, got %d", len(want), len(earned))
	}
	for i, id := range want {
		if earned[i].ID != id {
			t.Errorf("grant %d: expected %s, got %s", i, id, earned[i].ID)
		}
	}
}

func TestExactThresholdQualifies(t *testing.T) {
	player := models.Player{ID: "p1", Rating: 1400}
	earned := Evaluate(player, catalog, map[string]struct{}{})
	if len(earned) != 1 || earned[0].ID != "elo-1400" {
		t.Errorf("rating exactly at threshold should qualify, got %v", earned)
	}
}

func TestAlreadyGrantedNeverRegranted(t *testing.T) {
	player := models.Player{ID: "p1", Wins: 7}
	held := map[string]struct{}{"first-win": {}, "winner-5": {}}
	earned := Evaluate(player, catalog, held)
	if len(earned) != 0 {
		t.Errorf("held achievements must not be re-granted, got %v", earned)
	}
}

func TestUnknownRequirementKindNeverQualifies(t *testing.T) {
	odd := []models.Achievement{{ID: "weird", RequirementType: "streak", RequirementValue: 1}}
	player := models.Player{ID: "p1", Wins: 100, Rating: 3000, TotalMatches: 100}
	if earned := Evaluate(player, odd, map[string]struct{}{}); len(earned) != 0 {
		t.Errorf("unknown kind should not qualify, got %v", earned)
	}
}
