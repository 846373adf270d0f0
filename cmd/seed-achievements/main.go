package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/sportsmatch/backend/internal/config"
	"github.com/sportsmatch/backend/internal/database"
	"github.com/sportsmatch/backend/internal/models"
)

// defaultCatalog is the achievement catalog the engine evaluates against.
var defaultCatalog = []models.Achievement{
	{ID: "first-win", Name: "First Win", RequirementType: models.RequireWins, RequirementValue: 1},
	{ID: "winner-5", Name: "On a Roll", RequirementType: models.RequireWins, RequirementValue: 5},
	{ID: "winner-25", Name: "Serial Winner", RequirementType: models.RequireWins, RequirementValue: 25},
	{ID: "rating-1400", Name: "Rising Star", RequirementType: models.RequireRating, RequirementValue: 1400},
	{ID: "rating-1800", Name: "Local Legend", RequirementType: models.RequireRating, RequirementValue: 1800},
	{ID: "veteran-10", Name: "Regular", RequirementType: models.RequireTotalMatches, RequirementValue: 10},
	{ID: "veteran-50", Name: "Veteran", RequirementType: models.RequireTotalMatches, RequirementValue: 50},
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	for _, a := range defaultCatalog {
		_, err := db.Exec(`
			INSERT INTO achievements (id, name, requirement_type, requirement_value)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name,
			    requirement_type = EXCLUDED.requirement_type,
			    requirement_value = EXCLUDED.requirement_value
		`, a.ID, a.Name, a.RequirementType, a.RequirementValue)
		if err != nil {
			log.Fatalf("Failed to seed achievement %s: %v", a.ID, err)
		}
		log.Printf("✓ %s (%s >= %d)", a.Name, a.RequirementType, a.RequirementValue)
	}

	log.Printf("Seeded %d achievements", len(defaultCatalog))
}
