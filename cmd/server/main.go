package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"github.com/sportsmatch/backend/internal/api"
	"github.com/sportsmatch/backend/internal/config"
	"github.com/sportsmatch/backend/internal/database"
	"github.com/sportsmatch/backend/internal/lifecycle"
	"github.com/sportsmatch/backend/internal/migrations"
	"github.com/sportsmatch/backend/internal/notify"
	"github.com/sportsmatch/backend/internal/redis"
	"github.com/sportsmatch/backend/internal/store"
	"github.com/sportsmatch/backend/internal/weather"
)

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

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	st := store.NewPostgres(db)
	publisher := notify.NewPublisher(st, rdb)

	// Weather is optional; a nil client means reminders skip the weather clause
	weatherClient := weather.NewClient(cfg, rdb)
	if weatherClient == nil {
		log.Printf("[WEATHER] OpenWeather not configured - reminders will omit weather context")
	} else {
		log.Printf("[WEATHER] OpenWeather client initialized (base=%s)", cfg.OpenWeatherBaseURL)
	}

	var provider weather.Provider
	if weatherClient != nil {
		provider = weatherClient
	}
	svc := lifecycle.NewService(st, publisher, provider, cfg)

	// Start the expiry and reminder sweeps
	startSweeps(svc, cfg)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, st, svc, publisher, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting SportsMatch server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// startSweeps schedules the periodic expiry and reminder sweeps.
func startSweeps(svc *lifecycle.Service, cfg *config.Config) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(time.Duration(cfg.ExpirySweepMinutes)*time.Minute),
		gocron.NewTask(func() {
			report, err := svc.ExpireDue(context.Background(), time.Now())
			if err != nil {
				log.Printf("[EXPIRY] scheduled sweep failed: %v", err)
				return
			}
			if report.Expired > 0 {
				log.Printf("[EXPIRY] scheduled sweep expired %d matches", report.Expired)
			}
		}),
	)
	if err != nil {
		log.Fatalf("Failed to schedule expiry sweep: %v", err)
	}

	window := time.Duration(cfg.ReminderWindowMinutes) * time.Minute
	_, err = sched.NewJob(
		gocron.DurationJob(time.Duration(cfg.ReminderSweepMinutes)*time.Minute),
		gocron.NewTask(func() {
			if _, err := svc.RemindUpcoming(context.Background(), time.Now(), window); err != nil {
				log.Printf("[REMINDER] scheduled sweep failed: %v", err)
			}
		}),
	)
	if err != nil {
		log.Fatalf("Failed to schedule reminder sweep: %v", err)
	}

	sched.Start()
	log.Printf("[SWEEP] expiry every %dm, reminders every %dm (window %dm)",
		cfg.ExpirySweepMinutes, cfg.ReminderSweepMinutes, cfg.ReminderWindowMinutes)
}
