package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/groupstage/groupstage-backend/internal/config"
	"github.com/groupstage/groupstage-backend/internal/lifecycle"
	"github.com/groupstage/groupstage-backend/internal/models"
	mongorepo "github.com/groupstage/groupstage-backend/internal/repositories/mongodb"
	"github.com/groupstage/groupstage-backend/internal/services"
	"github.com/groupstage/groupstage-backend/pkg/mongodb"
)

// One-shot sweep for cron or manual runs. With SWEEP_DRY_RUN=true the script
// only reports the promotions a sweep would make.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := config.GetEnv("MONGODB_URI", "")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}
	dbName := config.GetEnv("MONGODB_DATABASE", "groupstage")
	dryRun := config.GetEnvAsBool("SWEEP_DRY_RUN", false)
	timeoutSeconds := config.GetEnvAsInt("SWEEP_TIMEOUT_SECONDS", 60)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	client, err := mongodb.NewClient(ctx, mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)
	eventRepo := mongorepo.NewEventRepository(db)
	groupRepo := mongorepo.NewGroupRepository(db)
	teamRepo := mongorepo.NewTeamRepository(db)

	now := time.Now()

	if dryRun {
		statuses := []models.EventStatus{models.EventStatusScheduled, models.EventStatusActive}
		due := 0
		err := eventRepo.StreamByStatuses(ctx, statuses, func(event models.Event) error {
			recommended := lifecycle.AppropriateStatus(event, now)
			if recommended == event.Status {
				return nil
			}
			due++
			log.Printf("would promote %s (%q) from %s to %s", event.ID.Hex(), event.Title, event.Status, recommended)
			return nil
		})
		if err != nil {
			log.Fatalf("Failed to scan events: %v", err)
		}
		log.Printf("dry run complete: %d event(s) due for promotion", due)
		return
	}

	eventService := services.NewEventService(eventRepo, groupRepo, teamRepo, nil, nil)
	report, err := eventService.SweepDueEvents(ctx, now)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	log.Printf("sweep complete: examined=%d promoted=%d conflicts=%d errors=%d",
		report.Examined, report.Promoted, report.Conflicts, report.Errors)
}
