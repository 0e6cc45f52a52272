// Command seed-statuses writes the shipped status table and transition graph
// into the configuration tables. Safe to re-run; existing rows are updated in
// place.
package main

import (
	"log"
	"time"

	"editorial-platform-api/config"
	"editorial-platform-api/models"
	"editorial-platform-api/services"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	cfg := services.DefaultRegistryConfig()
	now := time.Now()

	for _, def := range cfg.Statuses {
		action := def.Action
		row := models.SubmissionStatus{
			StatusCode:       def.Code,
			StatusName:       def.Code,
			Action:           &action,
			IsInitial:        def.Code == cfg.InitialStatus,
			IsAssigned:       def.Code == cfg.AssignedStatus,
			IsPublished:      def.Code == cfg.PublishedStatus,
			IsRevisionFamily: def.RevisionFamily,
			IsTerminalNeg:    def.TerminalNegative,
			IsReviewerAction: def.ReviewerDecision,
			CreateAt:         &now,
			UpdateAt:         &now,
		}
		err := config.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "status_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"action", "is_initial", "is_assigned", "is_published",
				"is_revision_family", "is_terminal_negative",
				"is_reviewer_decision", "update_at",
			}),
		}).Create(&row).Error
		if err != nil {
			log.Fatalf("Failed to seed status %s: %v", def.Code, err)
		}
	}

	for from, targets := range cfg.Transitions {
		for _, to := range targets {
			row := models.SubmissionTransition{
				FromStatus: from,
				ToStatus:   to,
				CreateAt:   &now,
			}
			err := config.DB.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "from_status"}, {Name: "to_status"}},
				DoNothing: true,
			}).Create(&row).Error
			if err != nil {
				log.Fatalf("Failed to seed transition %s -> %s: %v", from, to, err)
			}
		}
	}

	log.Println("Status configuration seeded successfully")
}
