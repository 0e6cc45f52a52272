// Command legacy-import migrates posts from the legacy CMS export table into
// published submissions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"editorial-platform-api/config"
	"editorial-platform-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	var (
		limit      int
		dryRun     bool
		importerID int
	)

	flag.IntVar(&limit, "limit", 0, "maximum number of legacy posts to process (0 = all)")
	flag.BoolVar(&dryRun, "dry-run", false, "extract and report without writing to the database")
	flag.IntVar(&importerID, "importer-id", 0, "user ID recorded as the importing operator")
	flag.Parse()

	if limit < 0 {
		log.Fatal("limit must be greater than or equal to 0")
	}
	if importerID <= 0 {
		log.Fatal("importer-id is required")
	}

	svc, err := services.DefaultLegacyImportService()
	if err != nil {
		log.Fatalf("legacy import failed to start: %v", err)
	}

	summary, err := svc.Run(context.Background(), services.LegacyImportInput{
		Limit:      limit,
		DryRun:     dryRun,
		ImporterID: importerID,
	})
	if err != nil {
		log.Fatalf("legacy import failed: %v", err)
	}

	fmt.Printf("Posts processed: %d, imported: %d, failed: %d\n",
		summary.PostsProcessed, summary.PostsImported, summary.PostsFailed)

	if dryRun {
		fmt.Println("Dry run complete. No database changes were made.")
	}

	if summary.PostsFailed > 0 {
		os.Exit(2)
	}
}
