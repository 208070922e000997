// Command seed populates the board database for local development.
package main

import (
	"context"
	"flag"
	"log"

	"fanboard/internal/config"
	"fanboard/internal/database"
	"fanboard/internal/seed"
)

func main() {
	numMessages := flag.Int("messages", 12, "Number of demo messages to create")
	fixture := flag.String("fixture", "", "YAML fixture file to load instead of generated data")
	reset := flag.Bool("reset", false, "Drop and recreate all tables before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()

	if *reset {
		if err := database.Reset(db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
	}

	if err := seed.EnsureBootstrapAdmin(ctx, db); err != nil {
		log.Fatalf("Bootstrap admin seeding failed: %v", err)
	}

	if *fixture != "" {
		if err := seed.LoadFixture(ctx, db, *fixture); err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
		log.Printf("Loaded fixture %s", *fixture)
		return
	}

	if err := seed.DemoData(ctx, db, *numMessages); err != nil {
		log.Fatalf("Demo seeding failed: %v", err)
	}
	log.Printf("Seeded %d demo messages", *numMessages)
}
