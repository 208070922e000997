// Command migrate runs schema operations for the board database.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"fanboard/internal/config"
	"fanboard/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|reset>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		// Connect already migrates; running it again is a no-op when the
		// schema is current.
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Println("schema is up to date")
	case "reset":
		if err := database.Reset(db); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		log.Println("storage reset to an empty schema")
	default:
		return usage()
	}
	return nil
}
