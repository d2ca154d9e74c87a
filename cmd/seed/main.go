// Command main runs the database seeder for Caseboard.
package main

import (
	"flag"
	"log"

	"caseboard/internal/config"
	"caseboard/internal/database"
	"caseboard/internal/seed"
)

func main() {
	numClinicians := flag.Int("clinicians", 25, "Number of clinician accounts to create")
	numCases := flag.Int("cases", 100, "Number of case posts to create")
	maxComments := flag.Int("max-comments", 5, "Maximum comments per case")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext placeholder passwords (fast, dev only)")
	dryRun := flag.Bool("dry-run", false, "Build entities without writing to the database")
	deckPath := flag.String("deck", "", "Seed a curated demo deck YAML instead of random data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *deckPath != "" {
		deck, err := seed.LoadDeck(*deckPath)
		if err != nil {
			log.Fatalf("Deck load failed: %v", err)
		}
		if err := seed.SeedDeck(db, deck); err != nil {
			log.Fatalf("Deck seeding failed: %v", err)
		}
		log.Printf("Deck seeded: %d clinicians, %d cases", len(deck.Clinicians), len(deck.Cases))
		return
	}

	opts := seed.Options{
		NumClinicians:      *numClinicians,
		NumCases:           *numCases,
		MaxCommentsPerCase: *maxComments,
		ShouldClean:        *shouldClean,
		SkipBcrypt:         *skipBcrypt,
		DryRun:             *dryRun,
	}
	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
