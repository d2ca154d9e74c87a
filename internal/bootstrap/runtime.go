// Package bootstrap wires process-level dependencies for the server and
// supporting commands.
package bootstrap

import (
	"fmt"
	"log"

	"caseboard/internal/cache"
	"caseboard/internal/config"
	"caseboard/internal/database"
	"caseboard/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// DemoDeckPath seeds a curated demo deck on startup when set.
	// Development convenience only.
	DemoDeckPath string
}

// InitRuntime connects to DB and Redis and optionally seeds the demo deck.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.DemoDeckPath != "" {
		if err := seedDemoDeck(cfg, db, opts.DemoDeckPath); err != nil {
			return nil, nil, err
		}
	}

	return db, r, nil
}

func seedDemoDeck(cfg *config.Config, db *gorm.DB, path string) error {
	if cfg.Env == "production" || cfg.Env == "prod" {
		return fmt.Errorf("demo deck seeding is not allowed in production")
	}
	deck, err := seed.LoadDeck(path)
	if err != nil {
		return fmt.Errorf("failed to load demo deck: %w", err)
	}
	if err := seed.SeedDeck(db, deck); err != nil {
		return fmt.Errorf("failed to seed demo deck: %w", err)
	}
	log.Printf("demo deck seeded from %s", path)
	return nil
}
