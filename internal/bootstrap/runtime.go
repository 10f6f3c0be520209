// Package bootstrap prepares the database, cache and reference data a process
// needs before it can serve requests.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"forum/internal/auth"
	"forum/internal/cache"
	"forum/internal/config"
	"forum/internal/database"
	"forum/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedReferenceData inserts the study program list and the admin account.
	SeedReferenceData bool
}

// InitRuntime connects to DB and Redis, applies the schema and optionally seeds
// reference data. The returned redis client is nil when caching is disabled.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		return nil, nil, fmt.Errorf("schema apply failed: %w", err)
	}

	// May be nil if Redis is unset or unreachable.
	r := cache.InitRedis(cfg.RedisURL)

	if opts.SeedReferenceData {
		if err := SeedReferenceData(ctx, cfg, db); err != nil {
			return nil, nil, err
		}
	}

	return db, r, nil
}

// SeedReferenceData ensures the study programs and the configured admin exist.
// An empty admin username or password skips the admin.
func SeedReferenceData(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	seeder := seed.NewSeeder(db, auth.NewBcryptHasher(cfg.BcryptCost))

	if _, err := seeder.StudyPrograms(ctx); err != nil {
		return fmt.Errorf("failed to seed study programs: %w", err)
	}

	username := strings.TrimSpace(cfg.SeedAdminUsername)
	if username == "" || cfg.SeedAdminPassword == "" {
		log.Println("admin seeding skipped: SEED_ADMIN_USERNAME or SEED_ADMIN_PASSWORD is empty")
		return nil
	}
	if _, err := seeder.Admin(ctx, username, cfg.SeedAdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin %q: %w", username, err)
	}
	return nil
}
