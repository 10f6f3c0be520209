package database

import (
	"context"
	"fmt"
	"log/slog"

	"forum/internal/config"
	"forum/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// schemaPlan is what ApplySchema will do for a given configuration.
type schemaPlan struct {
	mode    string
	sql     bool
	autoMig bool
}

// planSchema resolves DB_SCHEMA_MODE against driver and environment. The SQL
// migrations are PostgreSQL dialect, so SQLite is always built by AutoMigrate.
// Production never auto-migrates a PostgreSQL database.
func planSchema(cfg *config.Config) (schemaPlan, error) {
	p := schemaPlan{mode: cfg.DBSchemaMode}
	if p.mode == "" {
		p.mode = SchemaModeHybrid
	}
	switch p.mode {
	case SchemaModeSQL, SchemaModeAuto, SchemaModeHybrid:
	default:
		return p, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", p.mode)
	}

	if cfg.DBDriver == "sqlite" {
		p.autoMig = true
		return p, nil
	}

	switch p.mode {
	case SchemaModeSQL:
		p.sql = true
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return p, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		p.autoMig = true
	case SchemaModeHybrid:
		p.sql = true
		p.autoMig = !cfg.IsProduction()
	}
	return p, nil
}

// AutoMigrate creates or updates every persistent table from the gorm models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema brings the database schema up to date according to DB_SCHEMA_MODE.
// SQL migrations run first so AutoMigrate only ever adds to a known baseline.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg)
	if err != nil {
		return err
	}

	if plan.sql {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if plan.autoMig {
		middleware.Logger.InfoContext(ctx, "running gorm automigrate",
			slog.String("mode", plan.mode),
			slog.String("driver", db.Dialector.Name()),
			slog.String("env", cfg.Env),
		)
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// SchemaStatus describes what ApplySchema would do and what is already applied.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

// GetSchemaStatus reports the schema plan and, when SQL migrations are in play,
// which embedded migrations are still pending.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               plan.mode,
		Environment:        cfg.Env,
		WillRunSQL:         plan.sql,
		WillRunAutoMigrate: plan.autoMig,
	}
	if !plan.sql {
		return status, nil
	}

	store := NewMigrationStore(db)
	if err := store.EnsureLogTable(ctx); err != nil {
		return nil, err
	}
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	if status.PendingMigrations, err = pending(applied, GetMigrations()); err != nil {
		return nil, err
	}
	return status, nil
}
