package storage

import (
	"context"

	"github.com/isdelr/portfolio-be/internal/config"
	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/rs/zerolog/log"
)

// Open selects the storage backend once at startup. An empty DATABASE_URL
// selects memory; a relational backend that cannot be reached or migrated
// degrades to memory instead of aborting.
func Open(ctx context.Context, cfg config.Database) Store {
	if cfg.URL == "" {
		log.Warn().Msg("No DATABASE_URL configured, using in-memory storage")
		return NewMemoryStore()
	}

	db, dialect, err := database.New(ctx, cfg.URL)
	if err != nil {
		log.Warn().Err(err).Msg("Relational database unavailable, falling back to in-memory storage")
		return NewMemoryStore()
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			log.Warn().Err(err).Msg("Failed to migrate database, falling back to in-memory storage")
			db.Close()
			return NewMemoryStore()
		}
	}

	log.Info().Str("dialect", dialect.Name).Msg("Connected to relational database")
	return NewSQLStore(db, dialect)
}
