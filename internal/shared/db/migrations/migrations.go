package migrations

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sponsorhub/bidengine/internal/shared/config"
	"github.com/sponsorhub/bidengine/internal/shared/logger"
)

var log = logger.GetLogger()

// RunMigrations brings the snapshot-store schema up to date.
func RunMigrations() error {
	m, err := migrate.New(
		"file://internal/shared/db/migrations/sql",
		config.BuildPostgresDSN(),
	)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	log.Info("database migrations up to date")
	return nil
}
