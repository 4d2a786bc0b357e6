// Package db contains the database connection setup
package db

import (
	"avekl/folio-api/internal/model"
	"fmt"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database. A postgres DSN is used when
// provided, otherwise the app falls back to a local SQLite file
// which is enough for a single-instance deployment.
func New() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	if dsn := viper.GetString("database.dsn"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres, %w", err)
		}
	} else {
		db, err = gorm.Open(sqlite.Open("database.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
		}
	}

	err = db.AutoMigrate(model.User{}, model.Post{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
