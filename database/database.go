// Package database wires the service to PostgreSQL: a GORM connection for
// the repositories and a plain SQL runner for migrations.
package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stockline/catalog-service/config"
	"github.com/stockline/catalog-service/models"
)

func Connect(cfg config.Database) (*gorm.DB, error) {
	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the repositories rely on.
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}
