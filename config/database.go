package config

import (
	"os"

	"github.com/flashzen/flashzen-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Database *gorm.DB

func Connect() error {
	var err error
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		// Local development runs against an on-disk sqlite file.
		Database, err = gorm.Open(sqlite.Open("flashzen.db"), &gorm.Config{})
	} else {
		Database, err = gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	}
	if err != nil {
		panic("failed to connect database")
	}

	err = Migrate(Database)
	if err != nil {
		panic("failed to auto migrate database")
	}

	return nil
}

// Migrate applies the schema for all models. Split out so tests can run it
// against their own connection.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Deck{},
		&models.Flashcard{},
		&models.RevisionStat{},
		&models.Activity{},
	)
}
