package repositories

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/staynear-app/server/internal/models"
)

// Connect opens the Postgres database and runs migrations. The returned
// handle is injected into the router and handlers; there is no package-level
// connection.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	logrus.Info("Successfully connected to database")
	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Friend{},
		&models.Position{},
		&models.FriendRequest{},
	)
}
