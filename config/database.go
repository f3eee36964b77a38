package config

import (
	"fmt"

	"github.com/platemate/partner-loyalty/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which the claim coordinator relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	if err := MigrateModels(DB); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}

// MigrateModels runs the schema migration for every model the engine owns.
// Shared with the test harness, which migrates the same set into sqlite.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PartnerProfile{},
		&models.LevelHistory{},
		&models.PartnerMilestone{},
		&models.PartnerTask{},
		&models.PartnerJackpot{},
		&models.PartnerOffer{},
		&models.Wallet{},
		&models.WalletTransaction{},
	)
}
