package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points config.DB at a fresh in-memory sqlite database with the
// full schema migrated, and returns the loyalty config defaults.
func setupTestDB(t *testing.T) *config.LoyaltyConfig {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, config.MigrateModels(db))
	config.DB = db

	cfg, err := config.LoadLoyaltyConfig("")
	require.NoError(t, err)
	config.Loyalty = cfg
	return cfg
}

// createTestUser inserts a user row for enrollment tests.
func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "Partner",
		Phone:     "+911234567890",
	}
	require.NoError(t, config.DB.Create(user).Error)
	return user
}

// enrollTestPartner creates a user and their loyalty profile with the
// default catalog.
func enrollTestPartner(t *testing.T, cfg *config.LoyaltyConfig) (*models.User, *models.PartnerProfile) {
	t.Helper()

	user := createTestUser(t, fmt.Sprintf("%s@example.com", uuid.NewString()[:8]))
	profile, err := EnrollPartner(user.ID, cfg, time.Now())
	require.NoError(t, err)
	return user, profile
}

// walletBalance reads the user's current wallet balance, zero when no wallet
// exists yet.
func walletBalance(t *testing.T, userID uint) float64 {
	t.Helper()

	var wallet models.Wallet
	err := config.DB.Where("user_id = ?", userID).First(&wallet).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return wallet.Balance
}

// creditCount counts ledger rows for the user's wallet with the given reason.
func creditCount(t *testing.T, userID uint, reasonCode string) int64 {
	t.Helper()

	var wallet models.Wallet
	err := config.DB.Where("user_id = ?", userID).First(&wallet).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)

	var count int64
	require.NoError(t, config.DB.Model(&models.WalletTransaction{}).
		Where("wallet_id = ? AND reason_code = ?", wallet.ID, reasonCode).
		Count(&count).Error)
	return count
}
