package utils

import (
	"fmt"
	"testing"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func deliverOrders(t *testing.T, cfg *config.LoyaltyConfig, userID uint, count int, amount float64) *OrderDeliveredResult {
	t.Helper()
	var last *OrderDeliveredResult
	for i := 0; i < count; i++ {
		result, err := ApplyOrderDelivered(userID, fmt.Sprintf("order-%d-%d", userID, i), amount, cfg)
		require.NoError(t, err)
		last = result
	}
	return last
}

func TestApplyOrderDeliveredMovesCounters(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	result, err := ApplyOrderDelivered(user.ID, "order-1", 450, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalOrders)
	assert.Equal(t, 1, result.OrdersThisLevel)
	assert.Equal(t, 450.0, result.TotalSpent)
	assert.False(t, result.Promoted)

	profile, err := GetProfileByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.TotalOrders)
	assert.Equal(t, 450.0, profile.TotalSpent)
	assert.False(t, profile.LastActivityDate.IsZero())
}

func TestApplyOrderDeliveredValidation(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	_, err := ApplyOrderDelivered(user.ID, "", 100, cfg)
	require.ErrorIs(t, err, ErrValidation)

	_, err = ApplyOrderDelivered(user.ID, "order-1", 0, cfg)
	require.ErrorIs(t, err, ErrValidation)

	_, err = ApplyOrderDelivered(9999, "order-1", 100, cfg)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApplyOrderDeliveredAchievesMilestones(t *testing.T) {
	cfg := setupTestDB(t)
	user, profile := enrollTestPartner(t, cfg)

	deliverOrders(t, cfg, user.ID, 5, 100)

	var milestone models.PartnerMilestone
	require.NoError(t, config.DB.Where("profile_id = ? AND order_threshold = ?", profile.ID, 5).First(&milestone).Error)
	assert.True(t, milestone.Achieved)
	require.NotNil(t, milestone.AchievedAt)
	firstAchievedAt := *milestone.AchievedAt

	var later models.PartnerMilestone
	require.NoError(t, config.DB.Where("profile_id = ? AND order_threshold = ?", profile.ID, 10).First(&later).Error)
	assert.False(t, later.Achieved)

	// Further orders never re-achieve or un-achieve the earlier milestone.
	deliverOrders(t, cfg, user.ID, 2, 100)
	require.NoError(t, config.DB.Where("profile_id = ? AND order_threshold = ?", profile.ID, 5).First(&milestone).Error)
	assert.True(t, milestone.Achieved)
	assert.Equal(t, firstAchievedAt.Unix(), milestone.AchievedAt.Unix())
}

func TestApplyOrderDeliveredAchievesJackpots(t *testing.T) {
	cfg := setupTestDB(t)
	user, profile := enrollTestPartner(t, cfg)

	deliverOrders(t, cfg, user.ID, 3, 9000) // 27000 total spend

	var first, second models.PartnerJackpot
	require.NoError(t, config.DB.Where("profile_id = ? AND spend_threshold = ?", profile.ID, 25000.0).First(&first).Error)
	require.NoError(t, config.DB.Where("profile_id = ? AND spend_threshold = ?", profile.ID, 50000.0).First(&second).Error)
	assert.True(t, first.Achieved)
	assert.False(t, second.Achieved)
}

func TestTxnBonusPaidExactlyOncePerMultiple(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)
	interval := cfg.Tier(1).Benefits.TxnBonusInterval

	last := deliverOrders(t, cfg, user.ID, interval, 100)
	assert.Equal(t, cfg.Tier(1).Benefits.TxnBonusAmount, last.BonusPaid)
	assert.EqualValues(t, 1, creditCount(t, user.ID, models.ReasonTxnBonus))

	var bonusTx models.WalletTransaction
	require.NoError(t, config.DB.Where("reference = ?", fmt.Sprintf("txnbonus:%d:%d", user.ID, interval)).First(&bonusTx).Error)
	assert.Equal(t, models.TransactionStatusCompleted, bonusTx.Status)
}

func TestTxnBonusSkippedWhenMultipleAlreadyPaid(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)
	interval := cfg.Tier(1).Benefits.TxnBonusInterval

	deliverOrders(t, cfg, user.ID, interval-1, 100)

	// A duplicate delivery event already recorded this multiple's bonus.
	reference := fmt.Sprintf("txnbonus:%d:%d", user.ID, interval)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		_, err := CreditWalletTx(tx, user.ID, cfg.Tier(1).Benefits.TxnBonusAmount, models.ReasonTxnBonus, "Transaction bonus", reference)
		return err
	})
	require.NoError(t, err)

	result, err := ApplyOrderDelivered(user.ID, "order-dup", 100, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.BonusPaid)
	assert.EqualValues(t, 1, creditCount(t, user.ID, models.ReasonTxnBonus))
}

func TestSecondMultiplePaysSecondBonus(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)
	interval := cfg.Tier(1).Benefits.TxnBonusInterval

	deliverOrders(t, cfg, user.ID, 2*interval, 100)
	assert.EqualValues(t, 2, creditCount(t, user.ID, models.ReasonTxnBonus))
}

func TestApplyOrderDeliveredPromotesWhenEligible(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)
	needed := cfg.Tier(1).Requirements.OrderCount

	last := deliverOrders(t, cfg, user.ID, needed, 100)
	assert.True(t, last.Promoted)
	assert.Equal(t, 2, last.LevelOrdinal)
	assert.Equal(t, 0, last.OrdersThisLevel)

	profile, err := GetProfileByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.LevelOrdinal)
	assert.Equal(t, cfg.Tier(2).Name, profile.LevelName)

	var history models.LevelHistory
	require.NoError(t, config.DB.Where("profile_id = ?", profile.ID).First(&history).Error)
	assert.Equal(t, models.LevelChangeReasonPromotion, history.Reason)
	assert.Equal(t, 1, history.LevelOrdinal)
}

func TestApplyTaskProgressCompletesOnce(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	task, err := ApplyTaskProgress(user.ID, models.TaskKeyReferral, 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, task.ProgressCurrent)
	assert.False(t, task.Completed)

	task, err = ApplyTaskProgress(user.ID, models.TaskKeyReferral, 2, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, task.ProgressCurrent)
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)
	completedAt := *task.CompletedAt

	// Progress past the target keeps counting but completion stays put.
	task, err = ApplyTaskProgress(user.ID, models.TaskKeyReferral, 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, task.ProgressCurrent)
	assert.True(t, task.Completed)
	assert.Equal(t, completedAt.Unix(), task.CompletedAt.Unix())
}

func TestApplyTaskProgressValidation(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	_, err := ApplyTaskProgress(user.ID, "", 1, cfg)
	require.ErrorIs(t, err, ErrValidation)

	_, err = ApplyTaskProgress(user.ID, models.TaskKeyReferral, 0, cfg)
	require.ErrorIs(t, err, ErrValidation)

	_, err = ApplyTaskProgress(user.ID, "bogus_task", 1, cfg)
	require.ErrorIs(t, err, ErrNotFound)
}
