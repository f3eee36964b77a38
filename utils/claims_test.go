package utils

import (
	"testing"
	"time"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func achieveMilestone(t *testing.T, profileID uint, orderThreshold int) {
	t.Helper()
	now := time.Now()
	res := config.DB.Model(&models.PartnerMilestone{}).
		Where("profile_id = ? AND order_threshold = ?", profileID, orderThreshold).
		Updates(map[string]interface{}{"achieved": true, "achieved_at": now})
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)
}

func achieveJackpot(t *testing.T, profileID uint, spendThreshold float64) {
	t.Helper()
	now := time.Now()
	res := config.DB.Model(&models.PartnerJackpot{}).
		Where("profile_id = ? AND spend_threshold = ?", profileID, spendThreshold).
		Updates(map[string]interface{}{"achieved": true, "achieved_at": now})
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)
}

func TestClaimMilestoneNotYetAchieved(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	_, err := ClaimMilestone(user.ID, 5)
	require.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Equal(t, 0.0, walletBalance(t, user.ID))
}

func TestClaimMilestoneExactlyOnce(t *testing.T) {
	cfg := setupTestDB(t)
	user, profile := enrollTestPartner(t, cfg)
	achieveMilestone(t, profile.ID, 5)

	result, err := ClaimMilestone(user.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.RewardAmount)
	assert.Equal(t, 50.0, result.WalletBalance)

	// Second claim loses: Conflict, and the wallet holds exactly one credit.
	_, err = ClaimMilestone(user.ID, 5)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 50.0, walletBalance(t, user.ID))
	assert.EqualValues(t, 1, creditCount(t, user.ID, models.ReasonMilestoneReward))
}

func TestClaimMilestoneUnknownThreshold(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	_, err := ClaimMilestone(user.ID, 7)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClaimMilestoneNoProfile(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "noprofile@example.com")

	_, err := ClaimMilestone(user.ID, 5)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClaimMilestoneRollsBackOnWalletFailure(t *testing.T) {
	cfg := setupTestDB(t)
	user, profile := enrollTestPartner(t, cfg)
	achieveMilestone(t, profile.ID, 5)

	// Break the ledger so the wallet-credit step fails mid-claim.
	require.NoError(t, config.DB.Migrator().DropTable(&models.WalletTransaction{}))

	_, err := ClaimMilestone(user.ID, 5)
	require.ErrorIs(t, err, ErrDependencyFailure)

	// Full rollback: the milestone must still be claimable.
	var milestone models.PartnerMilestone
	require.NoError(t, config.DB.Where("profile_id = ? AND order_threshold = ?", profile.ID, 5).First(&milestone).Error)
	assert.Nil(t, milestone.ClaimedAt)

	// The caller retries the whole operation once the dependency recovers.
	require.NoError(t, config.DB.AutoMigrate(&models.WalletTransaction{}))
	result, err := ClaimMilestone(user.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.WalletBalance)
	assert.EqualValues(t, 1, creditCount(t, user.ID, models.ReasonMilestoneReward))
}

func TestClaimTaskLifecycle(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	// Not completed yet.
	_, err := ClaimTask(user.ID, models.TaskKeyFirstReview)
	require.ErrorIs(t, err, ErrPreconditionFailed)

	_, err = ApplyTaskProgress(user.ID, models.TaskKeyFirstReview, 1, cfg)
	require.NoError(t, err)

	result, err := ClaimTask(user.ID, models.TaskKeyFirstReview)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.RewardAmount)

	_, err = ClaimTask(user.ID, models.TaskKeyFirstReview)
	require.ErrorIs(t, err, ErrConflict)
	assert.EqualValues(t, 1, creditCount(t, user.ID, models.ReasonTaskReward))
}

func TestClaimTaskUnknownKey(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	_, err := ClaimTask(user.ID, "bogus_task")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClaimJackpotUnknownThreshold(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	// 10000 is not a configured jackpot tier.
	_, err := ClaimJackpot(user.ID, 10000)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClaimJackpotExactlyOnce(t *testing.T) {
	cfg := setupTestDB(t)
	user, profile := enrollTestPartner(t, cfg)

	_, err := ClaimJackpot(user.ID, 25000)
	require.ErrorIs(t, err, ErrPreconditionFailed)

	achieveJackpot(t, profile.ID, 25000)

	result, err := ClaimJackpot(user.ID, 25000)
	require.NoError(t, err)
	assert.Equal(t, 500.0, result.RewardAmount)

	_, err = ClaimJackpot(user.ID, 25000)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 500.0, walletBalance(t, user.ID))
	assert.EqualValues(t, 1, creditCount(t, user.ID, models.ReasonJackpotReward))
}

func TestClaimOfferIssuesVoucherOnce(t *testing.T) {
	cfg := setupTestDB(t)
	user, profile := enrollTestPartner(t, cfg)

	var offer models.PartnerOffer
	require.NoError(t, config.DB.Where("profile_id = ?", profile.ID).First(&offer).Error)

	voucher, err := ClaimOffer(user.ID, offer.ID)
	require.NoError(t, err)
	assert.Contains(t, voucher, "VCH-"+offer.OfferCode)

	_, err = ClaimOffer(user.ID, offer.ID)
	require.ErrorIs(t, err, ErrConflict)

	var claimed models.PartnerOffer
	require.NoError(t, config.DB.First(&claimed, offer.ID).Error)
	assert.True(t, claimed.Claimed)
	assert.Equal(t, voucher, claimed.VoucherCode)
}

func TestClaimOfferOutsideValidityWindow(t *testing.T) {
	cfg := setupTestDB(t)
	user, profile := enrollTestPartner(t, cfg)

	var offer models.PartnerOffer
	require.NoError(t, config.DB.Where("profile_id = ?", profile.ID).First(&offer).Error)
	require.NoError(t, config.DB.Model(&models.PartnerOffer{}).Where("id = ?", offer.ID).
		Update("valid_until", time.Now().AddDate(0, 0, -1)).Error)

	_, err := ClaimOffer(user.ID, offer.ID)
	require.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestClaimValidation(t *testing.T) {
	cfg := setupTestDB(t)
	user, _ := enrollTestPartner(t, cfg)

	_, err := ClaimMilestone(user.ID, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = ClaimTask(user.ID, "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = ClaimJackpot(user.ID, -5)
	require.ErrorIs(t, err, ErrValidation)
}
