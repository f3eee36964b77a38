package utils

import (
	"time"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"gorm.io/gorm"
)

// SweepResult counts the outcomes of one expiry sweep.
type SweepResult struct {
	Checked  int `json:"checked"`
	Upgraded int `json:"upgraded"`
	Reset    int `json:"reset"`
	Failed   int `json:"failed"`
}

// RunExpiryCheck resolves every profile whose promotion window has elapsed:
// order requirement met -> auto-upgrade, otherwise reset the window. Each
// profile is resolved in its own transaction so one bad row never aborts
// the batch; failures are logged and counted. Safe to invoke at any
// frequency - a profile expired since the last tick is simply resolved on
// this one, and an already-resolved profile no longer matches the scan.
func RunExpiryCheck(cfg *config.LoyaltyConfig, now time.Time) (*SweepResult, error) {
	var expiredIDs []uint
	if err := config.DB.Model(&models.PartnerProfile{}).
		Where("valid_until < ? AND status = ?", now, models.ProfileStatusActive).
		Pluck("id", &expiredIDs).Error; err != nil {
		return nil, err
	}

	result := &SweepResult{Checked: len(expiredIDs)}
	LogInfo("Expiry sweep: %d profiles past their window", len(expiredIDs))

	for _, id := range expiredIDs {
		outcome, err := resolveProfileExpiry(id, cfg, now)
		if err != nil {
			result.Failed++
			LogError("Expiry sweep: profile %d failed: %v", id, err)
			continue
		}
		switch outcome {
		case ExpiryOutcomeUpgraded:
			result.Upgraded++
		case ExpiryOutcomeReset:
			result.Reset++
		}
	}

	LogInfo("Expiry sweep done: %d upgraded, %d reset, %d failed", result.Upgraded, result.Reset, result.Failed)
	return result, nil
}

func resolveProfileExpiry(profileID uint, cfg *config.LoyaltyConfig, now time.Time) (ExpiryOutcome, error) {
	var outcome ExpiryOutcome
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.PartnerProfile
		if err := tx.First(&profile, profileID).Error; err != nil {
			return err
		}

		// Re-check inside the transaction; a concurrent sweep tick may have
		// resolved this profile between the scan and now.
		history, o := ResolveExpiry(&profile, cfg, now)
		outcome = o
		if o == ExpiryOutcomeNone {
			return nil
		}

		if err := tx.Create(history).Error; err != nil {
			return err
		}

		return tx.Model(&models.PartnerProfile{}).Where("id = ?", profile.ID).
			Updates(map[string]interface{}{
				"level_ordinal":     profile.LevelOrdinal,
				"level_name":        profile.LevelName,
				"level_achieved_at": profile.LevelAchievedAt,
				"orders_this_level": profile.OrdersThisLevel,
				"level_start_date":  profile.LevelStartDate,
				"valid_until":       profile.ValidUntil,
			}).Error
	})
	if err != nil {
		return ExpiryOutcomeNone, err
	}
	return outcome, nil
}
