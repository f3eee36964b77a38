package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"gorm.io/gorm"
)

// ClaimResult describes one successful reward claim.
type ClaimResult struct {
	RewardAmount  float64   `json:"reward_amount"`
	WalletBalance float64   `json:"wallet_balance"`
	Reference     string    `json:"reference"`
	ClaimedAt     time.Time `json:"claimed_at"`
}

// ClaimMilestone converts an achieved milestone into a wallet credit exactly
// once. The claimed flag, the balance update and the ledger row commit in a
// single transaction; any wallet failure rolls back the flag so the caller
// may retry the whole operation.
func ClaimMilestone(userID uint, orderThreshold int) (*ClaimResult, error) {
	if orderThreshold <= 0 {
		return nil, ValidationErrorf("order threshold must be positive, got %d", orderThreshold)
	}

	profile, err := GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}

	var result *ClaimResult
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var milestone models.PartnerMilestone
		if err := tx.Where("profile_id = ? AND order_threshold = ?", profile.ID, orderThreshold).First(&milestone).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundErrorf("no milestone at %d orders", orderThreshold)
			}
			return err
		}
		if !milestone.Achieved {
			return fmt.Errorf("%w: milestone at %d orders not yet achieved", ErrPreconditionFailed, orderThreshold)
		}
		if milestone.ClaimedAt != nil {
			return fmt.Errorf("%w: milestone at %d orders already claimed", ErrConflict, orderThreshold)
		}

		now := time.Now()
		// Compare-and-set on the unclaimed state; a racing claimant that got
		// here first leaves RowsAffected at zero.
		res := tx.Model(&models.PartnerMilestone{}).
			Where("id = ? AND claimed_at IS NULL", milestone.ID).
			Update("claimed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: milestone at %d orders already claimed", ErrConflict, orderThreshold)
		}

		reference := fmt.Sprintf("claim:milestone:%d:%d", userID, orderThreshold)
		description := fmt.Sprintf("Milestone reward: %s", milestone.Title)
		txn, err := CreditWalletTx(tx, userID, milestone.RewardAmount, models.ReasonMilestoneReward, description, reference)
		if err != nil {
			return err
		}

		var wallet models.Wallet
		if err := tx.First(&wallet, txn.WalletID).Error; err != nil {
			return err
		}

		result = &ClaimResult{
			RewardAmount:  milestone.RewardAmount,
			WalletBalance: wallet.Balance,
			Reference:     reference,
			ClaimedAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	LogInfo("User %d claimed milestone at %d orders for %.2f", userID, orderThreshold, result.RewardAmount)
	return result, nil
}

// ClaimTask converts a completed task into a wallet credit exactly once.
func ClaimTask(userID uint, taskKey string) (*ClaimResult, error) {
	if taskKey == "" {
		return nil, ValidationErrorf("task key must not be empty")
	}

	profile, err := GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}

	var result *ClaimResult
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var task models.PartnerTask
		if err := tx.Where("profile_id = ? AND task_key = ?", profile.ID, taskKey).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundErrorf("no task %q", taskKey)
			}
			return err
		}
		if !task.Completed {
			return fmt.Errorf("%w: task %q not yet completed", ErrPreconditionFailed, taskKey)
		}
		if task.Claimed || task.ClaimedAt != nil {
			return fmt.Errorf("%w: task %q already claimed", ErrConflict, taskKey)
		}

		now := time.Now()
		res := tx.Model(&models.PartnerTask{}).
			Where("id = ? AND claimed = ? AND claimed_at IS NULL", task.ID, false).
			Updates(map[string]interface{}{"claimed": true, "claimed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: task %q already claimed", ErrConflict, taskKey)
		}

		reference := fmt.Sprintf("claim:task:%d:%s", userID, taskKey)
		description := fmt.Sprintf("Task reward: %s", task.Title)
		txn, err := CreditWalletTx(tx, userID, task.RewardAmount, models.ReasonTaskReward, description, reference)
		if err != nil {
			return err
		}

		var wallet models.Wallet
		if err := tx.First(&wallet, txn.WalletID).Error; err != nil {
			return err
		}

		result = &ClaimResult{
			RewardAmount:  task.RewardAmount,
			WalletBalance: wallet.Balance,
			Reference:     reference,
			ClaimedAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	LogInfo("User %d claimed task %q for %.2f", userID, taskKey, result.RewardAmount)
	return result, nil
}

// ClaimJackpot converts an achieved spend jackpot into a wallet credit
// exactly once. The threshold must match a configured jackpot tier exactly.
func ClaimJackpot(userID uint, spendThreshold float64) (*ClaimResult, error) {
	if spendThreshold <= 0 {
		return nil, ValidationErrorf("spend threshold must be positive, got %.2f", spendThreshold)
	}

	profile, err := GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}

	var result *ClaimResult
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var jackpot models.PartnerJackpot
		if err := tx.Where("profile_id = ? AND spend_threshold = ?", profile.ID, spendThreshold).First(&jackpot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundErrorf("no jackpot tier at %.0f spend", spendThreshold)
			}
			return err
		}
		if !jackpot.Achieved {
			return fmt.Errorf("%w: jackpot at %.0f spend not yet achieved", ErrPreconditionFailed, spendThreshold)
		}
		if jackpot.ClaimedAt != nil {
			return fmt.Errorf("%w: jackpot at %.0f spend already claimed", ErrConflict, spendThreshold)
		}

		now := time.Now()
		res := tx.Model(&models.PartnerJackpot{}).
			Where("id = ? AND claimed_at IS NULL", jackpot.ID).
			Update("claimed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: jackpot at %.0f spend already claimed", ErrConflict, spendThreshold)
		}

		reference := fmt.Sprintf("claim:jackpot:%d:%.0f", userID, spendThreshold)
		description := fmt.Sprintf("Jackpot reward: %s", jackpot.Title)
		txn, err := CreditWalletTx(tx, userID, jackpot.RewardAmount, models.ReasonJackpotReward, description, reference)
		if err != nil {
			return err
		}

		var wallet models.Wallet
		if err := tx.First(&wallet, txn.WalletID).Error; err != nil {
			return err
		}

		result = &ClaimResult{
			RewardAmount:  jackpot.RewardAmount,
			WalletBalance: wallet.Balance,
			Reference:     reference,
			ClaimedAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	LogInfo("User %d claimed jackpot at %.0f spend for %.2f", userID, spendThreshold, result.RewardAmount)
	return result, nil
}

// ClaimOffer claims a level-scoped offer inside its validity window and
// issues a voucher code. The claimed flag flips via compare-and-set so a
// double claim cannot issue two vouchers.
func ClaimOffer(userID uint, offerID uint) (string, error) {
	profile, err := GetProfileByUserID(userID)
	if err != nil {
		return "", err
	}

	var voucherCode string
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var offer models.PartnerOffer
		if err := tx.Where("id = ? AND profile_id = ?", offerID, profile.ID).First(&offer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundErrorf("no offer %d", offerID)
			}
			return err
		}

		now := time.Now()
		if now.Before(offer.ValidFrom) || now.After(offer.ValidUntil) {
			return fmt.Errorf("%w: offer %q is outside its validity window", ErrPreconditionFailed, offer.OfferCode)
		}
		if offer.Claimed {
			return fmt.Errorf("%w: offer %q already claimed", ErrConflict, offer.OfferCode)
		}

		voucherCode = IssueVoucher(offer.OfferCode)
		res := tx.Model(&models.PartnerOffer{}).
			Where("id = ? AND claimed = ?", offer.ID, false).
			Updates(map[string]interface{}{"claimed": true, "claimed_at": now, "voucher_code": voucherCode})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: offer %q already claimed", ErrConflict, offer.OfferCode)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	LogInfo("User %d claimed offer %d, voucher issued", userID, offerID)
	return voucherCode, nil
}
