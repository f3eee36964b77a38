package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"gorm.io/gorm"
)

// OrderDeliveredResult summarizes the counter and reward effects of one
// delivery event.
type OrderDeliveredResult struct {
	TotalOrders     int     `json:"total_orders"`
	OrdersThisLevel int     `json:"orders_this_level"`
	TotalSpent      float64 `json:"total_spent"`
	LevelOrdinal    int     `json:"level_ordinal"`
	Promoted        bool    `json:"promoted"`
	BonusPaid       float64 `json:"bonus_paid"`
}

// ApplyOrderDelivered applies a delivered order to the partner's progression
// record: counters move with atomic in-database increments, milestone and
// jackpot achievement flags flip monotonically via conditional updates, the
// periodic transaction bonus is paid at most once per multiple, and a
// voluntary promotion fires when the window requirement is met.
func ApplyOrderDelivered(userID uint, orderID string, orderAmount float64, cfg *config.LoyaltyConfig) (*OrderDeliveredResult, error) {
	if orderID == "" {
		return nil, ValidationErrorf("order id must not be empty")
	}
	if orderAmount <= 0 {
		return nil, ValidationErrorf("order amount must be positive, got %.2f", orderAmount)
	}

	profile, err := GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var result *OrderDeliveredResult
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PartnerProfile{}).
			Where("id = ?", profile.ID).
			Updates(map[string]interface{}{
				"total_orders":       gorm.Expr("total_orders + 1"),
				"orders_this_level":  gorm.Expr("orders_this_level + 1"),
				"total_spent":        gorm.Expr("total_spent + ?", orderAmount),
				"last_activity_date": now,
			})
		if res.Error != nil {
			return res.Error
		}

		var current models.PartnerProfile
		if err := tx.First(&current, profile.ID).Error; err != nil {
			return err
		}

		// Achievement flags only ever move false->true; the conditions make
		// the update a no-op for rows already achieved, so replayed events
		// cannot un-achieve or re-achieve anything.
		if err := tx.Model(&models.PartnerMilestone{}).
			Where("profile_id = ? AND achieved = ? AND order_threshold <= ?", current.ID, false, current.TotalOrders).
			Updates(map[string]interface{}{"achieved": true, "achieved_at": now}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PartnerJackpot{}).
			Where("profile_id = ? AND achieved = ? AND spend_threshold <= ?", current.ID, false, current.TotalSpent).
			Updates(map[string]interface{}{"achieved": true, "achieved_at": now}).Error; err != nil {
			return err
		}

		bonusPaid := 0.0
		tier := cfg.Tier(current.LevelOrdinal)
		if amount, due := TxnBonusDue(tier, current.TotalOrders); due {
			reference := fmt.Sprintf("txnbonus:%d:%d", userID, current.TotalOrders)
			description := fmt.Sprintf("Transaction bonus at %d orders", current.TotalOrders)
			_, err := CreditWalletTx(tx, userID, amount, models.ReasonTxnBonus, description, reference)
			switch {
			case err == nil:
				bonusPaid = amount
			case errors.Is(err, ErrConflict):
				// Another delivery event already paid this multiple.
				LogInfo("Transaction bonus %s already paid, skipping", reference)
			default:
				return err
			}
		}

		promoted := false
		if history, ok := Promote(&current, cfg, now); ok {
			if err := tx.Create(history).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.PartnerProfile{}).Where("id = ?", current.ID).
				Updates(map[string]interface{}{
					"level_ordinal":     current.LevelOrdinal,
					"level_name":        current.LevelName,
					"level_achieved_at": current.LevelAchievedAt,
					"orders_this_level": current.OrdersThisLevel,
					"level_start_date":  current.LevelStartDate,
					"valid_until":       current.ValidUntil,
				}).Error; err != nil {
				return err
			}
			promoted = true
			LogInfo("User %d promoted to level %d (%s)", userID, current.LevelOrdinal, current.LevelName)
		}

		result = &OrderDeliveredResult{
			TotalOrders:     current.TotalOrders,
			OrdersThisLevel: current.OrdersThisLevel,
			TotalSpent:      current.TotalSpent,
			LevelOrdinal:    current.LevelOrdinal,
			Promoted:        promoted,
			BonusPaid:       bonusPaid,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	LogInfo("Order %s delivered for user %d: %d total orders, %.2f total spent", orderID, userID, result.TotalOrders, result.TotalSpent)
	return result, nil
}

// ApplyTaskProgress advances a task's progress counter and flips the
// completed flag once the target is reached. Progress is monotonic; the
// completion update is conditional so racing progress events cannot complete
// a task twice.
func ApplyTaskProgress(userID uint, taskKey string, progressDelta int, cfg *config.LoyaltyConfig) (*models.PartnerTask, error) {
	if taskKey == "" {
		return nil, ValidationErrorf("task key must not be empty")
	}
	if progressDelta <= 0 {
		return nil, ValidationErrorf("progress delta must be positive, got %d", progressDelta)
	}

	profile, err := GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var updated models.PartnerTask
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var task models.PartnerTask
		if err := tx.Where("profile_id = ? AND task_key = ?", profile.ID, taskKey).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundErrorf("no task %q", taskKey)
			}
			return err
		}

		if err := tx.Model(&models.PartnerTask{}).
			Where("id = ?", task.ID).
			Update("progress_current", gorm.Expr("progress_current + ?", progressDelta)).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.PartnerTask{}).
			Where("id = ? AND completed = ? AND progress_current >= progress_target", task.ID, false).
			Updates(map[string]interface{}{"completed": true, "completed_at": now}).Error; err != nil {
			return err
		}

		return tx.First(&updated, task.ID).Error
	})
	if err != nil {
		return nil, err
	}

	LogInfo("Task %q progress for user %d: %d/%d", taskKey, userID, updated.ProgressCurrent, updated.ProgressTarget)
	return &updated, nil
}
