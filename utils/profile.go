package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"gorm.io/gorm"
)

// EnrollPartner creates the loyalty profile for a user with the default
// reward catalog, starting at the lowest tier with a fresh promotion window.
// A user enrolls at most once; a second call returns ErrConflict.
func EnrollPartner(userID uint, cfg *config.LoyaltyConfig, now time.Time) (*models.PartnerProfile, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundErrorf("user %d not found", userID)
		}
		return nil, err
	}

	tier := cfg.Tier(1)
	profile := &models.PartnerProfile{
		UserID:           userID,
		LevelOrdinal:     tier.Ordinal,
		LevelName:        tier.Name,
		LevelAchievedAt:  now,
		LevelStartDate:   now,
		ValidUntil:       now.AddDate(0, 0, tier.Requirements.WindowDays),
		LastActivityDate: now,
		Status:           models.ProfileStatusActive,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PartnerProfile{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: user %d is already enrolled", ErrConflict, userID)
		}

		if err := tx.Create(profile).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: user %d is already enrolled", ErrConflict, userID)
			}
			return err
		}

		catalog := BuildCatalog(profile.ID, profile.LevelOrdinal, cfg, now)
		if len(catalog.Milestones) > 0 {
			if err := tx.Create(&catalog.Milestones).Error; err != nil {
				return err
			}
		}
		if len(catalog.Tasks) > 0 {
			if err := tx.Create(&catalog.Tasks).Error; err != nil {
				return err
			}
		}
		if len(catalog.Jackpots) > 0 {
			if err := tx.Create(&catalog.Jackpots).Error; err != nil {
				return err
			}
		}
		if len(catalog.Offers) > 0 {
			if err := tx.Create(&catalog.Offers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	LogInfo("Enrolled user %d into partner program at level %s", userID, profile.LevelName)
	return profile, nil
}

// GetProfileByUserID loads a user's loyalty profile.
func GetProfileByUserID(userID uint) (*models.PartnerProfile, error) {
	var profile models.PartnerProfile
	if err := config.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundErrorf("no partner profile for user %d", userID)
		}
		return nil, err
	}
	return &profile, nil
}
