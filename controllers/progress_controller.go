package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"github.com/platemate/partner-loyalty/utils"
)

// GetMilestones lists the user's milestone catalog with achievement and
// claim state. Read-only.
func GetMilestones(c *gin.Context) {
	utils.LogInfo("GetMilestones called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := utils.GetProfileByUserID(user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var milestones []models.PartnerMilestone
	if err := config.DB.Where("profile_id = ?", profile.ID).Order("order_threshold ASC").Find(&milestones).Error; err != nil {
		utils.LogError("Failed to load milestones for profile %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to load milestones", nil)
		return
	}

	utils.Success(c, "Milestones retrieved successfully", gin.H{
		"total_orders": profile.TotalOrders,
		"milestones":   milestones,
	})
}

// GetTasks lists the user's tasks with progress. Read-only.
func GetTasks(c *gin.Context) {
	utils.LogInfo("GetTasks called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := utils.GetProfileByUserID(user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var tasks []models.PartnerTask
	if err := config.DB.Where("profile_id = ?", profile.ID).Order("task_key ASC").Find(&tasks).Error; err != nil {
		utils.LogError("Failed to load tasks for profile %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to load tasks", nil)
		return
	}

	utils.Success(c, "Tasks retrieved successfully", gin.H{"tasks": tasks})
}

// GetJackpotProgress lists the spend-jackpot tiers against total spend.
// Read-only.
func GetJackpotProgress(c *gin.Context) {
	utils.LogInfo("GetJackpotProgress called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := utils.GetProfileByUserID(user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var jackpots []models.PartnerJackpot
	if err := config.DB.Where("profile_id = ?", profile.ID).Order("spend_threshold ASC").Find(&jackpots).Error; err != nil {
		utils.LogError("Failed to load jackpot tiers for profile %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to load jackpot tiers", nil)
		return
	}

	utils.Success(c, "Jackpot progress retrieved successfully", gin.H{
		"total_spent": profile.TotalSpent,
		"jackpots":    jackpots,
	})
}

// GetOffers lists the user's level-scoped offers, flagging which are inside
// their validity window. Read-only.
func GetOffers(c *gin.Context) {
	utils.LogInfo("GetOffers called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := utils.GetProfileByUserID(user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var offers []models.PartnerOffer
	if err := config.DB.Where("profile_id = ?", profile.ID).Order("level_ordinal ASC, id ASC").Find(&offers).Error; err != nil {
		utils.LogError("Failed to load offers for profile %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to load offers", nil)
		return
	}

	now := time.Now()
	views := make([]gin.H, len(offers))
	for i, offer := range offers {
		views[i] = gin.H{
			"id":               offer.ID,
			"offer_code":       offer.OfferCode,
			"title":            offer.Title,
			"level_ordinal":    offer.LevelOrdinal,
			"discount_percent": offer.DiscountPercent,
			"max_discount":     offer.MaxDiscount,
			"min_order_value":  offer.MinOrderValue,
			"valid_from":       offer.ValidFrom,
			"valid_until":      offer.ValidUntil,
			"claimed":          offer.Claimed,
			"active":           !offer.Claimed && !now.Before(offer.ValidFrom) && !now.After(offer.ValidUntil),
		}
	}

	utils.Success(c, "Offers retrieved successfully", gin.H{"offers": views})
}
