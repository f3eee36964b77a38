package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"github.com/platemate/partner-loyalty/utils"
)

// EnrollPartner creates the loyalty profile and default reward catalog for
// the authenticated user.
func EnrollPartner(c *gin.Context) {
	utils.LogInfo("EnrollPartner called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := utils.EnrollPartner(user.ID, config.Loyalty, time.Now())
	if err != nil {
		utils.LogError("Enrollment failed for user ID: %d: %v", user.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Created(c, "Enrolled in partner program", gin.H{
		"profile": profileView(profile),
	})
}

// GetProfile returns the partner progression record with promotion status.
func GetProfile(c *gin.Context) {
	utils.LogInfo("GetProfile called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := utils.GetProfileByUserID(user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	now := time.Now()
	view := profileView(profile)
	view["can_promote"] = utils.CanPromote(profile, config.Loyalty, now)
	view["expired"] = utils.IsExpired(profile, now)

	var history []models.LevelHistory
	if err := config.DB.Where("profile_id = ?", profile.ID).Order("created_at ASC").Find(&history).Error; err != nil {
		utils.LogError("Failed to load level history for profile %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to load level history", nil)
		return
	}
	view["level_history"] = history

	utils.Success(c, "Profile retrieved successfully", gin.H{"profile": view})
}

func profileView(profile *models.PartnerProfile) gin.H {
	tier := config.Loyalty.Tier(profile.LevelOrdinal)
	view := gin.H{
		"level_ordinal":      profile.LevelOrdinal,
		"level_name":         profile.LevelName,
		"level_achieved_at":  profile.LevelAchievedAt,
		"total_orders":       profile.TotalOrders,
		"orders_this_level":  profile.OrdersThisLevel,
		"total_spent":        profile.TotalSpent,
		"level_start_date":   profile.LevelStartDate,
		"valid_until":        profile.ValidUntil,
		"last_activity_date": profile.LastActivityDate,
		"status":             profile.Status,
	}
	if tier != nil {
		view["requirements"] = tier.Requirements
		view["benefits"] = tier.Benefits
	}
	return view
}

// currentUser pulls the authenticated user out of the gin context.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return models.User{}, false
	}
	return user, true
}
