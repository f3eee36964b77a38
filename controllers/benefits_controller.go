package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/utils"
)

// PreviewBenefits derives the per-order benefit breakdown for the current
// tier at checkout time. Users without a profile get the default cashback
// rate.
func PreviewBenefits(c *gin.Context) {
	utils.LogInfo("PreviewBenefits called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	subtotal, err := strconv.ParseFloat(c.Query("subtotal"), 64)
	if err != nil || subtotal < 0 {
		utils.BadRequest(c, "Invalid subtotal", nil)
		return
	}
	deliveryFee, err := strconv.ParseFloat(c.DefaultQuery("delivery_fee", "0"), 64)
	if err != nil || deliveryFee < 0 {
		utils.BadRequest(c, "Invalid delivery fee", nil)
		return
	}

	var tier *config.TierConfig
	profile, err := utils.GetProfileByUserID(user.ID)
	switch {
	case err == nil:
		tier = config.Loyalty.Tier(profile.LevelOrdinal)
	case errors.Is(err, utils.ErrNotFound):
		// No active profile: fall through to the default rate.
	default:
		utils.RespondError(c, err)
		return
	}

	isBirthdayMonth := user.BirthdayMonth > 0 && int(time.Now().Month()) == user.BirthdayMonth
	benefits := utils.CalculateOrderBenefits(tier, config.Loyalty, subtotal, deliveryFee, isBirthdayMonth)

	utils.Success(c, "Benefits calculated", gin.H{"benefits": benefits})
}
