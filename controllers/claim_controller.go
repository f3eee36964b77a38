package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/platemate/partner-loyalty/utils"
)

// ClaimMilestoneRequest identifies a milestone by its order threshold
type ClaimMilestoneRequest struct {
	OrderThreshold int `json:"order_threshold" binding:"required"`
}

// ClaimMilestone credits an achieved milestone's reward to the wallet,
// exactly once.
func ClaimMilestone(c *gin.Context) {
	utils.LogInfo("ClaimMilestone called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ClaimMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid claim request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	result, err := utils.ClaimMilestone(user.ID, req.OrderThreshold)
	if err != nil {
		utils.LogError("Milestone claim failed for user ID: %d threshold %d: %v", user.ID, req.OrderThreshold, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Milestone reward claimed", result)
}

// ClaimTaskRequest identifies a task by key
type ClaimTaskRequest struct {
	TaskKey string `json:"task_key" binding:"required"`
}

// ClaimTask credits a completed task's reward to the wallet, exactly once.
func ClaimTask(c *gin.Context) {
	utils.LogInfo("ClaimTask called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ClaimTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid claim request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	result, err := utils.ClaimTask(user.ID, req.TaskKey)
	if err != nil {
		utils.LogError("Task claim failed for user ID: %d key %q: %v", user.ID, req.TaskKey, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Task reward claimed", result)
}

// ClaimJackpotRequest identifies a jackpot tier by its spend threshold
type ClaimJackpotRequest struct {
	SpendThreshold float64 `json:"spend_threshold" binding:"required"`
}

// ClaimJackpot credits an achieved spend jackpot's reward to the wallet,
// exactly once.
func ClaimJackpot(c *gin.Context) {
	utils.LogInfo("ClaimJackpot called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ClaimJackpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid claim request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	result, err := utils.ClaimJackpot(user.ID, req.SpendThreshold)
	if err != nil {
		utils.LogError("Jackpot claim failed for user ID: %d threshold %.0f: %v", user.ID, req.SpendThreshold, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Jackpot reward claimed", result)
}

// ClaimOffer claims a level-scoped offer and issues its voucher code.
func ClaimOffer(c *gin.Context) {
	utils.LogInfo("ClaimOffer called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	offerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.LogError("Invalid offer id %q for user ID: %d", c.Param("id"), user.ID)
		utils.BadRequest(c, "Invalid offer id", nil)
		return
	}

	voucherCode, err := utils.ClaimOffer(user.ID, uint(offerID))
	if err != nil {
		utils.LogError("Offer claim failed for user ID: %d offer %d: %v", user.ID, offerID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Offer claimed", gin.H{"voucher_code": voucherCode})
}
