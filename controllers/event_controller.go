package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/utils"
)

// OrderDeliveredRequest is posted by the order service when an order reaches
// the delivered state.
type OrderDeliveredRequest struct {
	UserID      uint    `json:"user_id" binding:"required"`
	OrderID     string  `json:"order_id" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"required"`
}

// OrderDelivered applies a delivered order to the partner's counters,
// achievements, periodic bonus and promotion state.
func OrderDelivered(c *gin.Context) {
	utils.LogInfo("OrderDelivered called")

	var req OrderDeliveredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid order-delivered payload: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	result, err := utils.ApplyOrderDelivered(req.UserID, req.OrderID, req.OrderAmount, config.Loyalty)
	if err != nil {
		utils.LogError("Order-delivered event failed for user ID: %d order %s: %v", req.UserID, req.OrderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Order delivery applied", result)
}

// TaskProgressRequest is posted by profile, review, referral and
// social-share collaborators.
type TaskProgressRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	TaskKey       string `json:"task_key" binding:"required"`
	ProgressDelta int    `json:"progress_delta" binding:"required"`
}

// TaskProgress advances a task's progress counter.
func TaskProgress(c *gin.Context) {
	utils.LogInfo("TaskProgress called")

	var req TaskProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid task-progress payload: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	task, err := utils.ApplyTaskProgress(req.UserID, req.TaskKey, req.ProgressDelta, config.Loyalty)
	if err != nil {
		utils.LogError("Task-progress event failed for user ID: %d key %q: %v", req.UserID, req.TaskKey, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Task progress applied", gin.H{"task": task})
}
