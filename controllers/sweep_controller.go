package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/utils"
)

// RunExpirySweep resolves every expired promotion window. Invoked by the
// external scheduler; also runs on the in-process ticker. Idempotent per
// call.
func RunExpirySweep(c *gin.Context) {
	utils.LogInfo("RunExpirySweep called")

	result, err := utils.RunExpiryCheck(config.Loyalty, time.Now())
	if err != nil {
		utils.LogError("Expiry sweep failed: %v", err)
		utils.InternalServerError(c, "Expiry sweep failed", nil)
		return
	}

	utils.Success(c, "Expiry sweep completed", result)
}
