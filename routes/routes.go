package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/platemate/partner-loyalty/controllers"
	"github.com/platemate/partner-loyalty/middleware"
	"github.com/platemate/partner-loyalty/utils"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()

	// Global middleware must be registered before the route groups or gin
	// will not apply it to them.
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	api := router.Group("/v1")
	{
		initPartnerRoutes(api)
		initInternalRoutes(api)
	}

	return router
}

// initPartnerRoutes registers the user-facing loyalty routes behind JWT auth.
func initPartnerRoutes(api *gin.RouterGroup) {
	partner := api.Group("/partner")
	partner.Use(middleware.AuthMiddleware())
	{
		partner.POST("/enroll", controllers.EnrollPartner)
		partner.GET("/profile", controllers.GetProfile)

		partner.GET("/milestones", controllers.GetMilestones)
		partner.POST("/milestones/claim", controllers.ClaimMilestone)

		partner.GET("/tasks", controllers.GetTasks)
		partner.POST("/tasks/claim", controllers.ClaimTask)

		partner.GET("/jackpot", controllers.GetJackpotProgress)
		partner.POST("/jackpot/claim", controllers.ClaimJackpot)

		partner.GET("/offers", controllers.GetOffers)
		partner.POST("/offers/:id/claim", controllers.ClaimOffer)

		partner.GET("/benefits/preview", controllers.PreviewBenefits)

		partner.GET("/wallet", controllers.GetWalletBalance)
		partner.GET("/wallet/transactions", controllers.GetWalletTransactions)
	}
}

// initInternalRoutes registers the service-to-service event and scheduler
// routes behind the shared service token.
func initInternalRoutes(api *gin.RouterGroup) {
	internal := api.Group("/internal")
	internal.Use(middleware.ServiceAuthMiddleware())
	{
		internal.POST("/events/order-delivered", controllers.OrderDelivered)
		internal.POST("/events/task-progress", controllers.TaskProgress)
		internal.POST("/sweep/run", controllers.RunExpirySweep)
	}
}
