package main

import (
	"log"
	"strconv"
	"time"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/routes"
	"github.com/platemate/partner-loyalty/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Load tier and catalog definitions
	if err := config.InitLoyaltyConfig(cfg.LoyaltyConfigPath); err != nil {
		utils.LogError("Error loading loyalty config: %v", err)
		log.Fatal("Error loading loyalty config:", err)
	}

	// Initialize database
	config.InitDB()

	// Run the expiry sweep on a fixed interval. The external scheduler can
	// also trigger it through the internal route; both paths are idempotent.
	go runSweepTicker(cfg)

	// Set up router
	router := routes.SetupRouter()

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	utils.LogInfo("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}

func runSweepTicker(cfg *config.Config) {
	intervalHours := 24
	if cfg.SweepIntervalHrs != "" {
		if parsed, err := strconv.Atoi(cfg.SweepIntervalHrs); err == nil && parsed > 0 {
			intervalHours = parsed
		}
	}

	ticker := time.NewTicker(time.Duration(intervalHours) * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := utils.RunExpiryCheck(config.Loyalty, time.Now()); err != nil {
			utils.LogError("Scheduled expiry sweep failed: %v", err)
		}
	}
}
