package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	JWTSecret         string
	ServiceToken      string
	Port              string
	Env               string
	LoyaltyConfigPath string
	SweepIntervalHrs  string
}

// LoadConfig loads configuration from environment variables. A missing .env
// file is not an error; the process may be configured by the environment
// alone.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            os.Getenv("DB_PORT"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ServiceToken:      os.Getenv("SERVICE_TOKEN"),
		Port:              os.Getenv("PORT"),
		Env:               os.Getenv("ENV"),
		LoyaltyConfigPath: os.Getenv("LOYALTY_CONFIG"),
		SweepIntervalHrs:  os.Getenv("SWEEP_INTERVAL_HOURS"),
	}

	return config, nil
}
