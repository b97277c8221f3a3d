package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the service. It is loaded once
// in main and passed explicitly to the components that need it; nothing
// reads the environment after startup.
type Config struct {
	ServerPort         string
	JWTSecretKey       string
	JWTExpirationHours int64
	DB                 *DBConfig
}

// Load reads the full service configuration from environment variables
func Load() (*Config, error) {
	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	jwtExpHours := int64(24)
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS %q: %w", v, err)
		}
		jwtExpHours = parsed
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080" // Default port
	}

	return &Config{
		ServerPort:         serverPort,
		JWTSecretKey:       jwtSecret,
		JWTExpirationHours: jwtExpHours,
		DB:                 dbCfg,
	}, nil
}
