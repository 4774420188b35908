package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config values from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables win over it, which godotenv guarantees by never overriding.
//
// Recognized variables: ADDRESS, DATABASE_DSN, ROOT_FOLDER, SECRET_KEY,
// SERVICE_TOKEN, ACCESS_TOKEN_VALIDITY (Go duration string),
// MAX_DB_CONNECTIONS.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.Addr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("ROOT_FOLDER"); ok {
		config.RootFolder = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("SERVICE_TOKEN"); ok {
		config.ServiceToken = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("MAX_DB_CONNECTIONS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.MaxDBConnections = n
		}
	}
}
