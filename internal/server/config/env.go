package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file
// in the working directory is loaded first when present; real environment
// variables win over it (godotenv does not override existing values).
//
// Recognized variables:
//
//	ENDPOINT_ADDR                HTTP bind address
//	DATABASE_DSN                 PostgreSQL DSN
//	NEO4J_URI                    graph database URI
//	NEO4J_USERNAME               graph database username
//	NEO4J_PASSWORD               graph database password
//	SECRET_KEY                   JWT signing secret (min 32 characters)
//	SIGNING_ALGORITHM            JWT signing algorithm name
//	ACCESS_TOKEN_EXPIRE_MINUTES  access token lifetime, minutes
//	REFRESH_TOKEN_EXPIRE_DAYS    refresh token lifetime, days
//	FIRST_ADMIN_USER             bootstrap admin username
//	FIRST_ADMIN_PASSWORD         bootstrap admin password
//	CORS_ORIGINS                 comma-separated allowed origins
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.EndpointAddr, "ENDPOINT_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.Neo4jURI, "NEO4J_URI")
	setString(&config.Neo4jUsername, "NEO4J_USERNAME")
	setString(&config.Neo4jPassword, "NEO4J_PASSWORD")
	setString(&config.SecretKey, "SECRET_KEY")
	setString(&config.SigningAlgorithm, "SIGNING_ALGORITHM")
	setString(&config.FirstAdminUser, "FIRST_ADMIN_USER")
	setString(&config.FirstAdminPassword, "FIRST_ADMIN_PASSWORD")

	if v, ok := getInt("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		config.AccessTokenValidityDuration = time.Duration(v) * time.Minute
	}
	if v, ok := getInt("REFRESH_TOKEN_EXPIRE_DAYS"); ok {
		config.RefreshTokenValidityDuration = time.Duration(v) * 24 * time.Hour
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = splitOrigins(v)
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func getInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
