package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/netinvest/server/internal/flagx"
	"github.com/netinvest/server/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	Neo4jURI                     string         `json:"neo4j_uri"`
	Neo4jUsername                string         `json:"neo4j_username"`
	Neo4jPassword                string         `json:"neo4j_password"`
	SecretKey                    string         `json:"secret_key"`
	SigningAlgorithm             string         `json:"signing_algorithm"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	FirstAdminUser               string         `json:"first_admin_user"`
	FirstAdminPassword           string         `json:"first_admin_password"`
	CORSAllowedOrigins           string         `json:"cors_allowed_origins"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. Only non-zero values
// from the file are applied.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.Neo4jURI != "" {
		config.Neo4jURI = c.Neo4jURI
	}
	if c.Neo4jUsername != "" {
		config.Neo4jUsername = c.Neo4jUsername
	}
	if c.Neo4jPassword != "" {
		config.Neo4jPassword = c.Neo4jPassword
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SigningAlgorithm != "" {
		config.SigningAlgorithm = c.SigningAlgorithm
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.FirstAdminUser != "" {
		config.FirstAdminUser = c.FirstAdminUser
	}
	if c.FirstAdminPassword != "" {
		config.FirstAdminPassword = c.FirstAdminPassword
	}
	if c.CORSAllowedOrigins != "" {
		config.CORSAllowedOrigins = splitOrigins(c.CORSAllowedOrigins)
	}

	return nil
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
