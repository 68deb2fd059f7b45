package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/netinvest/server/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, days
//	-n string   Neo4j URI
//	-u string   Neo4j username
//	-p string   Neo4j password
//	-o string   comma-separated CORS origins
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-n", "-u", "-p", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityMinutes := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDays := fs.Int("r", int(config.RefreshTokenValidityDuration.Hours()/24), "refresh_token_validity_duration (in days)")

	fs.StringVar(&config.Neo4jURI, "n", config.Neo4jURI, "Neo4j URI")
	fs.StringVar(&config.Neo4jUsername, "u", config.Neo4jUsername, "Neo4j username")
	fs.StringVar(&config.Neo4jPassword, "p", config.Neo4jPassword, "Neo4j password")

	corsOrigins := fs.String("o", strings.Join(config.CORSAllowedOrigins, ","), "comma-separated CORS origins")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityMinutes) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDays) * 24 * time.Hour
	config.CORSAllowedOrigins = splitOrigins(*corsOrigins)
}
