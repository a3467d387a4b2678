package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
)

// Config holds the runtime configuration of the ticket service.  Each field
// corresponds to an environment variable.  Feature switches (AuthEnabled,
// DBEnabled) decide which of the remaining variables are mandatory.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	LogLevel     string // debug, info, warn, error or off
	AuthEnabled  bool   // require ADMIN tokens on remove/modify/admin routes
	JWTSecret    string // secret used to sign and verify JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	DBEnabled    bool   // persist ticket events into MySQL
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
}

// Load reads configuration values from environment variables and returns a
// Config.  Variables belonging to an enabled feature are enforced by must()
// and a missing value stops the program with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "8080"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		AuthEnabled:  envBool("AUTH_ENABLED", false),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60),
		DBEnabled:    envBool("DB_ENABLED", false),
	}
	if cfg.AuthEnabled {
		cfg.JWTSecret = must("JWT_SECRET")
	}
	if cfg.DBEnabled {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
