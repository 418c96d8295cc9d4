package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"

	"github.com/joho/godotenv" // loads a local .env file during development
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The signing secrets are read-only after process
// start and are the only state shared between requests.
type Config struct {
	Env          string // application environment (e.g. "dev", "production")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign session tokens
	CookieSecret string // secret used to sign the session cookie
	TokenTTLMin  int    // session token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
}

// Load reads configuration from the environment, after loading a .env file
// when one is present. Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // a missing .env is fine; real env vars win anyway

	cfg := Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		CookieSecret: os.Getenv("COOKIE_SECRET"),
		TokenTTLMin:  mustInt("TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),
	}
	// The original signs cookies with the JWT secret; a separate cookie
	// secret is optional.
	if cfg.CookieSecret == "" {
		cfg.CookieSecret = cfg.JWTSecret
	}
	return cfg
}

// IsProd reports whether the service runs in a production-like environment.
// It controls the cookie Secure flag and request logging only.
func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// TokenTTL returns the configured session token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMin) * time.Minute
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
