package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const devSecret = "dev-secret-change-in-production"

// Supported store drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Supported password hashing schemes.
const (
	HashBcrypt   = "bcrypt"
	HashArgon2id = "argon2id"
)

var ErrDevSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port string
	Env  string

	StoreDriver   string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	JWTExpiry time.Duration

	PasswordHash string
	BcryptCost   int

	RedisURL string
	CacheTTL time.Duration

	NATSURL string

	// CORSOrigins lists the origins allowed to call the API from a browser.
	CORSOrigins []string

	LogLevel  string
	LogFormat string

	// loadErr holds values Load could not parse; Validate reports it.
	loadErr error
}

// Load reads the configuration from the environment. Unset variables take
// their defaults; malformed ones are reported by Validate.
func Load() Config {
	var env envLoader
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		StoreDriver:   getEnv("STORE_DRIVER", DriverMySQL),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/bloglist?parseTime=true"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "bloglist"),
		JWTSecret:     getEnv("JWT_SECRET", devSecret),
		JWTExpiry:     env.getDuration("JWT_EXPIRY", 24*time.Hour),
		PasswordHash:  getEnv("PASSWORD_HASH", HashBcrypt),
		BcryptCost:    env.getInt("BCRYPT_COST", bcrypt.DefaultCost),
		RedisURL:      os.Getenv("REDIS_URL"),
		CacheTTL:      env.getDuration("CACHE_TTL", 5*time.Minute),
		NATSURL:       os.Getenv("NATS_URL"),
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{"*"}),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}
	cfg.loadErr = errors.Join(env.errs...)
	return cfg
}

// Validate reports the first setting that would make the server unsafe or unable to start.
func (c Config) Validate() error {
	if c.loadErr != nil {
		return c.loadErr
	}
	if c.Env == "production" && c.JWTSecret == devSecret {
		return ErrDevSecretInProduction
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}
	if c.RedisURL != "" && c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}

	switch c.StoreDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.PasswordHash {
	case HashBcrypt:
		if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
		}
	case HashArgon2id:
	default:
		return fmt.Errorf("unsupported PASSWORD_HASH %q", c.PasswordHash)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var list []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return fallback
	}
	return list
}

// envLoader parses typed variables and remembers the ones that are malformed.
type envLoader struct {
	errs []error
}

func (l *envLoader) getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return fallback
	}
	return n
}

func (l *envLoader) getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return fallback
	}
	return d
}
