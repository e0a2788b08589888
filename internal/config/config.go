package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DatabaseURL              string
	RedisURL                 string // Optional, empty disables the supplier cache
	SecretKey                string // Secret key for JWT token signing
	Algorithm                string // HS256, HS384 or HS512
	AccessTokenExpireMinutes int
	Domain                   string // Cookie domain
	Environment              string
	FrontendURL              string // Frontend base URL (embedded in supplier contact QR codes)
	Port                     string
	BcryptCost               int
	RateLimitRPS             float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst           int
	RateLimitAuthRPS         float64 // Rate limit for auth endpoints (stricter)
	RateLimitAuthBurst       int
	SupplierCacheTTLSeconds  int
}

var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		RedisURL:                 getEnv("REDIS_URL", ""),
		SecretKey:                getEnv("SECRET_KEY", ""),
		Algorithm:                getEnv("ALGORITHM", "HS256"),
		AccessTokenExpireMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		Domain:                   getEnv("DOMAIN", ""),
		Environment:              getEnv("ENVIRONMENT", "development"),
		FrontendURL:              getEnv("FRONTEND_URL", ""),
		Port:                     getEnv("PORT", "8080"),
		BcryptCost:               getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		RateLimitRPS:             getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:           getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:         getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst:       getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
		SupplierCacheTTLSeconds:  getEnvInt("SUPPLIER_CACHE_TTL_SECONDS", 600),
	}
}

// Validate reports every missing or unusable setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if !supportedAlgorithms[c.Algorithm] {
		errs = append(errs, fmt.Errorf("unsupported ALGORITHM %q", c.Algorithm))
	}
	if c.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) SupplierCacheTTL() time.Duration {
	return time.Duration(c.SupplierCacheTTLSeconds) * time.Second
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
