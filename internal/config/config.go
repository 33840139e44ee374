package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Database     DatabaseConfig
	Redis        RedisConfig
	Storage      StorageConfig
	Server       ServerConfig
	App          AppConfig
	Payment      PaymentConfig
	Verification VerificationConfig
	Jobs         JobsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// RedisConfig holds the verification cache connection
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig selects S3 for uploads when Bucket is set
type StorageConfig struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port        string
	FrontendURL string
	// PublicBaseURL prefixes invite and registration links
	PublicBaseURL string
	UploadDir     string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string
	InviteTTL time.Duration
	SeedDemo  bool
	LogLevel  string
}

// PaymentConfig holds payment authorization settings
type PaymentConfig struct {
	ServiceFeePercent decimal.Decimal
	AuthDelay         time.Duration
}

// VerificationConfig holds social verification settings
type VerificationConfig struct {
	CodeTTL  time.Duration
	CacheTTL time.Duration
}

// JobsConfig holds background job settings
type JobsConfig struct {
	ExpiryInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			DBName:     getEnv("DB_NAME", "arena"),
			SQLitePath: getEnv("SQLITE_PATH", "arena.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		},
		App: AppConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			LogLevel:  getEnv("LOG_LEVEL", "info"),
		},
	}

	var err error
	if config.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.App.SeedDemo, err = getBool("SEED_DEMO", false); err != nil {
		return nil, err
	}
	if config.App.InviteTTL, err = getDuration("INVITE_TTL", 14*24*time.Hour); err != nil {
		return nil, err
	}
	if config.Payment.AuthDelay, err = getDuration("PAYMENT_AUTH_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if config.Verification.CodeTTL, err = getDuration("VERIFICATION_CODE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if config.Verification.CacheTTL, err = getDuration("VERIFICATION_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if config.Jobs.ExpiryInterval, err = getDuration("EXPIRY_JOB_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	fee, err := decimal.NewFromString(getEnv("SERVICE_FEE_PERCENT", "7"))
	if err != nil || fee.IsNegative() {
		return nil, fmt.Errorf("SERVICE_FEE_PERCENT must be a non-negative decimal")
	}
	config.Payment.ServiceFeePercent = fee

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.Database.Driver != "postgres" && config.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", config.Database.Driver)
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, value)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return b, nil
}
