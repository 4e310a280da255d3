package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port               string
	GoEnv              string
	DataDir            string
	LogLevel           string
	LogFormat          string
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	TokenTTL           time.Duration
	RefreshInterval    time.Duration
	CredentialMode     string
	DocumentStore      string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	CORSAllowedOrigins []string
}

// Paths lists the flat files that make up the persisted state
type Paths struct {
	Admins        string
	Staff         string
	Customers     string
	Orders        string
	Pricing       string
	Revenue       string
	Notifications string
	Logbook       string
}

const (
	CredentialModePlaintext = "plaintext"
	CredentialModeBcrypt    = "bcrypt"

	DocumentStoreLocal = "local"
	DocumentStoreS3    = "s3"
)

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	tokenTTL, err := getDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := getDuration("REFRESH_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		DataDir:            getEnv("DATA_DIR", "./data"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", "print-shop-api"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "print-shop-clients"),
		TokenTTL:           tokenTTL,
		RefreshInterval:    refresh,
		CredentialMode:     getEnv("CREDENTIAL_MODE", CredentialModePlaintext),
		DocumentStore:      getEnv("DOCUMENT_STORE", DocumentStoreLocal),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	// A fixed secret keeps local runs and tests usable without an .env file
	if config.JWTSecret == "" && !config.IsProduction() {
		config.JWTSecret = "print-shop-development-secret"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.CredentialMode {
	case CredentialModePlaintext, CredentialModeBcrypt:
	default:
		return fmt.Errorf("CREDENTIAL_MODE must be %q or %q, got %q", CredentialModePlaintext, CredentialModeBcrypt, c.CredentialMode)
	}
	switch c.DocumentStore {
	case DocumentStoreLocal:
	case DocumentStoreS3:
		if c.AWSS3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when DOCUMENT_STORE=s3")
		}
	default:
		return fmt.Errorf("DOCUMENT_STORE must be %q or %q, got %q", DocumentStoreLocal, DocumentStoreS3, c.DocumentStore)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// Paths returns the data file locations under DataDir
func (c *Config) Paths() Paths {
	return PathsFor(c.DataDir)
}

// PathsFor returns the data file locations under dir
func PathsFor(dir string) Paths {
	return Paths{
		Admins:        filepath.Join(dir, "Admin.txt"),
		Staff:         filepath.Join(dir, "Staff.txt"),
		Customers:     filepath.Join(dir, "Customer.txt"),
		Orders:        filepath.Join(dir, "Order.txt"),
		Pricing:       filepath.Join(dir, "PricingConfig.txt"),
		Revenue:       filepath.Join(dir, "Revenue.txt"),
		Notifications: filepath.Join(dir, "Ordernotification.txt"),
		Logbook:       filepath.Join(dir, "Logbook.txt"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 5s or 24h: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
