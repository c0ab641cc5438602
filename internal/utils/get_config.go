package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	devJWTSecret = "dev-secret-change-me"
)

type Config struct {
	// Application
	AppEnv  string `yaml:"APP_ENV"`
	AppPort string `yaml:"APP_PORT"`
	AppURL  string `yaml:"APP_URL"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	DBTimeZone string `yaml:"DB_TIMEZONE"`

	// JWT
	JWTSecret    string `yaml:"JWT_SECRET"`
	JWTIssuer    string `yaml:"JWT_ISSUER"`
	JWTExpiresIn string `yaml:"JWT_EXPIRES_IN"`

	// HTTP guards
	CORSOrigins     string `yaml:"CORS_ORIGINS"`
	RateLimitMax    int    `yaml:"RATE_LIMIT_MAX"`
	RateLimitWindow string `yaml:"RATE_LIMIT_WINDOW"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`
	UploadMaxSize int64  `yaml:"UPLOAD_MAX_SIZE"`

	// Logging
	LogLevel    string `yaml:"LOG_LEVEL"`
	LogEncoding string `yaml:"LOG_ENCODING"`
	LogFile     string `yaml:"LOG_FILE"`
}

// DefaultConfig returns the settings used when neither config.yaml nor the
// environment provide a value.
func DefaultConfig() *Config {
	return &Config{
		AppEnv:          EnvDevelopment,
		AppPort:         "5050",
		AppURL:          "http://localhost:5050",
		DBUser:          "postgres",
		DBName:          "recipe_organizer",
		DBPort:          "5432",
		DBHost:          "localhost",
		DBSSLMode:       "disable",
		DBTimeZone:      "UTC",
		JWTIssuer:       "recipe-organizer",
		JWTExpiresIn:    "30d",
		CORSOrigins:     "http://localhost:3000",
		RateLimitMax:    100,
		RateLimitWindow: "15m",
		SMTPPort:        "587",
		AWSS3Region:     "us-east-1",
		UploadMaxSize:   5 * 1024 * 1024,
		LogLevel:        "info",
		LogEncoding:     "json",
	}
}

// LoadConfig layers .env, the YAML file at path and the process environment
// on top of DefaultConfig. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := DefaultConfig()

	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"APP_ENV":            &c.AppEnv,
		"APP_PORT":           &c.AppPort,
		"PORT":               &c.AppPort,
		"APP_URL":            &c.AppURL,
		"DB_USER":            &c.DBUser,
		"DB_NAME":            &c.DBName,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_PORT":            &c.DBPort,
		"DB_HOST":            &c.DBHost,
		"DB_SSLMODE":         &c.DBSSLMode,
		"DB_TIMEZONE":        &c.DBTimeZone,
		"JWT_SECRET":         &c.JWTSecret,
		"JWT_ISSUER":         &c.JWTIssuer,
		"JWT_EXPIRES_IN":     &c.JWTExpiresIn,
		"CORS_ORIGINS":       &c.CORSOrigins,
		"RATE_LIMIT_WINDOW":  &c.RateLimitWindow,
		"SMTP_HOST":          &c.SMTPHost,
		"SMTP_PORT":          &c.SMTPPort,
		"SMTP_SENDER_NAME":   &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &c.SMTPAuthPassword,
		"AWS_S3_BUCKET":      &c.AWSS3Bucket,
		"AWS_S3_REGION":      &c.AWSS3Region,
		"AWS_S3_ENDPOINT":    &c.AWSS3Endpoint,
		"AWS_ACCESS_KEY":     &c.AWSAccessKey,
		"AWS_SECRET_KEY":     &c.AWSSecretKey,
		"LOG_LEVEL":          &c.LogLevel,
		"LOG_ENCODING":       &c.LogEncoding,
		"LOG_FILE":           &c.LogFile,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_MAX: %w", err)
		}
		c.RateLimitMax = n
	}
	if v := os.Getenv("UPLOAD_MAX_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("UPLOAD_MAX_SIZE: %w", err)
		}
		c.UploadMaxSize = n
	}
	return nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET must be set in production")
		}
		c.JWTSecret = devJWTSecret
	}
	if _, err := ParseLifetime(c.JWTExpiresIn); err != nil {
		return fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	if _, err := ParseLifetime(c.RateLimitWindow); err != nil {
		return fmt.Errorf("RATE_LIMIT_WINDOW: %w", err)
	}
	if c.RateLimitMax < 1 {
		return errors.New("RATE_LIMIT_MAX must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func (c *Config) TokenLifetime() time.Duration {
	d, _ := ParseLifetime(c.JWTExpiresIn)
	return d
}

func (c *Config) RateLimitExpiration() time.Duration {
	d, _ := ParseLifetime(c.RateLimitWindow)
	return d
}

func (c *Config) Address() string {
	return ":" + c.AppPort
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
		c.DBTimeZone,
	)
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPAuthEmail != ""
}

func (c *Config) StorageEnabled() bool {
	return c.AWSS3Bucket != ""
}

// ParseLifetime accepts Go durations ("72h", "15m") and whole days ("30d").
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", s)
	}
	return d, nil
}
