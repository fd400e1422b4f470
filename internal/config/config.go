package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Auth      AuthConfig
	Documents DocumentsConfig
	Import    ImportConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// AuthConfig holds the shared secret used to verify bearer tokens.
type AuthConfig struct {
	JWTSecret string
}

// DocumentsConfig locates the Word templates and the QR image used by the
// document generator.
type DocumentsConfig struct {
	TemplatesDir         string
	DebtorTemplate       string
	NotificationTemplate string
	QRImage              string
}

// ImportConfig bounds spreadsheet uploads.
type ImportConfig struct {
	MaxUploadBytes int64
	BatchSize      int
}

// DebtorTemplatePath returns the absolute-or-relative path of the debtor notice template.
func (d DocumentsConfig) DebtorTemplatePath() string {
	return filepath.Join(d.TemplatesDir, d.DebtorTemplate)
}

// NotificationTemplatePath returns the path of the tax notification template.
func (d DocumentsConfig) NotificationTemplatePath() string {
	return filepath.Join(d.TemplatesDir, d.NotificationTemplate)
}

// QRImagePath returns the path of the payment QR image.
func (d DocumentsConfig) QRImagePath() string {
	return filepath.Join(d.TemplatesDir, d.QRImage)
}

// Load reads configuration from an optional .env file and environment variables.
// Values already present in the environment win over the .env file.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "debtdesk")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("TEMPLATES_DIR", "templates")
	v.SetDefault("DEBTOR_TEMPLATE", "debtor_notice.docx")
	v.SetDefault("NOTIFICATION_TEMPLATE", "tax_notification.docx")
	v.SetDefault("QR_IMAGE", "qr-code.png")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("IMPORT_BATCH_SIZE", 100)

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Documents: DocumentsConfig{
			TemplatesDir:         v.GetString("TEMPLATES_DIR"),
			DebtorTemplate:       v.GetString("DEBTOR_TEMPLATE"),
			NotificationTemplate: v.GetString("NOTIFICATION_TEMPLATE"),
			QRImage:              v.GetString("QR_IMAGE"),
		},
		Import: ImportConfig{
			MaxUploadBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
			BatchSize:      v.GetInt("IMPORT_BATCH_SIZE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads ENV_FILE (default .env) into the process environment.
// A missing file is not an error.
func loadDotEnv() error {
	path := viper.New()
	path.SetDefault("ENV_FILE", ".env")
	path.AutomaticEnv()

	err := godotenv.Load(path.GetString("ENV_FILE"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Documents.DebtorTemplate == "" || c.Documents.NotificationTemplate == "" {
		return fmt.Errorf("DEBTOR_TEMPLATE and NOTIFICATION_TEMPLATE are required")
	}

	if c.Import.MaxUploadBytes < 1 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.Import.BatchSize < 1 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be at least 1")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
