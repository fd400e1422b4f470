package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolateEnv clears every config key for the duration of the test and points
// ENV_FILE at a file that does not exist.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

var configKeys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_POOL_MIN", "DB_POOL_MAX",
	"CORS_ORIGINS", "JWT_SECRET",
	"TEMPLATES_DIR", "DEBTOR_TEMPLATE", "NOTIFICATION_TEMPLATE", "QR_IMAGE",
	"UPLOAD_MAX_BYTES", "IMPORT_BATCH_SIZE",
}

func TestLoad_WithDefaults(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Database.Name != "debtdesk" {
		t.Errorf("Expected db name debtdesk, got %s", cfg.Database.Name)
	}
	if cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool max 10, got %d", cfg.Database.PoolMax)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.Import.BatchSize != 100 {
		t.Errorf("Expected import batch size 100, got %d", cfg.Import.BatchSize)
	}
	if cfg.Import.MaxUploadBytes != 10<<20 {
		t.Errorf("Expected 10MiB upload limit, got %d", cfg.Import.MaxUploadBytes)
	}
	if got := cfg.Documents.DebtorTemplatePath(); got != filepath.Join("templates", "debtor_notice.docx") {
		t.Errorf("Unexpected debtor template path %s", got)
	}
	if got := cfg.Documents.QRImagePath(); got != filepath.Join("templates", "qr-code.png") {
		t.Errorf("Unexpected QR image path %s", got)
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "taxes")
	t.Setenv("DB_USER", "clerk")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_POOL_MIN", "5")
	t.Setenv("DB_POOL_MAX", "20")
	t.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TEMPLATES_DIR", "/srv/templates")
	t.Setenv("IMPORT_BATCH_SIZE", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.LogLevel != "warn" {
		t.Errorf("Expected log level warn, got %s", cfg.Server.LogLevel)
	}
	if cfg.Database.Host != "db" || cfg.Database.Port != "5433" {
		t.Errorf("Unexpected database address %s:%s", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Database.PoolMin != 5 || cfg.Database.PoolMax != 20 {
		t.Errorf("Unexpected pool sizes %d..%d", cfg.Database.PoolMin, cfg.Database.PoolMax)
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
	if cfg.Auth.JWTSecret != "secret" {
		t.Errorf("Expected JWT secret to be read")
	}
	if cfg.Documents.NotificationTemplatePath() != filepath.Join("/srv/templates", "tax_notification.docx") {
		t.Errorf("Unexpected notification template path %s", cfg.Documents.NotificationTemplatePath())
	}
	if cfg.Import.BatchSize != 250 {
		t.Errorf("Expected batch size 250, got %d", cfg.Import.BatchSize)
	}
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	isolateEnv(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "DB_PASSWORD=fromfile\nJWT_SECRET=filesecret\nPORT=7070\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Setenv("ENV_FILE", envFile)
	// godotenv does not override variables that already exist.
	t.Setenv("PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("JWT_SECRET")
	})

	if cfg.Database.Password != "fromfile" {
		t.Errorf("Expected password from env file, got %q", cfg.Database.Password)
	}
	if cfg.Server.Port != "6060" {
		t.Errorf("Expected process environment to win, got port %s", cfg.Server.Port)
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	isolateEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Error("Expected error when DB_PASSWORD is missing")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_PASSWORD", "testpass")

	if _, err := Load(); err == nil {
		t.Error("Expected error when JWT_SECRET is missing")
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		Database: DatabaseConfig{
			Host: "localhost", Port: "5432", Name: "debtdesk",
			User: "postgres", Password: "postgres", PoolMin: 2, PoolMax: 10,
		},
		CORS:      CORSConfig{Origins: []string{"http://localhost:3000"}},
		Auth:      AuthConfig{JWTSecret: "secret"},
		Documents: DocumentsConfig{DebtorTemplate: "a.docx", NotificationTemplate: "b.docx"},
		Import:    ImportConfig{MaxUploadBytes: 1024, BatchSize: 100},
	}
}

func TestValidate_InvalidPoolSizes(t *testing.T) {
	tests := []struct {
		name    string
		poolMin int
		poolMax int
		wantErr bool
	}{
		{name: "negative pool min", poolMin: -1, poolMax: 10, wantErr: true},
		{name: "zero pool max", poolMin: 0, poolMax: 0, wantErr: true},
		{name: "pool min greater than max", poolMin: 15, poolMax: 10, wantErr: true},
		{name: "valid pool sizes", poolMin: 2, poolMax: 10, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.PoolMin = tt.poolMin
			cfg.Database.PoolMax = tt.poolMax

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"missing db password", func(c *Config) { c.Database.Password = "" }},
		{"missing CORS origins", func(c *Config) { c.CORS.Origins = []string{} }},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"missing debtor template", func(c *Config) { c.Documents.DebtorTemplate = "" }},
		{"zero upload limit", func(c *Config) { c.Import.MaxUploadBytes = 0 }},
		{"zero batch size", func(c *Config) { c.Import.BatchSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error but got none")
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "single origin", input: "http://localhost:3000", expect: []string{"http://localhost:3000"}},
		{name: "multiple origins", input: "http://localhost:3000,http://localhost:3001", expect: []string{"http://localhost:3000", "http://localhost:3001"}},
		{name: "origins with spaces", input: " http://localhost:3000 , http://localhost:3001 ", expect: []string{"http://localhost:3000", "http://localhost:3001"}},
		{name: "empty string", input: "", expect: []string{}},
		{name: "only commas", input: ",,,", expect: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d origins, got %d", len(tt.expect), len(result))
				return
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}
