package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Extractor ExtractorConfig
	Sheet     SheetConfig
	Archive   ArchiveConfig
	Upload    UploadConfig
	Email     EmailConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings for the document store.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// ExtractorConfig holds vision LLM extraction service settings.
type ExtractorConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// SheetConfig holds spreadsheet mirror sink settings.
type SheetConfig struct {
	WorkbookPath string `mapstructure:"workbook_path"`
	SummarySheet string `mapstructure:"summary_sheet"`
	ItemsSheet   string `mapstructure:"items_sheet"`
}

// ArchiveConfig holds S3 settings for raw upload archival. An empty bucket
// disables archival.
type ArchiveConfig struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// UploadConfig holds inbound upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// EmailConfig holds notification email settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the INVOSYNC_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invosync")
	v.SetDefault("db.password", "invosync_secret")
	v.SetDefault("db.name", "invosync_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Extractor defaults
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.model", "gemini-2.0-flash")
	v.SetDefault("extractor.timeout_secs", 120)

	// Sheet defaults
	v.SetDefault("sheet.workbook_path", "data/invoices.xlsx")
	v.SetDefault("sheet.summary_sheet", "Summary")
	v.SetDefault("sheet.items_sheet", "Items")

	// Archive defaults (disabled unless a bucket is configured)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.endpoint", "")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@invosync.local")
	v.SetDefault("email.from_name", "Invosync")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "INVOSYNC_SERVER_PORT",
		"server.read_timeout":     "INVOSYNC_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "INVOSYNC_SERVER_WRITE_TIMEOUT",
		"server.environment":      "INVOSYNC_SERVER_ENVIRONMENT",
		"db.host":                 "INVOSYNC_DB_HOST",
		"db.port":                 "INVOSYNC_DB_PORT",
		"db.user":                 "INVOSYNC_DB_USER",
		"db.password":             "INVOSYNC_DB_PASSWORD",
		"db.name":                 "INVOSYNC_DB_NAME",
		"db.sslmode":              "INVOSYNC_DB_SSLMODE",
		"db.max_open":             "INVOSYNC_DB_MAX_OPEN",
		"db.max_idle":             "INVOSYNC_DB_MAX_IDLE",
		"extractor.api_key":       "INVOSYNC_EXTRACTOR_API_KEY",
		"extractor.model":         "INVOSYNC_EXTRACTOR_MODEL",
		"extractor.timeout_secs":  "INVOSYNC_EXTRACTOR_TIMEOUT_SECS",
		"sheet.workbook_path":     "INVOSYNC_SHEET_WORKBOOK_PATH",
		"sheet.summary_sheet":     "INVOSYNC_SHEET_SUMMARY_SHEET",
		"sheet.items_sheet":       "INVOSYNC_SHEET_ITEMS_SHEET",
		"archive.region":          "INVOSYNC_ARCHIVE_REGION",
		"archive.bucket":          "INVOSYNC_ARCHIVE_BUCKET",
		"archive.endpoint":        "INVOSYNC_ARCHIVE_ENDPOINT",
		"archive.access_key":      "INVOSYNC_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":      "INVOSYNC_ARCHIVE_SECRET_KEY",
		"upload.max_file_size_mb": "INVOSYNC_UPLOAD_MAX_FILE_SIZE_MB",
		"email.provider":          "INVOSYNC_EMAIL_PROVIDER",
		"email.region":            "INVOSYNC_EMAIL_REGION",
		"email.from_address":      "INVOSYNC_EMAIL_FROM_ADDRESS",
		"email.from_name":         "INVOSYNC_EMAIL_FROM_NAME",
		"cors.allowed_origins":    "INVOSYNC_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOSYNC_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOSYNC_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Extractor = ExtractorConfig{
		APIKey:      v.GetString("extractor.api_key"),
		Model:       v.GetString("extractor.model"),
		TimeoutSecs: v.GetInt("extractor.timeout_secs"),
	}
	cfg.Sheet = SheetConfig{
		WorkbookPath: v.GetString("sheet.workbook_path"),
		SummarySheet: v.GetString("sheet.summary_sheet"),
		ItemsSheet:   v.GetString("sheet.items_sheet"),
	}
	cfg.Archive = ArchiveConfig{
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
