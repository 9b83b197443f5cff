// Package container provides dependency injection and lifecycle management
// for the logbook service following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"github.com/garyjia/pt-logbook/internal/logbook"
	"go.uber.org/zap"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Logbook document configuration
	Logbook LogbookConfig

	// Storage configuration
	Storage StorageConfig

	// Auth configuration
	Auth AuthConfig

	// OpenAI configuration
	OpenAI OpenAIConfig

	// Server configuration
	Server ServerConfig

	// Retention configuration
	Retention RetentionConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// MigrationsDir overrides the embedded schema when set
	MigrationsDir string
}

// LogbookConfig holds document builder settings.
type LogbookConfig struct {
	// OutputDir receives generated logbooks
	OutputDir string

	// Format is docx or xlsx
	Format string

	// Institution and College are printed at the top of every logbook
	Institution string
	College     string

	// DiagramWidth is the embedded diagram width in inches
	DiagramWidth float64

	// DefaultDiagram is used for logbooks without an uploaded diagram
	DefaultDiagram string

	// DiagramDPI is the resolution of rasterized PDF diagrams
	DiagramDPI float64

	// Border line style, size in eighths of a point, and color
	BorderLine  string
	BorderSize  int
	BorderColor string
}

// StorageConfig holds file storage settings.
type StorageConfig struct {
	// MediaDir is the base directory for uploaded diagrams
	MediaDir string
}

// AuthConfig holds account and session settings.
type AuthConfig struct {
	// SessionTTL is how long a login stays valid
	SessionTTL time.Duration

	// CookieName carries the session id
	CookieName string

	// SecureCookies marks the session cookie HTTPS-only
	SecureCookies bool

	// University is stored on new student profiles
	University string
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	// APIKey enables week summaries when set
	APIKey string

	// BaseURL overrides the API endpoint
	BaseURL string

	// Model is the model to use (e.g., "gpt-4o-mini")
	Model string

	// Temperature controls randomness (0.0-1.0)
	Temperature float32

	// MaxTokens limits response length
	MaxTokens int

	// Timeout for API calls
	Timeout time.Duration

	// PromptsPath is an optional YAML prompt file
	PromptsPath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host to bind to
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP server
	ReadTimeout time.Duration

	// WriteTimeout for HTTP server
	WriteTimeout time.Duration

	// MaxUploadBytes limits diagram uploads
	MaxUploadBytes int64
}

// RetentionConfig holds cleanup worker settings.
type RetentionConfig struct {
	// SweepInterval between cleanup runs
	SweepInterval time.Duration

	// DocumentMaxAge removes generated files older than this; zero keeps them
	DocumentMaxAge time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/logbook.db",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: 0,
		},
		Logbook: LogbookConfig{
			OutputDir:    "media/logbooks",
			Format:       string(logbook.FormatDOCX),
			Institution:  logbook.DefaultInstitution,
			College:      logbook.DefaultCollege,
			DiagramWidth: logbook.DefaultDiagramWidth,
			DiagramDPI:   150,
			BorderLine:   string(logbook.DefaultBorder.Line),
			BorderSize:   logbook.DefaultBorder.Size,
			BorderColor:  logbook.DefaultBorder.Color,
		},
		Storage: StorageConfig{
			MediaDir: "media",
		},
		Auth: AuthConfig{
			SessionTTL: 14 * 24 * time.Hour,
			CookieName: "logbook_session",
			University: "UDSM",
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			MaxTokens:   300,
			Timeout:     60 * time.Second,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxUploadBytes: 10 << 20,
		},
		Retention: RetentionConfig{
			SweepInterval: time.Hour,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Logbook.OutputDir == "" {
		return fmt.Errorf("logbook.output_dir is required")
	}
	if _, err := logbook.NewRenderer(logbook.Format(c.Logbook.Format), zap.NewNop()); err != nil {
		return fmt.Errorf("logbook.format: %w", err)
	}
	switch logbook.LineStyle(c.Logbook.BorderLine) {
	case "", logbook.LineSingle, logbook.LineDouble, logbook.LineDashed, logbook.LineDotted:
	default:
		return fmt.Errorf("logbook.border_line %q is not supported", c.Logbook.BorderLine)
	}
	if c.Storage.MediaDir == "" {
		return fmt.Errorf("storage.media_dir is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Retention.DocumentMaxAge < 0 {
		return fmt.Errorf("retention.document_max_age must not be negative")
	}
	return nil
}

// BuilderConfig converts the logbook settings for logbook.NewBuilder.
func (c *LogbookConfig) BuilderConfig() logbook.Config {
	return logbook.Config{
		OutputDir:    c.OutputDir,
		Format:       logbook.Format(c.Format),
		Institution:  c.Institution,
		College:      c.College,
		DiagramWidth: c.DiagramWidth,
		Border: logbook.BorderStyle{
			Line:  logbook.LineStyle(c.BorderLine),
			Size:  c.BorderSize,
			Color: c.BorderColor,
		},
	}
}
