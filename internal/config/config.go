package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logbook   LogbookConfig   `mapstructure:"logbook"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Retention RetentionConfig `mapstructure:"retention"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// LogbookConfig holds document generation configuration
type LogbookConfig struct {
	OutputDir      string  `mapstructure:"output_dir"`
	Format         string  `mapstructure:"format"`
	Institution    string  `mapstructure:"institution"`
	College        string  `mapstructure:"college"`
	DiagramWidth   float64 `mapstructure:"diagram_width"`
	DefaultDiagram string  `mapstructure:"default_diagram"`
	DiagramDPI     float64 `mapstructure:"diagram_dpi"`
	BorderLine     string  `mapstructure:"border_line"`
	BorderSize     int     `mapstructure:"border_size"`
	BorderColor    string  `mapstructure:"border_color"`
}

// StorageConfig holds uploaded file configuration
type StorageConfig struct {
	MediaDir string `mapstructure:"media_dir"`
}

// AuthConfig holds account and session configuration
type AuthConfig struct {
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	SecureCookies bool          `mapstructure:"secure_cookies"`
	University    string        `mapstructure:"university"`
}

// OpenAIConfig holds OpenAI API configuration. The summarizer is disabled
// when APIKey is empty.
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PromptsPath string        `mapstructure:"prompts_path"`
}

// RetentionConfig holds cleanup worker configuration
type RetentionConfig struct {
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	DocumentMaxAge time.Duration `mapstructure:"document_max_age"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A .env file
// next to the working directory is read first when present. A missing
// config file is not an error: defaults and environment apply.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LOGBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(configPath); statErr == nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_upload_bytes", 10<<20)

	// Database defaults
	v.SetDefault("database.path", "data/logbook.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)

	// Logbook defaults
	v.SetDefault("logbook.output_dir", "media/logbooks")
	v.SetDefault("logbook.format", "docx")
	v.SetDefault("logbook.institution", "UNIVERSITY OF DAR ES SALAAM")
	v.SetDefault("logbook.college", "COLLEGE OF INFORMATION AND COMMUNICATION TECHNOLOGIES")
	v.SetDefault("logbook.diagram_width", 6.0)
	v.SetDefault("logbook.diagram_dpi", 150.0)
	v.SetDefault("logbook.border_line", "single")
	v.SetDefault("logbook.border_size", 4)
	v.SetDefault("logbook.border_color", "auto")

	// Storage defaults
	v.SetDefault("storage.media_dir", "media")

	// Auth defaults
	v.SetDefault("auth.session_ttl", 14*24*time.Hour)
	v.SetDefault("auth.cookie_name", "logbook_session")
	v.SetDefault("auth.university", "UDSM")

	// OpenAI defaults
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.max_tokens", 300)
	v.SetDefault("openai.timeout", 60*time.Second)

	// Retention defaults
	v.SetDefault("retention.sweep_interval", time.Hour)
	v.SetDefault("retention.document_max_age", 0)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials from environment
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	_ = v.BindEnv("database.path", "LOGBOOK_DATABASE_PATH", "DATABASE_PATH")
	_ = v.BindEnv("server.port", "LOGBOOK_SERVER_PORT", "PORT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Logbook.OutputDir == "" {
		return fmt.Errorf("logbook.output_dir is required")
	}
	switch strings.ToLower(c.Logbook.Format) {
	case "docx", "xlsx":
	default:
		return fmt.Errorf("logbook.format must be docx or xlsx, got %q", c.Logbook.Format)
	}
	if c.Storage.MediaDir == "" {
		return fmt.Errorf("storage.media_dir is required")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("openai.temperature must be between 0 and 2")
	}
	return nil
}
