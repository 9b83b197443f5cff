package config

import (
	"github.com/garyjia/pt-logbook/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Logbook: container.LogbookConfig{
			OutputDir:      c.Logbook.OutputDir,
			Format:         c.Logbook.Format,
			Institution:    c.Logbook.Institution,
			College:        c.Logbook.College,
			DiagramWidth:   c.Logbook.DiagramWidth,
			DefaultDiagram: c.Logbook.DefaultDiagram,
			DiagramDPI:     c.Logbook.DiagramDPI,
			BorderLine:     c.Logbook.BorderLine,
			BorderSize:     c.Logbook.BorderSize,
			BorderColor:    c.Logbook.BorderColor,
		},
		Storage: container.StorageConfig{
			MediaDir: c.Storage.MediaDir,
		},
		Auth: container.AuthConfig{
			SessionTTL:    c.Auth.SessionTTL,
			CookieName:    c.Auth.CookieName,
			SecureCookies: c.Auth.SecureCookies,
			University:    c.Auth.University,
		},
		OpenAI: container.OpenAIConfig{
			APIKey:      c.OpenAI.APIKey,
			BaseURL:     c.OpenAI.BaseURL,
			Model:       c.OpenAI.Model,
			Temperature: c.OpenAI.Temperature,
			MaxTokens:   c.OpenAI.MaxTokens,
			Timeout:     c.OpenAI.Timeout,
			PromptsPath: c.OpenAI.PromptsPath,
		},
		Server: container.ServerConfig{
			Host:           c.Server.Host,
			Port:           c.Server.Port,
			ReadTimeout:    c.Server.ReadTimeout,
			WriteTimeout:   c.Server.WriteTimeout,
			MaxUploadBytes: c.Server.MaxUploadBytes,
		},
		Retention: container.RetentionConfig{
			SweepInterval:  c.Retention.SweepInterval,
			DocumentMaxAge: c.Retention.DocumentMaxAge,
		},
	}
}
