// Package config is responsible for setting the program config from the
// config file and command-line arguments
package config

import (
	"github.com/ryz3006/alignzo/internal/pathutil"
)

const Version = "v1.0.0"

// Project describes a tracked project and the classification categories its
// sessions may use. Empty category lists accept any value.
type Project struct {
	ID                 string   `mapstructure:"id"`
	Name               string   `mapstructure:"name"`
	Modules            []string `mapstructure:"modules"`
	TaskCategories     []string `mapstructure:"task_categories"`
	WorkCategories     []string `mapstructure:"work_categories"`
	SeverityCategories []string `mapstructure:"severity_categories"`
	SourceCategories   []string `mapstructure:"source_categories"`
}

// User identifies the acting principal and its granted permissions.
// Permissions are "resource:action" pairs; "*" grants everything.
type User struct {
	ID          string   `mapstructure:"id"`
	Name        string   `mapstructure:"name"`
	Permissions []string `mapstructure:"permissions"`
}

// Display holds presentation settings.
type Display struct {
	DarkTheme      bool `mapstructure:"dark_theme"`
	TwentyFourHour bool `mapstructure:"24hr_clock"`
}

// Log holds log-file rotation settings.
type Log struct {
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Config is the application configuration.
type Config struct {
	User     User      `mapstructure:"user"`
	Display  Display   `mapstructure:"display"`
	Log      Log       `mapstructure:"log"`
	Projects []Project `mapstructure:"projects"`
}

// Option configures a Config value.
type Option func(*Config) error

// New creates a Config by applying the given options in order.
func New(opts ...Option) (*Config, error) {
	c := &Config{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Load initializes application paths and reads the configuration,
// prompting for first-time setup when no config file exists yet.
func Load() (*Config, error) {
	if err := pathutil.Initialize(); err != nil {
		return nil, err
	}

	configPath := pathutil.Must().ConfigFile()

	return New(
		WithPromptConfig(configPath),
		WithViperConfig(configPath),
	)
}

// Project returns the configured project with the given id.
func (c *Config) Project(id string) (*Project, bool) {
	for i := range c.Projects {
		if c.Projects[i].ID == id {
			return &c.Projects[i], true
		}
	}

	return nil, false
}
