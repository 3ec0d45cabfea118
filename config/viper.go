package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper
// counterparts.
const (
	keyUserID         = "user.id"
	keyUserName       = "user.name"
	keyPermissions    = "user.permissions"
	keyDarkTheme      = "display.dark_theme"
	keyTwentyFourHour = "display.24hr_clock"
	keyLogLevel       = "log.level"
	keyLogMaxSize     = "log.max_size_mb"
	keyLogMaxBackups  = "log.max_backups"
)

// WithViperConfig returns an Option that loads configuration from Viper.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("writing default config failed: %w", err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and any values collected by the
// first-run prompt.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyUserID, "")
	v.SetDefault(keyUserName, "")
	v.SetDefault(keyPermissions, []string{"*"})
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogMaxSize, 10)
	v.SetDefault(keyLogMaxBackups, 3)

	if c.User.ID != "" {
		v.Set(keyUserID, c.User.ID)
	}

	if c.User.Name != "" {
		v.Set(keyUserName, c.User.Name)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("config unmarshal failed: %w", err)
	}

	return nil
}
