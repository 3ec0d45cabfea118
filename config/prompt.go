package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
 █████╗ ██╗     ██╗ ██████╗ ███╗   ██╗███████╗ ██████╗
██╔══██╗██║     ██║██╔════╝ ████╗  ██║╚══███╔╝██╔═══██╗
███████║██║     ██║██║  ███╗██╔██╗ ██║  ███╔╝ ██║   ██║
██╔══██║██║     ██║██║   ██║██║╚██╗██║ ███╔╝  ██║   ██║
██║  ██║███████╗██║╚██████╔╝██║ ╚████║███████╗╚██████╔╝
╚═╝  ╚═╝╚══════╝╚═╝ ╚═════╝ ╚═╝  ╚═══╝╚══════╝ ╚═════╝`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	UserID   string
	UserName string
}

// WithPromptConfig returns an Option that configures settings via
// interactive prompts on first run.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		c.User.ID = opts.UserID
		c.User.Name = opts.UserName

		return nil
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	var opts PromptOptions

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure alignzo for the first time.
Sessions and work logs are recorded against the user id you choose here.
Edit the config file with 'alignzo edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User id").
				Description("Used to attribute sessions and work logs").
				Validate(func(s string) error {
					if s == "" {
						return errors.New("a user id is required")
					}
					return nil
				}).
				Value(&opts.UserID),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Display name").
				Value(&opts.UserName),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}
