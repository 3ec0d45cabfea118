// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// Paths holds all application path configurations.
type Paths struct {
	configDir      string
	configFileName string
	dbFileName     string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dbFilePath     string
	logFilePath    string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths = &Paths{
			configDir:      "alignzo",
			configFileName: "config.yml",
			dbFileName:     "alignzo.db",
			logFileName:    "alignzo.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

// applyEnvironmentOverrides keeps test and development databases separate
// from the default ones.
func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv("ALIGNZO_ENV"))
	if env == "" {
		return
	}

	p.configFileName = fmt.Sprintf("config_%s.yml", env)
	p.dbFileName = fmt.Sprintf("alignzo_%s.db", env)
	p.logFileName = fmt.Sprintf("alignzo_%s.log", env)
}

func (p *Paths) computePaths() error {
	relPath := filepath.Join(p.configDir, p.configFileName)

	configFilePath, err := xdg.ConfigFile(relPath)
	if err != nil {
		return fmt.Errorf("unable to resolve config file path: %w", err)
	}

	dbFilePath, err := xdg.DataFile(filepath.Join(p.configDir, p.dbFileName))
	if err != nil {
		return fmt.Errorf("unable to resolve db file path: %w", err)
	}

	logFilePath, err := xdg.DataFile(
		filepath.Join(p.configDir, p.logFileName),
	)
	if err != nil {
		return fmt.Errorf("unable to resolve log file path: %w", err)
	}

	p.configFilePath = configFilePath
	p.dbFilePath = dbFilePath
	p.logFilePath = logFilePath

	return nil
}

func (p *Paths) ConfigFile() string {
	return p.configFilePath
}

func (p *Paths) DBFile() string {
	return p.dbFilePath
}

func (p *Paths) LogFile() string {
	return p.logFilePath
}
