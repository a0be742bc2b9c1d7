package acep

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the complete configuration of the command line tool.
type Config struct {
	Options
	// DB is the catalog database, empty to disable it.
	DB string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Options: Options{
			Workers: runtime.NumCPU(),
		},
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Output == "" {
		return errors.New("no output directory")
	}
	info, err := os.Stat(c.Output)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", c.Output)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// FileConfig mirrors Config as read from a TOML file. Pointers distinguish
// an explicit false from an absent key.
type FileConfig struct {
	Output  string `toml:"output"`
	PNG     *bool  `toml:"png"`
	Random  *bool  `toml:"random"`
	Seed    int64  `toml:"seed"`
	Workers int    `toml:"workers"`
	DB      string `toml:"db"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.acep/config.toml, or an empty string if the
// home directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".acep", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies every value present in fc into cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if fc.Output != "" {
		cfg.Output = fc.Output
	}
	if fc.PNG != nil {
		cfg.Preview = *fc.PNG
	}
	if fc.Random != nil {
		cfg.Random = *fc.Random
	}
	if fc.Seed != 0 {
		cfg.Seed = fc.Seed
	}
	if fc.Workers != 0 {
		cfg.Workers = fc.Workers
	}
	if fc.DB != "" {
		cfg.DB = fc.DB
	}
}
