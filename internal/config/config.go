package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/mindlist/internal/localstore"
	"gopkg.in/yaml.v3"
)

// SyncConfig controls the optional cloud-drive sync.
type SyncConfig struct {
	Enabled         bool   `yaml:"enabled"`
	DriveDir        string `yaml:"drive_dir"`
	DebounceSeconds int    `yaml:"debounce_seconds"`
}

// TrashConfig controls the recently-deleted sweep.
type TrashConfig struct {
	SweepIntervalHours int `yaml:"sweep_interval_hours"`
}

// Config holds application configuration
type Config struct {
	DataDir  string      `yaml:"data_dir"`
	DBPath   string      `yaml:"db_path"`
	LogLevel string      `yaml:"log_level"`
	Sync     SyncConfig  `yaml:"sync"`
	Trash    TrashConfig `yaml:"trash"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := localstore.DefaultDataDir()
	return &Config{
		DataDir:  dataDir,
		DBPath:   filepath.Join(dataDir, "mindlist.db"),
		LogLevel: "info",
		Sync: SyncConfig{
			DriveDir:        filepath.Join(dataDir, "drive"),
			DebounceSeconds: 5,
		},
		Trash: TrashConfig{
			SweepIntervalHours: 24,
		},
	}
}

// Load reads the config file at path and merges it over the defaults.
// Unset fields fall back; paths left unset follow a custom data_dir.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var file Config
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return nil, err
	}

	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
		cfg.DBPath = filepath.Join(cfg.DataDir, "mindlist.db")
		cfg.Sync.DriveDir = filepath.Join(cfg.DataDir, "drive")
	}
	if file.DBPath != "" {
		cfg.DBPath = file.DBPath
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	cfg.Sync.Enabled = file.Sync.Enabled
	if file.Sync.DriveDir != "" {
		cfg.Sync.DriveDir = file.Sync.DriveDir
	}
	if file.Sync.DebounceSeconds > 0 {
		cfg.Sync.DebounceSeconds = file.Sync.DebounceSeconds
	}
	if file.Trash.SweepIntervalHours > 0 {
		cfg.Trash.SweepIntervalHours = file.Trash.SweepIntervalHours
	}
	return cfg, nil
}

// Debounce returns the sync debounce quiet window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Sync.DebounceSeconds) * time.Second
}

// SweepInterval returns the trash sweep interval.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Trash.SweepIntervalHours) * time.Hour
}
