package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "producer.db"
	DefaultDataDir        = "data"
	DefaultLogFile        = "producer.log"
	DefaultInterval       = "24h"
	DefaultRetentionDays  = 7

	// EnvConfigPath overrides the config location when --config is not given.
	EnvConfigPath = "PRODUCER_CONFIG"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	SwitchView string `toml:"switch_view"`
	PrevDay    string `toml:"prev_day"`
	NextDay    string `toml:"next_day"`
	Today      string `toml:"today"`
	JumpDate   string `toml:"jump_date"`
	Export     string `toml:"export"`
	Import     string `toml:"import"`
	Priority   string `toml:"priority"`
	Filter     string `toml:"filter"`
}

type Config struct {
	Backend             string `toml:"backend"`
	DBPath              string `toml:"db_path"`
	DataDir             string `toml:"data_dir"`
	ExportDir           string `toml:"export_dir"`
	LogFile             string `toml:"log_file"`
	RetentionDays       int    `toml:"retention_days"`
	MaintenanceInterval string `toml:"maintenance_interval"`
	Timezone            string `toml:"timezone"`
	DefaultFilter       string `toml:"default_filter"`
	StartView           string `toml:"start_view"`
	Keys                Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file: $PRODUCER_CONFIG, then the user
// config directory, then the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "producer", DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there first if the file
// does not exist. Relative paths inside the file are resolved against the
// file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolved(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg.resolved(filepath.Dir(path)), nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch c.Backend {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("backend %q: want sqlite, file or memory", c.Backend)
	}
	if c.RetentionDays < 1 {
		return fmt.Errorf("retention_days must be at least 1, got %d", c.RetentionDays)
	}
	if _, err := c.Interval(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.DefaultFilter {
	case "all", "active", "completed":
	default:
		return fmt.Errorf("default_filter %q: want all, active or completed", c.DefaultFilter)
	}
	switch c.StartView {
	case "producer", "ideas":
	default:
		return fmt.Errorf("start_view %q: want producer or ideas", c.StartView)
	}
	return nil
}

// Interval parses maintenance_interval.
func (c Config) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(c.MaintenanceInterval)
	if err != nil {
		return 0, fmt.Errorf("maintenance_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("maintenance_interval must be positive, got %s", d)
	}
	return d, nil
}

// Location resolves timezone; empty means the system zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// StorageLocation is the path handed to the storage backend.
func (c Config) StorageLocation() string {
	if c.Backend == "file" {
		return c.DataDir
	}
	return c.DBPath
}

func (c *Config) fillDefaults() {
	def := defaultConfig()
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBName
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.ExportDir == "" {
		c.ExportDir = def.ExportDir
	}
	if c.RetentionDays == 0 {
		c.RetentionDays = DefaultRetentionDays
	}
	if c.MaintenanceInterval == "" {
		c.MaintenanceInterval = DefaultInterval
	}
	c.DefaultFilter = strings.ToLower(strings.TrimSpace(c.DefaultFilter))
	if c.DefaultFilter == "" {
		c.DefaultFilter = def.DefaultFilter
	}
	c.StartView = strings.ToLower(strings.TrimSpace(c.StartView))
	if c.StartView == "" {
		c.StartView = def.StartView
	}
	fillKeys(&c.Keys, def.Keys)
}

func fillKeys(k *Keymap, def Keymap) {
	pairs := []struct {
		dst *string
		def string
	}{
		{&k.Quit, def.Quit}, {&k.Add, def.Add}, {&k.Up, def.Up}, {&k.Down, def.Down},
		{&k.Toggle, def.Toggle}, {&k.Delete, def.Delete}, {&k.Confirm, def.Confirm},
		{&k.Cancel, def.Cancel}, {&k.SwitchView, def.SwitchView}, {&k.PrevDay, def.PrevDay},
		{&k.NextDay, def.NextDay}, {&k.Today, def.Today}, {&k.JumpDate, def.JumpDate},
		{&k.Export, def.Export}, {&k.Import, def.Import}, {&k.Priority, def.Priority},
		{&k.Filter, def.Filter},
	}
	for _, p := range pairs {
		if *p.dst == "" {
			*p.dst = p.def
		}
	}
}

func (c Config) resolved(base string) Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
			return p
		}
		return filepath.Join(base, p)
	}
	c.DBPath = abs(c.DBPath)
	c.DataDir = abs(c.DataDir)
	c.ExportDir = abs(c.ExportDir)
	c.LogFile = abs(c.LogFile)
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration with unresolved paths.
func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Backend:             "sqlite",
		DBPath:              DefaultDBName,
		DataDir:             DefaultDataDir,
		ExportDir:           ".",
		LogFile:             DefaultLogFile,
		RetentionDays:       DefaultRetentionDays,
		MaintenanceInterval: DefaultInterval,
		DefaultFilter:       "all",
		StartView:           "producer",
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Up:         "k",
			Down:       "j",
			Toggle:     " ",
			Delete:     "d",
			Confirm:    "enter",
			Cancel:     "esc",
			SwitchView: "tab",
			PrevDay:    "[",
			NextDay:    "]",
			Today:      "t",
			JumpDate:   "g",
			Export:     "x",
			Import:     "i",
			Priority:   "p",
			Filter:     "f",
		},
	}
}
