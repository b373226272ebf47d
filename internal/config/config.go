// Package config loads the planner configuration from a YAML file. The file
// is created with defaults on first run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/scheduler"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultHorizonDays       = 14
	defaultImportHorizonDays = 120
	defaultWatchCron         = "0 6 * * *"
)

// Config is the planner configuration file.
type Config struct {
	DayStart string `yaml:"day_start" json:"day_start"`
	DayEnd   string `yaml:"day_end" json:"day_end"`

	MinGapMinutes int `yaml:"min_gap_minutes" json:"min_gap_minutes"`
	MaxGapMinutes int `yaml:"max_gap_minutes" json:"max_gap_minutes"`

	MaxBlocksPerDay               int `yaml:"max_blocks_per_day" json:"max_blocks_per_day"`
	MaxBlocksPerObligation        int `yaml:"max_blocks_per_obligation" json:"max_blocks_per_obligation"`
	MaxBlocksPerObligationPerPass int `yaml:"max_blocks_per_obligation_per_pass" json:"max_blocks_per_obligation_per_pass"`

	// WeightThreshold is a pointer so an explicit 0 survives Normalize.
	WeightThreshold *float64 `yaml:"weight_threshold" json:"weight_threshold"`
	Keywords        []string `yaml:"keywords" json:"keywords"`

	HorizonDays       int    `yaml:"horizon_days" json:"horizon_days"`
	ImportHorizonDays int    `yaml:"import_horizon_days" json:"import_horizon_days"`
	WatchCron         string `yaml:"watch_cron" json:"watch_cron"`
	Timezone          string `yaml:"timezone" json:"timezone"`
}

// DefaultConfig mirrors scheduler.DefaultConstraints.
func DefaultConfig() *Config {
	c := scheduler.DefaultConstraints()
	return &Config{
		DayStart:                      c.DayStart.String(),
		DayEnd:                        c.DayEnd.String(),
		MinGapMinutes:                 c.MinGapMin,
		MaxGapMinutes:                 c.MaxGapMin,
		MaxBlocksPerDay:               c.MaxBlocksPerDay,
		MaxBlocksPerObligation:        c.MaxBlocksPerObligation,
		MaxBlocksPerObligationPerPass: c.MaxBlocksPerObligationPerPass,
		WeightThreshold:               domain.Float64Ptr(c.WeightThreshold),
		Keywords:                      c.Keywords,
		HorizonDays:                   defaultHorizonDays,
		ImportHorizonDays:             defaultImportHorizonDays,
		WatchCron:                     defaultWatchCron,
	}
}

// Normalize fills missing or zero values with defaults so partially written
// files still behave.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if strings.TrimSpace(c.DayStart) == "" {
		c.DayStart = d.DayStart
	}
	if strings.TrimSpace(c.DayEnd) == "" {
		c.DayEnd = d.DayEnd
	}
	if c.MinGapMinutes == 0 {
		c.MinGapMinutes = d.MinGapMinutes
	}
	if c.MaxGapMinutes == 0 {
		c.MaxGapMinutes = d.MaxGapMinutes
	}
	if c.MaxBlocksPerDay == 0 {
		c.MaxBlocksPerDay = d.MaxBlocksPerDay
	}
	if c.MaxBlocksPerObligation == 0 {
		c.MaxBlocksPerObligation = d.MaxBlocksPerObligation
	}
	if c.MaxBlocksPerObligationPerPass == 0 {
		c.MaxBlocksPerObligationPerPass = d.MaxBlocksPerObligationPerPass
	}
	if c.WeightThreshold == nil {
		c.WeightThreshold = d.WeightThreshold
	}
	if c.Keywords == nil {
		c.Keywords = d.Keywords
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = d.HorizonDays
	}
	if c.ImportHorizonDays <= 0 {
		c.ImportHorizonDays = d.ImportHorizonDays
	}
	if strings.TrimSpace(c.WatchCron) == "" {
		c.WatchCron = d.WatchCron
	}
}

// Constraints converts the file values into scheduler constraints. Only
// malformed clock strings are reported here; Validate checks consistency.
func (c *Config) Constraints() (scheduler.Constraints, error) {
	start, err := domain.ParseClock(c.DayStart)
	if err != nil {
		return scheduler.Constraints{}, fmt.Errorf("%w: day_start: %v", scheduler.ErrInvalidConstraints, err)
	}
	end, err := domain.ParseClock(c.DayEnd)
	if err != nil {
		return scheduler.Constraints{}, fmt.Errorf("%w: day_end: %v", scheduler.ErrInvalidConstraints, err)
	}
	threshold := 0.0
	if c.WeightThreshold != nil {
		threshold = *c.WeightThreshold
	}
	return scheduler.Constraints{
		DayStart:                      start,
		DayEnd:                        end,
		MinGapMin:                     c.MinGapMinutes,
		MaxGapMin:                     c.MaxGapMinutes,
		MaxBlocksPerDay:               c.MaxBlocksPerDay,
		MaxBlocksPerObligation:        c.MaxBlocksPerObligation,
		MaxBlocksPerObligationPerPass: c.MaxBlocksPerObligationPerPass,
		WeightThreshold:               threshold,
		Keywords:                      append([]string(nil), c.Keywords...),
	}, nil
}

// Location resolves Timezone, defaulting to the local zone.
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks the constraints, the watch schedule and the timezone.
func (c *Config) Validate() error {
	cons, err := c.Constraints()
	if err != nil {
		return err
	}
	if err := cons.Validate(); err != nil {
		return err
	}
	if _, err := cron.ParseStandard(c.WatchCron); err != nil {
		return fmt.Errorf("watch_cron %q: %w", c.WatchCron, err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// DefaultPath returns STUDYPLAN_CONFIG or ~/.studyplan/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("STUDYPLAN_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".studyplan", "config.yaml")
	}
	return filepath.Join(home, ".studyplan", "config.yaml")
}

// Load reads the YAML file at path. A missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".studyplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
