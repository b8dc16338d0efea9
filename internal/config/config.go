// Package config handles loading and saving user configuration for pyime.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/pyime/internal/decoder"
	"github.com/f3rmion/pyime/internal/hmm"
	"github.com/f3rmion/pyime/internal/predict"
	"github.com/f3rmion/pyime/internal/rank"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the config directory.
const FileName = "config.yaml"

// Config holds all user configuration for the input engine.
type Config struct {
	Mode          string  `yaml:"mode"`           // "slip" or "circle_pad"
	PageSize      int     `yaml:"page_size"`      // candidates per page
	BestSize      int     `yaml:"best_size"`      // model-ranked candidates leading the list
	MaxCandidates int     `yaml:"max_candidates"` // candidates searched per prediction position
	ScoreFloor    float64 `yaml:"score_floor"`    // log score of unseen transitions
	Dictionary    string  `yaml:"dictionary"`     // MMAH dictionary.txt, for radicals
	Extras        string  `yaml:"extras"`         // extra words, variants and emojis
	Database      string  `yaml:"database"`       // SQLite model and corpus
	Watch         bool    `yaml:"watch"`          // reload the model when the database changes
}

// Default returns the configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Mode:          decoder.ModeSlip.String(),
		PageSize:      rank.DefaultPageSize,
		BestSize:      rank.DefaultBestSize,
		MaxCandidates: predict.DefaultMaxCandidates,
		ScoreFloor:    hmm.DefaultFloor,
		Dictionary:    filepath.Join(dir, "dictionary.txt"),
		Extras:        filepath.Join(dir, "extras.yaml"),
		Database:      filepath.Join(dir, "pyime.db"),
	}
}

// Load reads dir/config.yaml over the defaults. A missing file yields
// the defaults. Relative paths are resolved against dir.
func Load(dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	for _, p := range []*string{&cfg.Dictionary, &cfg.Extras, &cfg.Database} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the field ranges.
func (c *Config) Validate() error {
	if _, err := decoder.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.BestSize <= 0 || c.BestSize > c.PageSize {
		return fmt.Errorf("best_size must be in 1..%d, got %d", c.PageSize, c.BestSize)
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be positive, got %d", c.MaxCandidates)
	}
	if c.ScoreFloor >= 0 {
		return fmt.Errorf("score_floor must be negative, got %g", c.ScoreFloor)
	}
	if c.Database == "" {
		return errors.New("database path is required")
	}
	return nil
}

// KeyboardMode returns the parsed keyboard mode.
func (c *Config) KeyboardMode() decoder.Mode {
	m, err := decoder.ParseMode(c.Mode)
	if err != nil {
		return decoder.ModeSlip
	}
	return m
}

// Save writes the configuration to dir/config.yaml.
func Save(dir string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pyime"), nil
}

// EnsureConfigDir creates dir, or the default directory when dir is
// empty, and returns it.
func EnsureConfigDir(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = GetConfigDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
