package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DuplicatesReject = "reject"
	DuplicatesIgnore = "ignore"
)

type Config struct {
	Log   LogConfig   `yaml:"log"`
	Store StoreConfig `yaml:"store"`
	Seed  string      `yaml:"seed"` // yaml file with demo records, empty - built-in set
}

type LogConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Development bool   `yaml:"development"` // zap.NewDevelopment instead of zap.NewProduction
}

type StoreConfig struct {
	Reserve    int    `yaml:"reserve"`    // 0 - no preallocation
	Duplicates string `yaml:"duplicates"` // reject or ignore
}

// NewConfig returns the defaults
func NewConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:       "info",
			Development: true,
		},
		Store: StoreConfig{
			Reserve:    0,
			Duplicates: DuplicatesReject,
		},
	}
}

// Load reads the yaml file at path over the defaults, empty path - defaults only
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// ParseFlags overrides the config from command line arguments.
// -config is accepted here and read by ConfigPath.
func (c *Config) ParseFlags(args []string) error {
	fs, _ := c.flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	applyDefaults(c)
	return nil
}

// ConfigPath returns the value of -config from args
func ConfigPath(args []string) (string, error) {
	fs, path := NewConfig().flagSet()
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *path, nil
}

func (c *Config) flagSet() (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet("multiindex", flag.ContinueOnError)
	path := fs.String("config", "", "yaml config file")
	fs.IntVar(&c.Store.Reserve, "reserve", c.Store.Reserve, "expected number of records")
	fs.StringVar(&c.Store.Duplicates, "duplicates", c.Store.Duplicates, "duplicate key policy: reject or ignore")
	fs.StringVar(&c.Seed, "seed", c.Seed, "yaml file with records")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level")
	return fs, path
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Reserve < 0 {
		cfg.Store.Reserve = 0
	}
	if cfg.Store.Duplicates != DuplicatesIgnore {
		cfg.Store.Duplicates = DuplicatesReject
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
