// Package config loads the optional neurograph TOML config file.
//
// Every key is optional; keys absent from the file keep their defaults.
// Relative paths in the file resolve against the file's directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config is the resolved configuration.
type Config struct {
	LogLevel  string `validate:"oneof=info debug trace"`
	Prompt    string
	Seed      uint64
	Processor ProcessorConfig
	Session   SessionConfig
}

// ProcessorConfig names the processor the proc shell starts with.
type ProcessorConfig struct {
	Name       string `validate:"required"`
	ParamsFile string
}

// SessionConfig controls the sqlite session log.
type SessionConfig struct {
	Database string
	Record   bool
}

// fileConfig is the config.toml key mapping.
type fileConfig struct {
	LogLevel  string `toml:"log_level"`
	Prompt    string `toml:"prompt"`
	Seed      int64  `toml:"seed"`
	Processor struct {
		Name       string `toml:"name"`
		ParamsFile string `toml:"params_file"`
	} `toml:"processor"`
	Session struct {
		Database string `toml:"database"`
		Record   bool   `toml:"record"`
	} `toml:"session"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:  "info",
		Seed:      0,
		Processor: ProcessorConfig{Name: "risp"},
		Session:   SessionConfig{Database: "neurograph.db"},
	}
}

// Load reads path and overlays its keys onto Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config: unknown keys %s", strings.Join(keys, ", "))
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	if meta.IsDefined("prompt") {
		cfg.Prompt = raw.Prompt
	}
	if meta.IsDefined("seed") {
		if raw.Seed < 0 {
			return Config{}, fmt.Errorf("load config: seed must be non-negative, got %d", raw.Seed)
		}
		cfg.Seed = uint64(raw.Seed)
	}
	if meta.IsDefined("processor", "name") {
		cfg.Processor.Name = strings.TrimSpace(raw.Processor.Name)
	}
	if meta.IsDefined("processor", "params_file") {
		cfg.Processor.ParamsFile = resolve(path, raw.Processor.ParamsFile)
	}
	if meta.IsDefined("session", "database") {
		cfg.Session.Database = resolve(path, raw.Session.Database)
	}
	if meta.IsDefined("session", "record") {
		cfg.Session.Record = raw.Session.Record
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Session.Record && strings.TrimSpace(c.Session.Database) == "" {
		return fmt.Errorf("session.database is required when session.record is true")
	}
	return nil
}

// ProcessorParams reads the processor params file. No file yields "{}".
func (c Config) ProcessorParams() (json.RawMessage, error) {
	if c.Processor.ParamsFile == "" {
		return json.RawMessage("{}"), nil
	}
	data, err := os.ReadFile(c.Processor.ParamsFile)
	if err != nil {
		return nil, fmt.Errorf("processor params: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("processor params: %s is not valid JSON", c.Processor.ParamsFile)
	}
	return data, nil
}

func resolve(configPath, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}
