package isobmff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML form of the parse options:
//
//	strict: false
//	ignore_warnings: false
//	max_depth: 32
//	max_boxes: 100000
//	http:
//	  username: viewer
//	  password: secret
//	  block_size: 131072
//	  cache_blocks: 32
//	  timeout: 30s
//	log:
//	  level: debug
//
// Fields left out keep their defaults.
type Config struct {
	Strict         bool `yaml:"strict"`
	IgnoreWarnings bool `yaml:"ignore_warnings"`
	MaxDepth       int  `yaml:"max_depth"`

	// MaxBoxes is a pointer so that an explicit 0, which disables the
	// limit, can be told apart from an absent key.
	MaxBoxes *int `yaml:"max_boxes"`

	HTTP HTTPConfig `yaml:"http"`
	Log  LogConfig  `yaml:"log"`
}

// HTTPConfig configures OpenURL.
type HTTPConfig struct {
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	BlockSize   int           `yaml:"block_size"`
	CacheBlocks int           `yaml:"cache_blocks"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LogConfig selects the log level of tools built on the package. The
// library itself only logs to the logger given with WithLogger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel parses Level. An empty level is slog.LevelInfo.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return level, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return level, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML configuration. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.MaxDepth < 0:
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	case c.MaxBoxes != nil && *c.MaxBoxes < 0:
		return fmt.Errorf("max_boxes must not be negative, got %d", *c.MaxBoxes)
	case c.HTTP.BlockSize < 0:
		return fmt.Errorf("http.block_size must not be negative, got %d", c.HTTP.BlockSize)
	case c.HTTP.CacheBlocks < 0:
		return fmt.Errorf("http.cache_blocks must not be negative, got %d", c.HTTP.CacheBlocks)
	case c.HTTP.Timeout < 0:
		return fmt.Errorf("http.timeout must not be negative, got %s", c.HTTP.Timeout)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Options translates the configuration into options. Settings equal to
// their zero value produce no option.
func (c Config) Options() []Option {
	var opts []Option
	if c.Strict {
		opts = append(opts, WithStrictParsing())
	}
	if c.IgnoreWarnings {
		opts = append(opts, WithIgnoreWarnings())
	}
	if c.MaxDepth > 0 {
		opts = append(opts, WithMaxDepth(c.MaxDepth))
	}
	if c.MaxBoxes != nil {
		opts = append(opts, WithMaxBoxes(*c.MaxBoxes))
	}
	if c.HTTP.Username != "" {
		opts = append(opts, WithDigestAuth(c.HTTP.Username, c.HTTP.Password))
	}
	if c.HTTP.BlockSize > 0 || c.HTTP.CacheBlocks > 0 {
		opts = append(opts, WithHTTPCache(c.HTTP.BlockSize, c.HTTP.CacheBlocks))
	}
	if c.HTTP.Timeout > 0 {
		opts = append(opts, WithHTTPClient(&http.Client{Timeout: c.HTTP.Timeout}))
	}
	return opts
}
