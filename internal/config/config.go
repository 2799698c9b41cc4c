// Package config loads the server configuration: defaults, then an
// optional YAML file, then TANDEM_-prefixed environment variables,
// then command-line flags, each layer overriding the one before.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// Config is the resolved runtime configuration.
type Config struct {
	ListenAddr string
	LogLevel   string
	PeekWords  int
	Seed       bool
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"listen_addr": "127.0.0.1:3000",
		"log_level":   "info",
		"peek_words":  5,
		"seed":        false,
	}
}

// Load resolves the configuration. path may be empty, in which case
// the well-known locations are probed; flagSet may be nil.
func Load(fs afero.Fs, path string, flagSet *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	paths := []string{path}
	if path == "" {
		home, _ := os.UserHomeDir()
		paths = []string{
			filepath.Join(home, ".config", "tandem", "config.yaml"),
			"config.yaml",
		}
	}
	for _, p := range paths {
		if exists, _ := afero.Exists(fs, p); exists {
			if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("read config %s: %w", p, err)
			}
			break
		}
	}

	envOpts := env.Provider("TANDEM_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "TANDEM_")),
			"__",
			".",
		)
	})
	if err := k.Load(envOpts, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if flagSet != nil {
		if err := k.Load(posflag.Provider(flagSet, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := &Config{
		ListenAddr: k.String("listen_addr"),
		LogLevel:   k.String("log_level"),
		PeekWords:  k.Int("peek_words"),
		Seed:       k.Bool("seed"),
	}
	if cfg.PeekWords < 0 {
		return nil, fmt.Errorf("peek_words must not be negative, got %d", cfg.PeekWords)
	}
	return cfg, nil
}

// Level parses the configured log level, defaulting to info on junk.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
