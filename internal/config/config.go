package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mirror12k/catwalk-apigen/internal/generator"
)

const (
	defaultConfigRelPath = ".apigen/config.yaml"
	defaultStoreRelPath  = ".apigen/apigen.db"
)

type GenerateConfig struct {
	Target      string `yaml:"target"`
	EndpointURL string `yaml:"endpoint_url"`
	// AuthTokens overrides the per-target auth-token default, keyed by target.
	AuthTokens map[string]bool `yaml:"auth_tokens"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Generate GenerateConfig `yaml:"generate"`
	Output   OutputConfig   `yaml:"output"`
	Store    StoreConfig    `yaml:"store"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// Load loads YAML config, then applies env overrides.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		configPath = filepath.Join(home, defaultConfigRelPath)
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.SetDefaults()
	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Generate.Target == "" {
		c.Generate.Target = string(generator.TargetBrowserScript)
	}
	if c.Generate.EndpointURL == "" {
		c.Generate.EndpointURL = generator.DefaultEndpointURL
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if c.Store.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Store.Path = filepath.Join(home, defaultStoreRelPath)
		} else {
			c.Store.Path = "apigen.db"
		}
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	if _, err := generator.ParseTarget(c.Generate.Target); err != nil {
		return fmt.Errorf("generate.target: %w", err)
	}
	for name := range c.Generate.AuthTokens {
		if _, err := generator.ParseTarget(name); err != nil {
			return fmt.Errorf("generate.auth_tokens: %w", err)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// ValidateOutput enforces that output.dir can receive generated files.
func (c *Config) ValidateOutput() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir cannot be empty")
	}
	if err := ensureWritableDir(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir not writable: %w", err)
	}
	return nil
}

// Options builds generator options for target from the generate section.
func (c *Config) Options(target generator.Target) generator.Options {
	opts := generator.Options{EndpointURL: c.Generate.EndpointURL}
	if enabled, ok := c.Generate.AuthTokens[string(target)]; ok {
		opts = opts.WithAuthTokens(enabled)
	}
	return opts
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func applyEnvOverrides(c *Config) {
	setString(&c.Generate.Target, "APIGEN_TARGET")
	setString(&c.Generate.EndpointURL, "APIGEN_ENDPOINT_URL")
	setString(&c.Output.Dir, "APIGEN_OUTPUT_DIR")
	setString(&c.Store.Path, "APIGEN_STORE_PATH")
	setString(&c.Server.Host, "APIGEN_SERVER_HOST")
	setInt(&c.Server.Port, "APIGEN_SERVER_PORT")
	setString(&c.Log.Level, "APIGEN_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
