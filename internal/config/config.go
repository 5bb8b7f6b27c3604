// Package config holds the server configuration: a YAML file overridden by HCV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	PluginKindWasm   = "wasm"
	PluginKindNative = "native"
)

// Config holds all the configuration of a server instance.
type Config struct {
	Addr    string `yaml:"addr" env:"HCV_ADDR"`
	WebRoot string `yaml:"web_root" env:"HCV_WEB_ROOT"`

	// Plugins are loaded in this order
	Plugins      []string `yaml:"plugins" env:"HCV_PLUGINS" envSeparator:","`
	PluginPrefix string   `yaml:"plugin_prefix" env:"HCV_PLUGIN_PREFIX"`
	PluginKind   string   `yaml:"plugin_kind" env:"HCV_PLUGIN_KIND"`

	LogLevel  string `yaml:"log_level" env:"HCV_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"HCV_LOG_FORMAT"`
}

func Defaults() Config {
	return Config{
		Addr:         ":8089",
		WebRoot:      "./webroot/",
		PluginPrefix: "./plugins/hcvplugin_",
		PluginKind:   PluginKindWasm,
		LogLevel:     "info",
		LogFormat:    "json",
	}
}

// Load reads the YAML file at path over the defaults, then applies the HCV_* environment. An empty path skips the
// file. The result is not validated, so later layers such as flags can still fix a value.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}

	if c.WebRoot == "" {
		return errors.New("web_root is required")
	}

	switch c.PluginKind {
	case PluginKindWasm, PluginKindNative:
	default:
		return fmt.Errorf("unknown plugin_kind %q", c.PluginKind)
	}
	return nil
}
