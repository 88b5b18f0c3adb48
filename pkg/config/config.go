// Package config loads clz-go settings from defaults, a YAML file and
// STRBUF_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr        string `mapstructure:"listen_addr"`
	StorePath         string `mapstructure:"store_path"`
	CompressSnapshots bool   `mapstructure:"compress_snapshots"`
	MaxCapacity       int    `mapstructure:"max_capacity"` // 0 means unlimited
	PoolBuffers       bool   `mapstructure:"pool_buffers"`
	LogDB             string `mapstructure:"log_db"`
	LogLevel          string `mapstructure:"log_level"`
	Color             bool   `mapstructure:"color"`
	ConfigFile        string `mapstructure:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":7780",
		StorePath:         "buffers.db",
		CompressSnapshots: true,
		LogDB:             "strbuf-logs.db",
		LogLevel:          "info",
		Color:             true,
	}
}

// Load reads the configuration. An explicit file must exist; otherwise
// strbuf.yaml is looked up in ., /etc/clz-go/ and $HOME/.clz-go and may be absent.
func Load(file string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("store_path", cfg.StorePath)
	v.SetDefault("compress_snapshots", cfg.CompressSnapshots)
	v.SetDefault("max_capacity", cfg.MaxCapacity)
	v.SetDefault("pool_buffers", cfg.PoolBuffers)
	v.SetDefault("log_db", cfg.LogDB)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("color", cfg.Color)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("strbuf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/clz-go/")
		v.AddConfigPath("$HOME/.clz-go")
	}
	v.SetEnvPrefix("STRBUF")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if cfg.MaxCapacity < 0 {
		return nil, fmt.Errorf("config: max_capacity must not be negative, got %d", cfg.MaxCapacity)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}
