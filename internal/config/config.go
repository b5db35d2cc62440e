package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Progress backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Lesson sources.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourcePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Lessons struct {
		Source string `yaml:"source"`
		Dir    string `yaml:"dir"`
	} `yaml:"lessons"`
	Progress struct {
		Backend   string `yaml:"backend"`
		KeyPrefix string `yaml:"key_prefix"`
		Timezone  string `yaml:"timezone"`
	} `yaml:"progress"`
	Quiz struct {
		Confirm string `yaml:"confirm"`
	} `yaml:"quiz"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads YAML config from path. An empty path yields Default().
func Load(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Log.Mode == "" {
		c.Log.Mode = "dev"
	}
	if c.Lessons.Source == "" {
		c.Lessons.Source = SourceEmbedded
	}
	if c.Progress.Backend == "" {
		c.Progress.Backend = BackendMemory
	}
	if c.Progress.KeyPrefix == "" {
		c.Progress.KeyPrefix = "sd_"
	}
	if c.Progress.Timezone == "" {
		c.Progress.Timezone = "UTC"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "drill.db"
	}
	if c.Quiz.Confirm == "" {
		c.Quiz.Confirm = "two-step"
	}
}

// Location resolves the timezone used to decide which calendar day it is.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Progress.Timezone)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
