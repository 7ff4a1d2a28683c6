package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// StreamPollInterval is how long the progress relay sleeps between
	// store polls while a job is still running.
	StreamPollInterval time.Duration `yaml:"stream_poll_interval"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DatabaseConfig points at the external card catalog. Optional: without it
// the service runs on the noop catalog and pool entries must be complete.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type WorkerConfig struct {
	Workers      int           `yaml:"workers"`
	PollInterval time.Duration `yaml:"poll_interval"`
	JobTTL       time.Duration `yaml:"job_ttl"`    // pending descriptor lifetime
	ClaimTTL     time.Duration `yaml:"claim_ttl"`  // processing status lifetime
	ResultTTL    time.Duration `yaml:"result_ttl"` // terminal status/result grace window
}

type ScoringConfig struct {
	// TablesPath optionally overrides the built-in heuristic tables.
	TablesPath string `yaml:"tables_path"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Worker   WorkerConfig   `yaml:"worker"`
	Scoring  ScoringConfig  `yaml:"scoring"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.StreamPollInterval <= 0 {
		cfg.Server.StreamPollInterval = 250 * time.Millisecond
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Worker.Workers <= 0 {
		cfg.Worker.Workers = 4
	}
	if cfg.Worker.PollInterval <= 0 {
		cfg.Worker.PollInterval = 500 * time.Millisecond
	}
	if cfg.Worker.JobTTL <= 0 {
		cfg.Worker.JobTTL = time.Hour
	}
	if cfg.Worker.ClaimTTL <= 0 {
		cfg.Worker.ClaimTTL = 2 * time.Minute
	}
	if cfg.Worker.ResultTTL <= 0 {
		cfg.Worker.ResultTTL = 2 * time.Minute
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}

	// Minimal validation
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
