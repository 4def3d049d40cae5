// File: internal/config/config.go
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
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type StatusConfig struct {
	Backend string        `yaml:"backend"` // memory | redis
	TTL     time.Duration `yaml:"ttl"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type WebhookConfig struct {
	TriggerURL string        `yaml:"trigger_url"`
	ChatURL    string        `yaml:"chat_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

type PollingConfig struct {
	Interval        time.Duration `yaml:"interval"`
	RotateInterval  time.Duration `yaml:"rotate_interval"`
	Timeout         time.Duration `yaml:"timeout"`
	CompletionDelay time.Duration `yaml:"completion_delay"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Status  StatusConfig  `yaml:"status"`
	Redis   RedisConfig   `yaml:"redis"`
	Webhook WebhookConfig `yaml:"webhook"`
	Polling PollingConfig `yaml:"polling"`

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
	// env overrides for secrets
	if v := os.Getenv("N8N_WEBHOOK_URL"); v != "" {
		cfg.Webhook.TriggerURL = v
	}
	if v := os.Getenv("N8N_CHAT_WEBHOOK_URL"); v != "" {
		cfg.Webhook.ChatURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Status.Backend == "" {
		cfg.Status.Backend = "memory"
	}
	cfg.Status.TTL = normalizeTTL(cfg.Status.TTL)
	if cfg.Webhook.Timeout <= 0 {
		cfg.Webhook.Timeout = 60 * time.Second
	}
	cfg.Polling = cfg.Polling.withDefaults()

	// Minimal validation
	if cfg.Webhook.TriggerURL == "" {
		return nil, errors.New("webhook.trigger_url is required")
	}
	if cfg.Webhook.ChatURL == "" {
		return nil, errors.New("webhook.chat_url is required")
	}
	if cfg.Status.Backend == "redis" && cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required when status.backend is redis")
	}
	if cfg.Status.Backend != "memory" && cfg.Status.Backend != "redis" {
		return nil, fmt.Errorf("unknown status.backend %q", cfg.Status.Backend)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// DefaultPollingConfig is the polling cadence used when no config file is
// given, e.g. by the watch client.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		Interval:        2 * time.Second,
		RotateInterval:  3 * time.Second,
		Timeout:         15 * time.Minute,
		CompletionDelay: 2 * time.Second,
	}
}

func (p PollingConfig) withDefaults() PollingConfig {
	def := DefaultPollingConfig()
	if p.Interval <= 0 {
		p.Interval = def.Interval
	}
	if p.RotateInterval <= 0 {
		p.RotateInterval = def.RotateInterval
	}
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	if p.CompletionDelay <= 0 {
		p.CompletionDelay = def.CompletionDelay
	}
	return p
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
