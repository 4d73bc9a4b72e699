package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendPushover = "pushover"
	BackendNtfy     = "ntfy"

	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	PushoverAPIToken string `mapstructure:"pushover_api_token"`
	PushoverUserKey  string `mapstructure:"pushover_user_key"`
	PushoverGroupKey string `mapstructure:"pushover_group_key"`

	CachePath   string        `mapstructure:"cache_path"`
	LaunchesURL string        `mapstructure:"launches_url"`
	LogLevel    string        `mapstructure:"log_level"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	NotifyBackend string  `mapstructure:"notify_backend"`
	NotifyRate    float64 `mapstructure:"notify_rate"`
	NtfyURL       string  `mapstructure:"ntfy_url"`
	NtfyTopic     string  `mapstructure:"ntfy_topic"`

	StoreDriver   string `mapstructure:"store_driver"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisKey      string `mapstructure:"redis_key"`

	Schedule string `mapstructure:"schedule"`
}

var defaults = map[string]any{
	"pushover_api_token": "",
	"pushover_user_key":  "",
	"pushover_group_key": "",
	"cache_path":         "notified-launches.json",
	"launches_url":       "https://fdo.rocketlaunch.live/json/launches/next/5",
	"log_level":          "info",
	"http_timeout":       30 * time.Second,
	"notify_backend":     BackendPushover,
	"notify_rate":        1.0,
	"ntfy_url":           "https://ntfy.sh",
	"ntfy_topic":         "",
	"store_driver":       DriverFile,
	"redis_addr":         "localhost:6379",
	"redis_password":     "",
	"redis_db":           0,
	"redis_key":          "notified-launches",
	"schedule":           "*/5 * * * *",
}

// Load builds the configuration from the environment and an optional config
// file. With an empty configFile, config.yaml in the working directory is used
// when it exists.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(path.Join("."))
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.NotifyBackend = strings.ToLower(strings.TrimSpace(cfg.NotifyBackend))
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	return &cfg, nil
}

// Recipient is the Pushover user key, or the group key when no user key is set.
func (c *Config) Recipient() string {
	if c.PushoverUserKey != "" {
		return c.PushoverUserKey
	}
	return c.PushoverGroupKey
}

func (c *Config) Validate() error {
	switch c.NotifyBackend {
	case BackendPushover:
		if c.PushoverAPIToken == "" {
			return errors.New("PUSHOVER_API_TOKEN is required")
		}
		if c.Recipient() == "" {
			return errors.New("PUSHOVER_USER_KEY or PUSHOVER_GROUP_KEY is required")
		}
	case BackendNtfy:
		if c.NtfyTopic == "" {
			return errors.New("NTFY_TOPIC is required for the ntfy backend")
		}
	default:
		return fmt.Errorf("unknown notify backend %q", c.NotifyBackend)
	}

	switch c.StoreDriver {
	case DriverFile, DriverSQLite:
		if c.CachePath == "" {
			return errors.New("CACHE_PATH is required")
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.NotifyRate <= 0 {
		return errors.New("NOTIFY_RATE must be positive")
	}
	return nil
}
