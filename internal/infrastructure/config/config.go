package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load
const EnvPrefix = "SENTIMENT"

// ModelEnvVar overrides the classifier model identifier
const ModelEnvVar = "SENTIMENT_MODEL"

// DefaultModel is the classifier used when SENTIMENT_MODEL is unset
const DefaultModel = "distilbert-base-uncased-finetuned-sst-2-english"

// Config holds all service configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Datasets   DatasetsConfig   `mapstructure:"datasets"`
	Upload     UploadConfig     `mapstructure:"upload"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Service string `mapstructure:"service"`
}

// RedisConfig holds the optional score cache connection
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls how long classifier scores stay in Redis
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ClassifierConfig holds the inference backend settings
type ClassifierConfig struct {
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	APIToken  string        `mapstructure:"api_token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RetryMax  int           `mapstructure:"retry_max"`
	ProbeText string        `mapstructure:"probe_text"`
}

// DatasetsConfig holds the built-in dataset source settings
type DatasetsConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	SampleRows int           `mapstructure:"sample_rows"`
	Split      string        `mapstructure:"split"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryMax   int           `mapstructure:"retry_max"`
}

// UploadConfig bounds dataset uploads
type UploadConfig struct {
	MaxBytes    int64  `mapstructure:"max_bytes"`
	DefaultName string `mapstructure:"default_name"`
}

// Load reads configuration from defaults, an optional .env file and the environment.
// Environment variables use the SENTIMENT_ prefix, e.g. SENTIMENT_SERVER_PORT.
func Load() (*Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("classifier.model", ModelEnvVar); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", ModelEnvVar, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.service", "sentiment-api")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.ttl", time.Hour)

	v.SetDefault("classifier.model", DefaultModel)
	v.SetDefault("classifier.base_url", "https://router.huggingface.co/hf-inference/models")
	v.SetDefault("classifier.api_token", "")
	v.SetDefault("classifier.timeout", 30*time.Second)
	v.SetDefault("classifier.retry_max", 4)
	v.SetDefault("classifier.probe_text", "warming up the sentiment model")

	v.SetDefault("datasets.base_url", "https://datasets-server.huggingface.co")
	v.SetDefault("datasets.sample_rows", 500)
	v.SetDefault("datasets.split", "train")
	v.SetDefault("datasets.timeout", 20*time.Second)
	v.SetDefault("datasets.retry_max", 2)

	v.SetDefault("upload.max_bytes", int64(32<<20))
	v.SetDefault("upload.default_name", "Custom")
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Classifier.Model) == "" {
		return errors.New("classifier model must not be empty")
	}
	if c.Classifier.BaseURL == "" {
		return errors.New("classifier base url must not be empty")
	}
	if c.Datasets.SampleRows < 0 {
		return fmt.Errorf("invalid datasets sample_rows %d", c.Datasets.SampleRows)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("invalid upload max_bytes %d", c.Upload.MaxBytes)
	}
	return nil
}
