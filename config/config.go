package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string          `mapstructure:"port"`
	UploadDir     string          `mapstructure:"upload_dir"`
	MongoURI      string          `mapstructure:"MONGODB_URI"`
	MongoDatabase string          `mapstructure:"mongo_database"`
	GeminiAPIKeys []string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel   string          `mapstructure:"gemini_model"`
	Redis         RedisConfig     `mapstructure:"redis"`
	RateLimit     RateLimitConfig `mapstructure:"rate_limit"`
	Workers       int             `mapstructure:"workers"`
	CacheTTL      time.Duration   `mapstructure:"cache_ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig bounds uploads per client IP over a fixed window.
type RateLimitConfig struct {
	Window    time.Duration `mapstructure:"window"`
	PDFLimit  int64         `mapstructure:"pdf_limit"`
	TextLimit int64         `mapstructure:"text_limit"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()

	v.SetDefault("port", "8000")
	v.SetDefault("upload_dir", "data/input")
	v.SetDefault("mongo_database", "sample_papers_db")
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("workers", 4)
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("rate_limit.pdf_limit", 2)
	v.SetDefault("rate_limit.text_limit", 3)

	// A missing config file is fine: every setting has a default or an env
	// binding. Only a file that exists but cannot be parsed is fatal.
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("MONGODB_URI")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("redis.REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("redis.REDIS_PASSWORD", "REDIS_PASSWORD")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if len(config.GeminiAPIKeys) == 0 {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if config.Redis.Addr == "" {
		config.Redis.Addr = "localhost:6379"
	}

	return &config, nil
}
