package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port string

	APIKey       string
	ChatModel    string
	IntelModel   string
	CallTimeout  time.Duration
	MaxAttempts  int
	FetchTimeout time.Duration

	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins []string
}

func defaultConfig() Config {
	return Config{
		Env:          "development",
		Port:         "8080",
		ChatModel:    "gpt-4o-mini",
		IntelModel:   "gpt-4o-mini",
		CallTimeout:  10 * time.Second,
		MaxAttempts:  2,
		FetchTimeout: 8 * time.Second,
		SessionTTL:   30 * time.Minute,
		CORSOrigins:  []string{"*"},
	}
}

// configFromEnv reads configuration from the environment on top of the
// defaults. lookup is os.LookupEnv in main and a map in tests.
func configFromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := defaultConfig()

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("APP_ENV", &cfg.Env)
	str("PORT", &cfg.Port)
	str("OPENAI_API_KEY", &cfg.APIKey)
	str("CHAT_MODEL", &cfg.ChatModel)
	str("INTEL_MODEL", &cfg.IntelModel)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)

	if v, ok := lookup("REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}
	if v, ok := lookup("LLM_MAX_ATTEMPTS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("LLM_MAX_ATTEMPTS: %w", err)
		}
		cfg.MaxAttempts = n
	}

	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}
	if err := dur("LLM_TIMEOUT", &cfg.CallTimeout); err != nil {
		return Config{}, err
	}
	if err := dur("FETCH_TIMEOUT", &cfg.FetchTimeout); err != nil {
		return Config{}, err
	}
	if err := dur("SESSION_TTL", &cfg.SessionTTL); err != nil {
		return Config{}, err
	}

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("missing OPENAI_API_KEY")
	}
	if c.ChatModel == "" {
		return errors.New("missing CHAT_MODEL")
	}
	if c.IntelModel == "" {
		return errors.New("missing INTEL_MODEL")
	}
	if c.Port == "" {
		return errors.New("missing PORT")
	}
	if c.CallTimeout <= 0 {
		return errors.New("LLM_TIMEOUT must be > 0")
	}
	if c.MaxAttempts <= 0 {
		return errors.New("LLM_MAX_ATTEMPTS must be > 0")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("FETCH_TIMEOUT must be > 0")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be > 0")
	}
	if len(c.CORSOrigins) == 0 {
		return errors.New("CORS_ORIGINS must not be empty")
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}
