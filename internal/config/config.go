package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	app_errors "legalaid/internal/errors"
	"legalaid/internal/i18n"
)

// Supported values of LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// ClientEnvPrefix namespaces the client's environment variables, as in
// LEGALAID_BACKEND_URL.
const ClientEnvPrefix = "LEGALAID"

// Config is the proxy server's configuration.
type Config struct {
	AppPort        int     `mapstructure:"APP_PORT"`
	APIKey         string  `mapstructure:"API_KEY"`
	LLMProvider    string  `mapstructure:"LLM_PROVIDER"`
	GeminiModel    string  `mapstructure:"GEMINI_MODEL"`
	OllamaURL      string  `mapstructure:"OLLAMA_URL"`
	OllamaModel    string  `mapstructure:"OLLAMA_MODEL"`
	DatabasePath   string  `mapstructure:"DATABASE_PATH"`
	LogLevel       string  `mapstructure:"LOG_LEVEL"`
	AllowedOrigin  string  `mapstructure:"ALLOWED_ORIGIN"`
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
	// TrustProxy honours X-Forwarded-For and X-Real-IP. Only set it behind a
	// proxy that overwrites them.
	TrustProxy     bool    `mapstructure:"TRUST_PROXY"`

	// ConfigFile is the .env file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// ClientConfig is the terminal client's configuration.
type ClientConfig struct {
	BackendURL   string        `mapstructure:"BACKEND_URL"`
	Language     string        `mapstructure:"LANGUAGE"`
	StallTimeout time.Duration `mapstructure:"STALL_TIMEOUT"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	LogFile      string        `mapstructure:"LOG_FILE"`
	Plain        bool          `mapstructure:"PLAIN"`

	ConfigFile string `mapstructure:"-"`
}

// LoadConfig reads the server configuration from defaults, an optional .env
// file and the environment, in increasing priority.
func LoadConfig() (*Config, error) {
	v := newViper()
	v.SetDefault("APP_PORT", 8000)
	v.SetDefault("API_KEY", "")
	v.SetDefault("LLM_PROVIDER", ProviderGemini)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("OLLAMA_URL", "http://ollama:11434")
	v.SetDefault("OLLAMA_MODEL", "llama3.2")
	v.SetDefault("DATABASE_PATH", "/data/legalaid.db")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("ALLOWED_ORIGIN", "*")
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("TRUST_PROXY", false)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	switch cfg.LLMProvider {
	case ProviderGemini, ProviderOllama:
	default:
		return nil, fmt.Errorf("%w: unknown LLM_PROVIDER %q", app_errors.ErrConfiguration, cfg.LLMProvider)
	}
	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return nil, fmt.Errorf("%w: APP_PORT %d out of range", app_errors.ErrConfiguration, cfg.AppPort)
	}

	return &cfg, nil
}

// LoadClientConfig reads the client configuration. Command-line flags win
// over the environment, which wins over .env and the defaults.
func LoadClientConfig(args []string) (*ClientConfig, error) {
	fs := pflag.NewFlagSet("chat", pflag.ContinueOnError)
	fs.String("backend-url", "http://localhost:8000/api/chat", "chat endpoint of the proxy")
	fs.String("language", string(i18n.Default), "interface language (en, es, fr, zh, vi)")
	fs.Duration("stall-timeout", 60*time.Second, "fail a turn when the response is silent this long (0 disables)")
	fs.String("log-level", "INFO", "DEBUG, INFO, WARN or ERROR")
	fs.String("log-file", "", "write logs here instead of discarding them")
	fs.Bool("plain", false, "line-oriented output instead of the full-screen UI")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Prefixed so that the shell's own LANGUAGE variable is not picked up.
	v := newViper()
	v.SetEnvPrefix(ClientEnvPrefix)
	for key, flag := range map[string]string{
		"BACKEND_URL":   "backend-url",
		"LANGUAGE":      "language",
		"STALL_TIMEOUT": "stall-timeout",
		"LOG_LEVEL":     "log-level",
		"LOG_FILE":      "log-file",
		"PLAIN":         "plain",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, err
		}
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	lang, err := i18n.Parse(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrConfiguration, err)
	}
	cfg.Language = string(lang)
	if cfg.StallTimeout < 0 {
		return nil, fmt.Errorf("%w: STALL_TIMEOUT must not be negative", app_errors.ErrConfiguration)
	}

	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}
