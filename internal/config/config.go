package config

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Generation GenerationConfig `mapstructure:"generation"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite mysql"`

	// Path is the database file for the sqlite driver.
	Path string `mapstructure:"path" validate:"required_if=Driver sqlite"`

	Host            string            `mapstructure:"host" validate:"required_if=Driver mysql"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database" validate:"required_if=Driver mysql"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds" validate:"min=0"`
}

type DictionaryConfig struct {
	// SeedFile is loaded into an empty dictionary on startup.
	SeedFile string `mapstructure:"seed_file" validate:"omitempty,file"`
}

type OpenAIConfig struct {
	BaseURL          string `mapstructure:"base_url" validate:"required,url"`
	APIKey           string `mapstructure:"api_key"`
	Model            string `mapstructure:"model" validate:"required"`
	EmbeddingModel   string `mapstructure:"embedding_model" validate:"required"`
	MaxRetryAttempts uint   `mapstructure:"max_retry_attempts"`
}

type GenerationConfig struct {
	RetryBudget      int `mapstructure:"retry_budget" validate:"min=1"`
	ContextSize      int `mapstructure:"context_size" validate:"min=1"`
	IndexConcurrency int `mapstructure:"index_concurrency" validate:"min=1"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/abbrev")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "dictionary.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "abbrev")
	v.SetDefault("database.username", "user")
	v.SetDefault("dictionary.seed_file", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("openai.max_retry_attempts", 3)
	v.SetDefault("generation.retry_budget", 5)
	v.SetDefault("generation.context_size", 4)
	v.SetDefault("generation.index_concurrency", 4)

	// Secrets and endpoints come from the environment only
	envBindings := map[string]string{
		"openai.api_key":         "OPENAI_API_KEY",
		"openai.base_url":        "OPENAI_BASE_URL",
		"openai.model":           "OPENAI_MODEL",
		"openai.embedding_model": "OPENAI_EMBEDDING_MODEL",
		"database.password":      "DB_PASSWORD",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
