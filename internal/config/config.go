package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Dictionaries DictionariesConfig `mapstructure:"dictionaries"`
	Import       ImportConfig       `mapstructure:"import"`
	Outputs      OutputsConfig      `mapstructure:"outputs"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type CacheConfig struct {
	Backend    string        `mapstructure:"backend" validate:"oneof=memory redis valkey filesystem"`
	KeyPrefix  string        `mapstructure:"key_prefix" validate:"required"`
	MaxEntries int           `mapstructure:"max_entries" validate:"min=0"`
	ListingTTL time.Duration `mapstructure:"listing_ttl" validate:"gt=0"`
	LookupTTL  time.Duration `mapstructure:"lookup_ttl" validate:"gt=0"`
	Directory  string        `mapstructure:"directory" validate:"required_if=Backend filesystem"`
	Redis      RedisConfig   `mapstructure:"redis"`

	// FallbackToMemory serves from a memory store when a redis or valkey
	// server cannot be reached at startup.
	FallbackToMemory bool `mapstructure:"fallback_to_memory"`
}

type RedisConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	DB        int      `mapstructure:"db"`
	TLS       bool     `mapstructure:"tls"`
	TLSCAFile string   `mapstructure:"tls_ca_file" validate:"omitempty,file"`
}

type DictionariesConfig struct {
	Languages []string       `mapstructure:"languages" validate:"required,min=1,dive,language"`
	RapidAPI  RapidAPIConfig `mapstructure:"rapidapi"`
}

type RapidAPIConfig struct {
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	Host              string        `mapstructure:"host"`
	Key               string        `mapstructure:"key"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries        uint          `mapstructure:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"min=0"`
	Burst             int           `mapstructure:"burst" validate:"min=0"`
	BreakerTimeout    time.Duration `mapstructure:"breaker_timeout"`
	BreakerFailures   uint32        `mapstructure:"breaker_failures"`
}

type ImportConfig struct {
	SourceURL string `mapstructure:"source_url" validate:"omitempty,url"`
	Language  string `mapstructure:"language"`
	BatchSize int    `mapstructure:"batch_size" validate:"min=1"`
}

type OutputsConfig struct {
	ExportDirectory string `mapstructure:"export_directory"`
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
		v.AddConfigPath("$HOME/.config/dictionary-api")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "dictionary")
	v.SetDefault("database.username", "user")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.key_prefix", "dictionary")
	v.SetDefault("cache.max_entries", 10000)
	v.SetDefault("cache.listing_ttl", "60m")
	v.SetDefault("cache.lookup_ttl", "24h")
	v.SetDefault("cache.directory", filepath.Join("cache", "dictionary"))
	v.SetDefault("cache.redis.addresses", []string{"localhost:6379"})
	v.SetDefault("cache.fallback_to_memory", true)
	v.SetDefault("dictionaries.languages", []string{"en"})
	v.SetDefault("dictionaries.rapidapi.base_url", "https://wordsapiv1.p.rapidapi.com")
	v.SetDefault("dictionaries.rapidapi.host", "wordsapiv1.p.rapidapi.com")
	v.SetDefault("dictionaries.rapidapi.timeout", "10s")
	v.SetDefault("dictionaries.rapidapi.max_retries", 2)
	v.SetDefault("dictionaries.rapidapi.retry_delay", "200ms")
	v.SetDefault("dictionaries.rapidapi.requests_per_second", 5)
	v.SetDefault("dictionaries.rapidapi.burst", 10)
	v.SetDefault("dictionaries.rapidapi.breaker_timeout", "30s")
	v.SetDefault("dictionaries.rapidapi.breaker_failures", 5)
	v.SetDefault("import.source_url", "https://raw.githubusercontent.com/dwyl/english-words/master/words_dictionary.json")
	v.SetDefault("import.language", "en")
	v.SetDefault("import.batch_size", 1000)
	v.SetDefault("outputs.export_directory", "exports")

	// Bind RapidAPI credentials to environment variables only (not from config file)
	if err := v.BindEnv("dictionaries.rapidapi.host", "RAPID_API_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind RAPID_API_HOST environment variable: %w", err)
	}
	if err := v.BindEnv("dictionaries.rapidapi.key", "RAPID_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind RAPID_API_KEY environment variable: %w", err)
	}

	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("cache.redis.password", "REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_PASSWORD environment variable: %w", err)
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
