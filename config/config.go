package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/pkg/logger"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Search    SearchConfig    `mapstructure:"search"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Providers ProvidersConfig `mapstructure:"providers"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       logger.Config   `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchConfig tunes the lookup engine
type SearchConfig struct {
	ProviderTimeout   time.Duration `mapstructure:"provider_timeout"`
	MaxResults        int           `mapstructure:"max_results"`
	ProviderLimit     int           `mapstructure:"provider_limit"`
	CoalesceRequests  bool          `mapstructure:"coalesce_requests"`
	CacheEmptyResults bool          `mapstructure:"cache_empty_results"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type      string         `mapstructure:"type"` // "memory", "redis" or "postgres"
	TTL       time.Duration  `mapstructure:"ttl"`
	RedisURL  string         `mapstructure:"redis_url"`
	KeyPrefix string         `mapstructure:"key_prefix"`
	Postgres  PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds the table-backed cache connection settings
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ProvidersConfig holds per-provider endpoints and credentials.
// A provider without credentials is disabled, not an error.
type ProvidersConfig struct {
	USDA          ProviderConfig `mapstructure:"usda"`
	Nutritionix   ProviderConfig `mapstructure:"nutritionix"`
	Edamam        ProviderConfig `mapstructure:"edamam"`
	Ninjas        ProviderConfig `mapstructure:"ninjas"`
	OpenFoodFacts ProviderConfig `mapstructure:"openfoodfacts"`
}

// ProviderConfig holds one provider's settings
type ProviderConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AppID     string `mapstructure:"app_id"`
	APIKey    string `mapstructure:"api_key"`
	UserAgent string `mapstructure:"user_agent"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	USDA  int `mapstructure:"usda"`   // requests per hour, 0 disables
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/forc3/")

	// FORC3_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("FORC3")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key gets a default,
// even an empty one, so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Search defaults
	v.SetDefault("search.provider_timeout", "5s")
	v.SetDefault("search.max_results", 30)
	v.SetDefault("search.provider_limit", 15)
	v.SetDefault("search.coalesce_requests", true)
	v.SetDefault("search.cache_empty_results", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "168h") // 7 days
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "foodsearch:")
	v.SetDefault("cache.postgres.host", "")
	v.SetDefault("cache.postgres.port", 5432)
	v.SetDefault("cache.postgres.user", "postgres")
	v.SetDefault("cache.postgres.password", "")
	v.SetDefault("cache.postgres.dbname", "")
	v.SetDefault("cache.postgres.sslmode", "disable")

	// Provider defaults
	v.SetDefault("providers.usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("providers.nutritionix.base_url", "https://trackapi.nutritionix.com")
	v.SetDefault("providers.edamam.base_url", "https://api.edamam.com")
	v.SetDefault("providers.ninjas.base_url", "https://api.api-ninjas.com")
	v.SetDefault("providers.openfoodfacts.base_url", "https://world.openfoodfacts.org")
	for _, name := range []string{"usda", "nutritionix", "edamam", "ninjas", "openfoodfacts"} {
		v.SetDefault("providers."+name+".app_id", "")
		v.SetDefault("providers."+name+".api_key", "")
		v.SetDefault("providers."+name+".user_agent", "")
	}

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.usda", 1000)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.service", logger.DefaultService)
	v.SetDefault("log.enable_stacktrace", false)
	v.SetDefault("log.file.filename", "logs/forc3.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 10)
	v.SetDefault("log.file.compress", true)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Cache.Type {
	case "memory":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("redis URL is required when cache type is 'redis' (set FORC3_CACHE_REDIS_URL)")
		}
	case "postgres":
		if config.Cache.Postgres.Host == "" || config.Cache.Postgres.DBName == "" {
			return fmt.Errorf("postgres host and dbname are required when cache type is 'postgres'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'postgres', got: %s", config.Cache.Type)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got: %v", config.Cache.TTL)
	}

	if config.Search.ProviderTimeout <= 0 {
		return fmt.Errorf("search provider_timeout must be positive, got: %v", config.Search.ProviderTimeout)
	}

	if config.Search.MaxResults <= 0 {
		return fmt.Errorf("search max_results must be positive, got: %d", config.Search.MaxResults)
	}

	if config.Search.ProviderLimit <= 0 {
		return fmt.Errorf("search provider_limit must be positive, got: %d", config.Search.ProviderLimit)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.USDA < 0 {
		return fmt.Errorf("rate limits cannot be negative")
	}

	if err := config.Log.Validate(); err != nil {
		return err
	}

	return nil
}
