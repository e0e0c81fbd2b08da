package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Push      PushConfig      `mapstructure:"push"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Port                   int `mapstructure:"port"`
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type PushConfig struct {
	// Provider is "fcm" or "log" (dry run).
	Provider string `mapstructure:"provider"`
	// CredentialsFile is a service-account JSON path. Empty means ambient
	// application default credentials.
	CredentialsFile string `mapstructure:"credentials_file"`
	ProjectID       string `mapstructure:"project_id"`
}

type DispatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type RedisConfig struct {
	URL     string `mapstructure:"url"`
	Channel string `mapstructure:"channel"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// WorkerConfig configures cmd/worker, the delivery event consumer.
type WorkerConfig struct {
	Port int `mapstructure:"port"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.shutdown_timeout_seconds", 5)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "fcm_backend")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 10)

	v.SetDefault("push.provider", "fcm")
	v.SetDefault("push.credentials_file", "")
	v.SetDefault("push.project_id", "")

	v.SetDefault("dispatch.concurrency", 8)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.channel", "push.deliveries")

	v.SetDefault("rate_limit.rps", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("metrics.prefix", "fanout")

	v.SetDefault("worker.port", 8081)
}

// bindEnv maps keys whose environment names do not follow the
// section_key convention.
func bindEnv(v *viper.Viper) error {
	aliases := map[string][]string{
		"server.port":           {"PORT", "SERVER_PORT"},
		"push.credentials_file": {"FIREBASE_SERVICE_ACCOUNT_JSON", "PUSH_CREDENTIALS_FILE"},
		"push.project_id":       {"FIREBASE_PROJECT_ID", "PUSH_PROJECT_ID"},
		"auth.jwt_secret":       {"AUTH_JWT_SECRET"},
	}
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// LoadConfig reads .env (if present), an optional config.yaml, then the
// environment, which wins over both.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Push.Provider {
	case "fcm", "log":
	default:
		return fmt.Errorf("unsupported PUSH_PROVIDER %q", c.Push.Provider)
	}
	if c.Dispatch.Concurrency < 1 {
		return fmt.Errorf("DISPATCH_CONCURRENCY must be at least 1, got %d", c.Dispatch.Concurrency)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1, got %d", c.Database.MaxOpenConns)
	}
	return nil
}
