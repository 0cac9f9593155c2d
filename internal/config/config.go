package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/clinicdesk/internal/storage/postgres"
	redisstore "github.com/jwalitptl/clinicdesk/internal/storage/redis"
	"github.com/jwalitptl/clinicdesk/pkg/security"
)

// EnvPrefix prefixes every environment override, e.g. CLINIC_SERVER_PORT.
const EnvPrefix = "CLINIC"

// DotEnvFile is read from the working directory, when present, before the
// environment overrides apply. Variables already set in the environment win.
const DotEnvFile = ".env"

// DefaultJWTSecret signs tokens until auth.jwt_secret is set.
const DefaultJWTSecret = "change-me"

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Reminders ReminderConfig  `mapstructure:"reminders"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" split_words:"true"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true"`
	Timezone        string        `mapstructure:"timezone"`
	// MaxBodySize caps request bodies in bytes.
	MaxBodySize int64 `mapstructure:"max_body_size" split_words:"true"`
}

type StorageConfig struct {
	Driver   string                  `mapstructure:"driver"`
	Dir      string                  `mapstructure:"dir"`
	Redis    RedisConfig             `mapstructure:"redis"`
	Database postgres.DatabaseConfig `mapstructure:"database"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	KeyPrefix    string        `mapstructure:"key_prefix" split_words:"true"`
	MaxRetries   int           `mapstructure:"max_retries" split_words:"true"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" split_words:"true"`
	PoolSize     int           `mapstructure:"pool_size" split_words:"true"`
	MinIdleConns int           `mapstructure:"min_idle_conns" split_words:"true"`
}

type SessionConfig struct {
	// TTL of the current session; 0 keeps it until logout.
	TTL time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	CredentialScheme string        `mapstructure:"credential_scheme" split_words:"true"`
	BcryptCost       int           `mapstructure:"bcrypt_cost" split_words:"true"`
	JWTSecret        string        `mapstructure:"jwt_secret" envconfig:"JWT_SECRET"`
	TokenTTL         time.Duration `mapstructure:"token_ttl" split_words:"true"`
}

type ReminderConfig struct {
	Window          time.Duration `mapstructure:"window"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval" split_words:"true"`
	DiscardOnCancel bool          `mapstructure:"discard_on_cancel" split_words:"true"`
	InboxSize       int           `mapstructure:"inbox_size" split_words:"true"`
	Broker          BrokerConfig  `mapstructure:"broker"`
	Mail            MailConfig    `mapstructure:"mail"`
}

type BrokerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Channel string `mapstructure:"channel"`
}

type MailConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" split_words:"true"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.timezone", "Local")
	v.SetDefault("server.max_body_size", 1<<20)

	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.redis.url", "redis://localhost:6379/0")
	v.SetDefault("storage.redis.key_prefix", "")
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.user", "clinic")
	v.SetDefault("storage.database.name", "clinic")
	v.SetDefault("storage.database.sslmode", "disable")

	v.SetDefault("session.ttl", 0)

	v.SetDefault("auth.credential_scheme", security.SchemePlaintext)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.token_ttl", 12*time.Hour)

	v.SetDefault("reminders.window", 24*time.Hour)
	v.SetDefault("reminders.sweep_interval", 0)
	v.SetDefault("reminders.discard_on_cancel", false)
	v.SetDefault("reminders.inbox_size", 100)
	v.SetDefault("reminders.broker.channel", "clinic:reminders")
	v.SetDefault("reminders.mail.port", 587)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 1.0)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// Load reads defaults, then the YAML file at path (or config.yaml in . or
// ./config when path is empty and such a file exists), then CLINIC_*
// environment overrides, including those from a .env file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.MaxBodySize <= 0 {
		return errors.New("server.max_body_size must be positive")
	}

	switch c.Storage.Driver {
	case DriverMemory, DriverRedis, DriverPostgres:
	case DriverFile:
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for the file driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Auth.CredentialScheme {
	case security.SchemePlaintext, security.SchemeBcrypt:
	default:
		return fmt.Errorf("unknown credential scheme %q", c.Auth.CredentialScheme)
	}

	if c.Reminders.Window <= 0 {
		return errors.New("reminders.window must be positive")
	}
	if c.Reminders.SweepInterval < 0 {
		return errors.New("reminders.sweep_interval must not be negative")
	}
	if c.Reminders.Mail.Enabled && (c.Reminders.Mail.Host == "" || len(c.Reminders.Mail.To) == 0) {
		return errors.New("reminders.mail needs a host and at least one recipient")
	}
	return nil
}

// Warnings lists settings that are accepted but unsafe to deploy with.
func (c *Config) Warnings() []string {
	var out []string
	if c.Auth.JWTSecret == DefaultJWTSecret && c.Server.Mode != "test" {
		out = append(out, "auth.jwt_secret is the built-in default; set CLINIC_AUTH_JWT_SECRET")
	}
	return out
}

// Location resolves server.timezone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Server.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

func (c *RedisConfig) ToBackendConfig() redisstore.Config {
	return redisstore.Config{
		URL:          c.URL,
		KeyPrefix:    c.KeyPrefix,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}
