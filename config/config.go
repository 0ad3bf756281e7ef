package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Port        string   `mapstructure:"port"`
	AdminAPIKey string   `mapstructure:"admin_api_key"`
	JWTSecret   string   `mapstructure:"jwt_secret"`
	UploadDir   string   `mapstructure:"upload_dir"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	// DeliveryFee is kept as text so the yaml/env value is parsed exactly.
	DeliveryFee string `mapstructure:"delivery_fee"`
	Timezone    string `mapstructure:"timezone"`

	Session struct {
		Cookie   string        `mapstructure:"cookie"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
		TokenTTL time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"session"`

	Backup struct {
		Dir       string        `mapstructure:"dir"`
		Retention time.Duration `mapstructure:"retention"`
	} `mapstructure:"backup"`

	Database Database `mapstructure:"database"`
	Log      Log      `mapstructure:"log"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`

	SMTP SMTP `mapstructure:"smtp"`
}

// Database describes the gorm connection. URL wins over the discrete fields.
type Database struct {
	Driver   string `mapstructure:"driver"`
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Debug    bool   `mapstructure:"debug"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type SMTP struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled reports whether outgoing mail is configured.
func (s SMTP) Enabled() bool { return s.Host != "" && s.From != "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("admin_api_key", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("upload_dir", "./uploads")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("delivery_fee", "5.00")
	v.SetDefault("timezone", "America/Sao_Paulo")

	v.SetDefault("session.cookie", "session_token")
	v.SetDefault("session.cache_ttl", "5m")
	v.SetDefault("session.token_ttl", "24h")

	v.SetDefault("backup.dir", "./backup/uploads")
	v.SetDefault("backup.retention", "96h")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "delivery")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.path", "./logs/app.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "orders")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
}

// Load reads .env (if present), an optional config.yaml and the environment.
// Nested keys map to env vars with "_" (database.url -> DATABASE_URL).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := cfg.Fee(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Fee returns the fixed delivery fee added to every order.
func (c *Config) Fee() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(c.DeliveryFee))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid delivery_fee %q: %w", c.DeliveryFee, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("delivery_fee must not be negative")
	}
	return fee, nil
}

// Location resolves the dashboard time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
