package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API       *APIConfig       `mapstructure:"api"`
	Gin       *GinConfig       `mapstructure:"gin"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	Redis     *RedisConfig     `mapstructure:"redis"`
	SMTP      *SMTPConfig      `mapstructure:"smtp"`
	Stripe    *StripeConfig    `mapstructure:"stripe"`
	Payment   *PaymentConfig   `mapstructure:"payment"`
	Storage   *StorageConfig   `mapstructure:"storage"`
	Reminders *RemindersConfig `mapstructure:"reminders"`
	RateLimit *RateLimitConfig `mapstructure:"ratelimit"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	FrontendURL        string        `mapstructure:"frontend_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	JWTExpiry          time.Duration `mapstructure:"jwt_expiry"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DB           string `mapstructure:"db"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN returns the keyword/value connection string understood by pgx.
func (c *PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.DB, sslMode)
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	Workers  int    `mapstructure:"workers"`
	Queue    int    `mapstructure:"queue"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

// PaymentConfig lists the providers whose payments are taken on trust.
// Every other provider needs a registered verifier.
type PaymentConfig struct {
	UnverifiedProviders []string `mapstructure:"unverified_providers"`
}

type StorageConfig struct {
	Dir       string `mapstructure:"dir"`
	PublicURL string `mapstructure:"public_url"`
	MaxBytes  int64  `mapstructure:"max_bytes"`
	MaxWidth  int    `mapstructure:"max_width"`
	MaxHeight int    `mapstructure:"max_height"`
}

type RemindersConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	LeadHours []int         `mapstructure:"lead_hours"`
	Window    time.Duration `mapstructure:"window"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

// Load reads the YAML file at path. Every key can be overridden with an
// environment variable, e.g. postgres.host -> POSTGRES_HOST.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	conf.setDefaults()

	v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed, restart to apply", zap.String("file", e.Name), zap.String("op", e.Op.String()))
	})
	v.WatchConfig()

	return conf, nil
}

func (c *AppConfig) setDefaults() {
	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.API.Port == "" {
		c.API.Port = "8080"
	}
	if c.API.JWTExpiry == 0 {
		c.API.JWTExpiry = 24 * time.Hour
	}
	if c.API.ShutdownTimeout == 0 {
		c.API.ShutdownTimeout = 10 * time.Second
	}
	if c.Gin == nil {
		c.Gin = &GinConfig{Mode: "release"}
	}
	if c.Postgres == nil {
		c.Postgres = &PostgresConfig{}
	}
	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.SMTP == nil {
		c.SMTP = &SMTPConfig{}
	}
	if c.SMTP.Workers <= 0 {
		c.SMTP.Workers = 4
	}
	if c.SMTP.Queue <= 0 {
		c.SMTP.Queue = 256
	}
	if c.Stripe == nil {
		c.Stripe = &StripeConfig{}
	}
	if c.Payment == nil {
		c.Payment = &PaymentConfig{}
	}
	if c.Payment.UnverifiedProviders == nil && c.API.Environment == "development" {
		c.Payment.UnverifiedProviders = []string{"manual"}
	}
	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "./uploads"
	}
	if c.Storage.PublicURL == "" {
		c.Storage.PublicURL = "/media"
	}
	if c.Storage.MaxBytes == 0 {
		c.Storage.MaxBytes = 10 << 20
	}
	if c.Storage.MaxWidth == 0 {
		c.Storage.MaxWidth = 1200
	}
	if c.Storage.MaxHeight == 0 {
		c.Storage.MaxHeight = 800
	}
	if c.Reminders == nil {
		c.Reminders = &RemindersConfig{Enabled: true}
	}
	if c.Reminders.Interval == 0 {
		c.Reminders.Interval = time.Hour
	}
	if len(c.Reminders.LeadHours) == 0 {
		c.Reminders.LeadHours = []int{24, 1}
	}
	if c.Reminders.Window == 0 {
		c.Reminders.Window = 30 * time.Minute
	}
	if c.Reminders.LockTTL == 0 {
		c.Reminders.LockTTL = 10 * time.Minute
	}
	if c.RateLimit == nil {
		c.RateLimit = &RateLimitConfig{}
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 60
	}
}
