package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefix of environment overrides, e.g. FRESHMART_MYSQL_DSN
const EnvPrefix = "FRESHMART"

// Config application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Lmstfy   LmstfyConfig   `mapstructure:"lmstfy"`
	Order    OrderConfig    `mapstructure:"order"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Notifier NotifierConfig `mapstructure:"notifier"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type MySQLConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LmstfyConfig job queue used for order events
type LmstfyConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Namespace      string        `mapstructure:"namespace"`
	Token          string        `mapstructure:"token"`
	Queue          string        `mapstructure:"queue"`
	ConsumeTimeout time.Duration `mapstructure:"consume_timeout"`
	TTR            time.Duration `mapstructure:"ttr"`
}

// OrderConfig pricing and lifecycle policy
type OrderConfig struct {
	ImmediateSurcharge        float64 `mapstructure:"immediate_surcharge"`
	AllowClientDeliveryCharge bool    `mapstructure:"allow_client_delivery_charge"`
	StrictTransitions         bool    `mapstructure:"strict_transitions"`
}

type CatalogConfig struct {
	CacheSize int           `mapstructure:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// NotifierConfig order event consumer
type NotifierConfig struct {
	Workers  int  `mapstructure:"workers"`
	Embedded bool `mapstructure:"embedded"` // run the consumer pool inside the API server
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "freshmart")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.request_timeout", 5*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("mysql.dsn", "")
	v.SetDefault("mysql.max_open_conns", 20)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("lmstfy.host", "")
	v.SetDefault("lmstfy.port", 7777)
	v.SetDefault("lmstfy.namespace", "freshmart")
	v.SetDefault("lmstfy.token", "")
	v.SetDefault("lmstfy.queue", "order_events")
	v.SetDefault("lmstfy.consume_timeout", 3*time.Second)
	v.SetDefault("lmstfy.ttr", 30*time.Second)
	v.SetDefault("order.immediate_surcharge", 30.0)
	v.SetDefault("order.allow_client_delivery_charge", false)
	v.SetDefault("order.strict_transitions", false)
	v.SetDefault("catalog.cache_size", 512)
	v.SetDefault("catalog.cache_ttl", 5*time.Minute)
	v.SetDefault("notifier.workers", 2)
	v.SetDefault("notifier.embedded", false)
}

// Load reads the YAML file at configPath (skipped when it does not exist), then applies
// FRESHMART_* environment overrides. A .env file in the working directory is loaded first.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config failed: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads config/config.yaml
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

// Validate checks the values every binary needs
func (c *Config) Validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql dsn is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy host is required")
	}
	if c.Lmstfy.Queue == "" {
		return fmt.Errorf("lmstfy queue is required")
	}
	if c.Lmstfy.ConsumeTimeout < time.Second {
		return fmt.Errorf("lmstfy consume_timeout must be at least 1s")
	}
	if c.Order.ImmediateSurcharge < 0 {
		return fmt.Errorf("order immediate_surcharge must not be negative")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server request_timeout must be positive")
	}
	return nil
}

// Address listen address of the HTTP server
func (s ServerConfig) Address() string {
	return ":" + s.Port
}
