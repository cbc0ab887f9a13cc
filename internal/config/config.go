package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   c.DBName,
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String()
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	ConnString string
	Exchange   string
}

type AppConfig struct {
	Port           string
	Storage        string
	ClientOrigin   string
	AccessSecret   string
	StorageTimeout time.Duration
	CacheTTL       time.Duration
	DB             DBConfig
	Redis          RedisConfig
	RabbitMQ       RabbitMQConfig
}

// Load reads secrets from the environment (optionally a .env file) and the
// rest from app.yaml. Both files are optional; defaults apply when absent.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName("app")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.port", "8080")
	v.SetDefault("app.storage", StoragePostgres)
	v.SetDefault("app.storage-timeout", 5*time.Second)
	v.SetDefault("client.origin", "http://localhost:3000")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("rabbitmq.exchange", "blog.events")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read yaml config: %w", err)
		}
	}

	cfg := &AppConfig{
		Port:           v.GetString("app.port"),
		Storage:        strings.ToLower(strings.TrimSpace(v.GetString("app.storage"))),
		ClientOrigin:   v.GetString("client.origin"),
		AccessSecret:   os.Getenv("ACCESS_SECRET"),
		StorageTimeout: v.GetDuration("app.storage-timeout"),
		CacheTTL:       v.GetDuration("cache.ttl"),
		DB: DBConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		RabbitMQ: RabbitMQConfig{
			ConnString: os.Getenv("RABBITMQ_CONN_STRING"),
			Exchange:   v.GetString("rabbitmq.exchange"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("ACCESS_SECRET is required")
	}
	if c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required")
	}

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DB.Host == "" || c.DB.DBName == "" {
			return errors.New("POSTGRES_HOST and POSTGRES_DATABASE are required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}

	if c.StorageTimeout <= 0 {
		return errors.New("app.storage-timeout must be positive")
	}

	return nil
}
