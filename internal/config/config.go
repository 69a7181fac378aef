package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
// (например BOOKING_DATABASE_PASSWORD, BOOKING_PAYMENTS_STRIPE_SECRET_KEY)
const EnvPrefix = "BOOKING"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	PaymentsLocal  = "local"
	PaymentsStripe = "stripe"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig        `toml:"server"`
	Logs           LogsConfig          `toml:"logs"`
	Metrics        MetricsConfig       `toml:"metrics"`
	Storage        StorageConfig       `toml:"storage"`
	Database       DatabaseConfig      `toml:"database"`
	AddressService ServiceClientConfig `toml:"address_service" split_words:"true"`
	Notifications  NotificationsConfig `toml:"notifications"`
	Events         EventsConfig        `toml:"events"`
	Payments       PaymentsConfig      `toml:"payments"`
	Booking        BookingConfig       `toml:"booking"`
	RateLimit      RateLimitConfig     `toml:"rate_limit" split_words:"true"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true" validate:"min=1"`
}

type LogsConfig struct {
	File        string `toml:"file"`
	Level       string `toml:"level" validate:"oneof=debug info warn error"`
	Development bool   `toml:"development"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name" split_words:"true" validate:"required"`
	Path        string `toml:"path" validate:"required,startswith=/"`
}

// StorageConfig выбор хранилища: memory - для локального запуска и тестов
type StorageConfig struct {
	Driver        string `toml:"driver" validate:"oneof=memory postgres"`
	MigrateOnBoot bool   `toml:"migrate_on_boot" split_words:"true"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port" validate:"min=0,max=65535"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" envconfig:"DBNAME"`
	SSLMode         string `toml:"sslmode" envconfig:"SSLMODE" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true" validate:"min=0"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true" validate:"min=0"`
}

// DSN строка подключения lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ServiceClientConfig HTTP-клиент внешнего сервиса. Пустой URL - интеграция выключена.
type ServiceClientConfig struct {
	URL     string `toml:"url" validate:"omitempty,url"`
	Timeout int    `toml:"timeout" validate:"min=1"`
}

// NotificationsConfig очередь уведомлений asynq (Redis)
type NotificationsConfig struct {
	Enabled   bool   `toml:"enabled"`
	RedisAddr string `toml:"redis_addr" split_words:"true" validate:"required_if=Enabled true"`
	RedisDB   int    `toml:"redis_db" split_words:"true" validate:"min=0"`
	Queue     string `toml:"queue" validate:"required"`
	MaxRetry  int    `toml:"max_retry" split_words:"true" validate:"min=0"`
}

// EventsConfig публикация событий в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url" validate:"required_if=Enabled true"`
	Exchange string `toml:"exchange" validate:"required"`
}

type PaymentsConfig struct {
	Provider        string `toml:"provider" validate:"oneof=local stripe"`
	StripeSecretKey string `toml:"stripe_secret_key" split_words:"true" validate:"required_if=Provider stripe"`
	Currency        string `toml:"currency" validate:"len=3"`
}

type BookingConfig struct {
	MeetingBaseURL  string `toml:"meeting_base_url" split_words:"true" validate:"required,url"`
	DispatchTimeout int    `toml:"dispatch_timeout" split_words:"true" validate:"min=1"`
}

// RateLimitConfig ограничение запросов на клиента
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `toml:"burst" validate:"min=1"`
	TTL     int     `toml:"ttl" envconfig:"TTL" validate:"min=1"`
}

// ReadTimeoutDuration и прочие хелперы переводят секунды из конфига в time.Duration
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

func (s ServerConfig) IdleTimeoutDuration() time.Duration {
	return time.Duration(s.IdleTimeout) * time.Second
}

func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// Default значения, используемые при отсутствии ключа в файле и окружении
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			ServiceName: "ritual-booking-service",
			Path:        "/metrics",
		},
		Storage: StorageConfig{Driver: StorageMemory},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		AddressService: ServiceClientConfig{Timeout: 5},
		Notifications: NotificationsConfig{
			RedisAddr: "localhost:6379",
			Queue:     "notifications",
			MaxRetry:  5,
		},
		Events: EventsConfig{Exchange: "bookings"},
		Payments: PaymentsConfig{
			Provider: PaymentsLocal,
			Currency: "INR",
		},
		Booking: BookingConfig{
			MeetingBaseURL:  "https://meet.jit.si",
			DispatchTimeout: 5,
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
			TTL:   180,
		},
	}
}

// Load читает конфигурацию: значения по умолчанию, затем config.toml, затем .env и окружение.
// Отсутствие файла или .env не считается ошибкой.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Storage.Driver == StoragePostgres && c.Database.Host == "" {
		return errors.New("invalid config: database.host is required for postgres storage")
	}
	return nil
}
