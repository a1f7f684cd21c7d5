package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid value")

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Redis          RedisConfig          `toml:"redis"`
	Auth           AuthConfig           `toml:"auth"`
	RateLimit      RateLimitConfig      `toml:"rate_limit"`
	ProfileService ProfileServiceConfig `toml:"profile_service"`
	Grid           GridConfig           `toml:"grid"`
	Schedule       ScheduleConfig       `toml:"schedule"`
	Booking        BookingConfig        `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig кэш недельной доступности; при Enabled=false кэш не используется
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL время жизни записи кэша
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// AuthConfig при пустом JWTSecret личность берется из заголовков X-User-ID / X-User-Role,
// которые проставляет gateway
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	Burst             int  `toml:"burst"`
	IdleSeconds       int  `toml:"idle_seconds"` // через сколько забывать неактивного клиента
}

// IdleTTL время простоя, после которого лимитер клиента удаляется
func (c RateLimitConfig) IdleTTL() time.Duration {
	return time.Duration(c.IdleSeconds) * time.Second
}

type ProfileServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// GridConfig сетка слотов внутри дня
type GridConfig struct {
	StartHour   int    `toml:"start_hour"`
	EndHour     int    `toml:"end_hour"`
	StepMinutes int    `toml:"step_minutes"`
	Timezone    string `toml:"timezone"`
}

// Location часовой пояс расписания
func (c GridConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

type ScheduleConfig struct {
	MaxPastWeeks           int `toml:"max_past_weeks"`
	MaxFutureWeeks         int `toml:"max_future_weeks"`
	MaxPropagationWeeks    int `toml:"max_propagation_weeks"`
	MaxListingWeeks        int `toml:"max_listing_weeks"`
	CopyForwardConcurrency int `toml:"copy_forward_concurrency"`
}

// BookingConfig политика бронирования и отмены; нулевые интервалы отключают проверку
type BookingConfig struct {
	AllowProviderCancel    bool `toml:"allow_provider_cancel"`
	MinNoticeMinutes       int  `toml:"min_notice_minutes"`
	MinCancelNoticeMinutes int  `toml:"min_cancel_notice_minutes"`
}

// MinNotice минимальный интервал до начала слота при бронировании
func (c BookingConfig) MinNotice() time.Duration {
	return time.Duration(c.MinNoticeMinutes) * time.Minute
}

// MinCancelNotice минимальный интервал до начала слота при отмене
func (c BookingConfig) MinCancelNotice() time.Duration {
	return time.Duration(c.MinCancelNoticeMinutes) * time.Minute
}

// Load читает конфигурацию из toml файла, подставляет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
