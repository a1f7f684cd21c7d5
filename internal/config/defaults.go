package config

import (
	"fmt"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// Default конфигурация по умолчанию; значения из файла перекрывают её
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "tutor_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			File:  "logs/service.log",
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "tutor-booking",
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 300,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
			Burst:             20,
			IdleSeconds:       600,
		},
		ProfileService: ProfileServiceConfig{
			Timeout: 3,
		},
		Grid: GridConfig{
			StartHour:   domain.DefaultGridStartHour,
			EndHour:     domain.DefaultGridEndHour,
			StepMinutes: domain.DefaultGridStepMinutes,
			Timezone:    "Local",
		},
		Schedule: ScheduleConfig{
			MaxPastWeeks:           domain.DefaultMaxPastWeeks,
			MaxFutureWeeks:         domain.DefaultMaxFutureWeeks,
			MaxPropagationWeeks:    domain.DefaultMaxPropagationWeeks,
			MaxListingWeeks:        domain.DefaultMaxListingWeeks,
			CopyForwardConcurrency: 4,
		},
		Booking: BookingConfig{
			AllowProviderCancel: true,
		},
	}
}

// Validate проверяет диапазоны значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	g := c.Grid
	if g.StartHour < 0 || g.EndHour > 23 || g.StartHour > g.EndHour {
		return fmt.Errorf("%w: grid hours %d..%d", ErrInvalidConfig, g.StartHour, g.EndHour)
	}
	if g.StepMinutes <= 0 || 60%g.StepMinutes != 0 {
		return fmt.Errorf("%w: grid.step_minutes=%d must divide 60", ErrInvalidConfig, g.StepMinutes)
	}
	if _, err := g.Location(); err != nil {
		return fmt.Errorf("%w: grid.timezone=%q: %v", ErrInvalidConfig, g.Timezone, err)
	}

	s := c.Schedule
	if s.MaxPastWeeks < 0 || s.MaxFutureWeeks < 0 {
		return fmt.Errorf("%w: schedule week window must be non-negative", ErrInvalidConfig)
	}
	if s.MaxPropagationWeeks < 1 || s.MaxListingWeeks < 1 || s.CopyForwardConcurrency < 1 {
		return fmt.Errorf("%w: schedule limits must be positive", ErrInvalidConfig)
	}

	if c.Booking.MinNoticeMinutes < 0 || c.Booking.MinCancelNoticeMinutes < 0 {
		return fmt.Errorf("%w: booking notice must be non-negative", ErrInvalidConfig)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 || c.RateLimit.IdleSeconds <= 0) {
		return fmt.Errorf("%w: rate_limit values must be positive", ErrInvalidConfig)
	}

	if c.Redis.Enabled && c.Redis.TTLSeconds <= 0 {
		return fmt.Errorf("%w: redis.ttl_seconds must be positive", ErrInvalidConfig)
	}

	return nil
}

// WeekWindow допустимый диапазон смещений недель
func (c *Config) WeekWindow() domain.WeekWindow {
	return domain.WeekWindow{
		MaxPastWeeks:   c.Schedule.MaxPastWeeks,
		MaxFutureWeeks: c.Schedule.MaxFutureWeeks,
	}
}
