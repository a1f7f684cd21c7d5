package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/cancel_booking"
	copyForwardHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/copy_forward"
	createBookingHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/get_booking"
	getCalendarWeekHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/get_calendar_week"
	getOpenSlotsHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/get_open_slots"
	getProviderBookingsHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/get_provider_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/get_user_bookings"
	getWeekAvailabilityHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/get_week_availability"
	setSlotModeHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/set_slot_mode"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TutorBooking/internal/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/config"
	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	availabilityCache "github.com/m04kA/SMC-TutorBooking/internal/infra/cache/availability"
	availabilityRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TutorBooking/internal/integrations/profileservice"
	availabilityService "github.com/m04kA/SMC-TutorBooking/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-TutorBooking/internal/service/bookings"
	copyForwardUC "github.com/m04kA/SMC-TutorBooking/internal/usecase/copy_forward"
	createBookingUC "github.com/m04kA/SMC-TutorBooking/internal/usecase/create_booking"
	getOpenSlotsUC "github.com/m04kA/SMC-TutorBooking/internal/usecase/get_open_slots"
	setSlotModeUC "github.com/m04kA/SMC-TutorBooking/internal/usecase/set_slot_mode"
	"github.com/m04kA/SMC-TutorBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
	"github.com/m04kA/SMC-TutorBooking/pkg/metrics"
	"github.com/m04kA/SMC-TutorBooking/pkg/txmanager"
)

// weekCache кэш недельной доступности (Redis или no-op)
type weekCache interface {
	Get(ctx context.Context, providerID uuid.UUID, week domain.Week) (domain.WeekAvailability, int64, bool, error)
	Set(ctx context.Context, providerID uuid.UUID, week domain.Week, slots domain.WeekAvailability, version int64) (bool, error)
	Invalidate(ctx context.Context, providerID uuid.UUID, week domain.Week) error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-TutorBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (если включены). *metrics.Metrics безопасен при nil
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
	)
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, stopCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Кэш недельной доступности
	var cache weekCache = availabilityCache.NopCache{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Кэш не обязателен: при недоступности Redis чтения уходят в БД
			log.Warn("Redis ping failed (addr=%s): %v", cfg.Redis.Addr, err)
		}
		cancel()

		cache = availabilityCache.NewRedisCache(redisClient, cfg.Redis.TTL())
		log.Info("Availability cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
	}

	// Сетка слотов
	location, err := cfg.Grid.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Grid.Timezone, err)
	}
	projector, err := calendar.NewProjector(calendar.Grid{
		StartHour:   cfg.Grid.StartHour,
		EndHour:     cfg.Grid.EndHour,
		StepMinutes: cfg.Grid.StepMinutes,
	}, location)
	if err != nil {
		log.Fatal("Failed to build slot grid: %v", err)
	}
	window := cfg.WeekWindow()
	log.Info("Slot grid %02d:00-%02d:00 step %dm, timezone=%s, weeks -%d..+%d",
		cfg.Grid.StartHour, cfg.Grid.EndHour, cfg.Grid.StepMinutes, location, window.MaxPastWeeks, window.MaxFutureWeeks)

	// Интеграции
	profileClient := profileservice.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProfileService=%s timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout)

	// Репозитории
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)

	// Сервисы
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		bookingRepository,
		cache,
		projector,
		window,
		metricsCollector,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		profileClient,
		txMgr,
		projector,
		bookingsService.Policy{
			AllowProviderCancel: cfg.Booking.AllowProviderCancel,
			MinCancelNotice:     cfg.Booking.MinCancelNotice(),
		},
		log,
	)

	// Use cases
	setSlotModeUseCase := setSlotModeUC.NewUseCase(
		availabilityRepository,
		bookingRepository,
		cache,
		txMgr,
		projector,
		window,
		log,
	)
	copyForwardUseCase := copyForwardUC.NewUseCase(
		availabilityRepository,
		cache,
		projector,
		window,
		cfg.Schedule.MaxPropagationWeeks,
		cfg.Schedule.CopyForwardConcurrency,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		txMgr,
		projector,
		window,
		cfg.Booking.MinNotice(),
		metricsCollector,
		log,
	)
	getOpenSlotsUseCase := getOpenSlotsUC.NewUseCase(
		availabilityRepository,
		bookingRepository,
		profileClient,
		projector,
		window,
		cfg.Schedule.MaxListingWeeks,
		log,
	)

	// Handlers
	getCalendarWeek := getCalendarWeekHandler.NewHandler(availabilitySvc, log)
	getWeekAvailability := getWeekAvailabilityHandler.NewHandler(availabilitySvc, log)
	setSlotMode := setSlotModeHandler.NewHandler(setSlotModeUseCase, log)
	copyForward := copyForwardHandler.NewHandler(copyForwardUseCase, log)
	getOpenSlots := getOpenSlotsHandler.NewHandler(getOpenSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)

	// Роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка недели для навигации по календарю
	api.HandleFunc("/calendar/weeks/{weekOffset:-?[0-9]+}", getCalendarWeek.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT или заголовки gateway)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret, log))
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL(), log)
		go rateLimiter.RunEviction(stopCh)
		protected.Use(rateLimiter.Middleware)
		log.Info("Rate limit enabled: %d req/min, burst %d", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	// --- Доступность преподавателя ---
	protected.HandleFunc("/providers/{providerId}/availability", getWeekAvailability.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/availability/{weekOffset}/slots/{slotLabel}",
		setSlotMode.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/providers/{providerId}/availability/{weekOffset}/slots/{slotLabel}/toggle",
		setSlotMode.Toggle).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId}/availability/{weekOffset}/copy-forward",
		copyForward.Handle).Methods(http.MethodPost)

	// --- Поиск свободных слотов ---
	protected.HandleFunc("/open-slots", getOpenSlots.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
