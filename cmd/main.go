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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_booking"
	createEventTypeHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_event_type"
	deleteDateOverrideHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_date_override"
	deleteWeeklyRulesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_weekly_rules"
	getAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getDateOverridesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_date_overrides"
	getEventTypeHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_event_type"
	getHostBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_host_bookings"
	getHostEventTypesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_host_event_types"
	getWeeklyRulesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_weekly_rules"
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers/health"
	rescheduleBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reschedule_booking"
	setDateOverrideHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/set_date_override"
	setWeeklyRuleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/set_weekly_rule"
	updateEventTypeHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_event_type"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	slotcache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	eventTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/eventtype"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	rulesRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rules"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	eventTypesService "github.com/m04kA/SMC-SchedulingService/internal/service/eventtypes"
	rulesService "github.com/m04kA/SMC-SchedulingService/internal/service/rules"
	createBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-SchedulingService/migrations"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/migrator"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// Хранилища, общие для обоих драйверов (postgres и memory)
type (
	bookingStore interface {
		bookingsService.BookingRepository
		createBookingUC.BookingRepository
		rescheduleBookingUC.BookingRepository
	}
	ruleStore interface {
		rulesService.RulesRepository
		getAvailableSlotsUC.RulesRepository
	}
	eventTypeStore interface {
		eventTypesService.EventTypeRepository
		getAvailableSlotsUC.EventTypeRepository
	}
	txManager interface {
		rulesService.TransactionManager
		bookingsService.TransactionManager
	}
)

type storage struct {
	bookings   bookingStore
	rules      ruleStore
	eventTypes eventTypeStore
	tx         txManager
}

type eventPublisher interface {
	createBookingUC.EventPublisher
	Close() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from config.toml (storage=%s)", cfg.Storage.Driver)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	checks := make(map[string]health.Pinger)

	// Инициализируем хранилище
	var store storage
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		mem := memory.NewStore()
		store = storage{
			bookings:   mem.Bookings(),
			rules:      mem.Rules(),
			eventTypes: mem.EventTypes(),
			tx:         mem.TxManager(),
		}
		log.Warn("In-memory storage is used, data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
		checks["postgres"] = db

		if cfg.Database.AutoMigrate {
			if err := migrate(db); err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
			log.Info("Database migrations applied")
		}

		// Обертка считает запросы и транзакции, только если метрики включены
		var wrappedDB *dbmetrics.DB
		if cfg.Metrics.Enabled {
			wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			log.Info("Database metrics collection started")
		} else {
			wrappedDB = dbmetrics.Wrap(db, nil)
		}

		store = storage{
			bookings:   bookingRepo.NewRepository(wrappedDB),
			rules:      rulesRepo.NewRepository(wrappedDB),
			eventTypes: eventTypeRepo.NewRepository(wrappedDB),
			tx:         txmanager.NewTransactionManager(wrappedDB),
		}
	}

	// Кэш слотов
	var cache interface {
		getAvailableSlotsUC.SlotCache
		createBookingUC.SlotCache
	} = slotcache.Nop{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			// Кэш не обязателен: usecase при ошибках Redis считает слоты заново
			log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
		}
		cache = slotcache.NewCache(rdb, cfg.Redis.KeyPrefix, time.Duration(cfg.Scheduling.CacheTTLSeconds)*time.Second)
		checks["redis"] = health.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info("Slot cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Scheduling.CacheTTLSeconds)
	}

	// Публикация событий бронирований
	var publisher eventPublisher = events.Nop{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(
			events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic),
			time.Duration(cfg.Kafka.WriteTimeout)*time.Second,
			metricsCollector,
		)
		log.Info("Booking events enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer publisher.Close()

	// Инициализируем сервисы
	rulesSvc := rulesService.NewService(store.rules, store.bookings, store.tx, cache, log)
	eventTypesSvc := eventTypesService.NewService(store.eventTypes, cache, log)
	bookingSvc := bookingsService.NewService(
		store.bookings,
		store.tx,
		cache,
		publisher,
		metricsCollector,
		bookingsService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.eventTypes,
		store.rules,
		store.bookings,
		cache,
		metricsCollector,
		getAvailableSlotsUC.Options{
			MaxRangeDays: cfg.Scheduling.MaxRangeDays,
			Workers:      cfg.Scheduling.FanOutWorkers,
		},
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		store.bookings,
		store.eventTypes,
		store.rules,
		store.tx,
		cache,
		publisher,
		metricsCollector,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		store.bookings,
		store.eventTypes,
		store.rules,
		store.tx,
		cache,
		publisher,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	healthCheck := health.NewHandler(checks)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getHostBookings := getHostBookingsHandler.NewHandler(bookingSvc, log)
	getEventType := getEventTypeHandler.NewHandler(eventTypesSvc, log)
	createEventType := createEventTypeHandler.NewHandler(eventTypesSvc, log)
	getHostEventTypes := getHostEventTypesHandler.NewHandler(eventTypesSvc, log)
	updateEventType := updateEventTypeHandler.NewHandler(eventTypesSvc, log)
	setWeeklyRule := setWeeklyRuleHandler.NewHandler(rulesSvc, log)
	getWeeklyRules := getWeeklyRulesHandler.NewHandler(rulesSvc, log)
	deleteWeeklyRules := deleteWeeklyRulesHandler.NewHandler(rulesSvc, log)
	setDateOverride := setDateOverrideHandler.NewHandler(rulesSvc, log)
	deleteDateOverride := deleteDateOverrideHandler.NewHandler(rulesSvc, log)
	getDateOverrides := getDateOverridesHandler.NewHandler(rulesSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(rulesSvc, cfg.Scheduling.DefaultTimezone, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", healthCheck.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (приглашенные, без аутентификации)
	// ============================================================

	// Доступные слоты типа события
	api.HandleFunc("/hosts/{hostId}/event-types/{eventTypeId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Тип события
	api.HandleFunc("/event-types/{eventTypeId}", getEventType.Handle).Methods(http.MethodGet)

	// --- Журнал бронирований ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// ============================================================
	// HOST ROUTES (X-User-ID должен совпадать с {hostId})
	// ============================================================

	host := api.PathPrefix("/hosts/{hostId}").Subrouter()
	host.Use(middleware.Auth, middleware.RequireHost)

	// --- Недельное расписание ---
	host.HandleFunc("/weekly-rules", getWeeklyRules.Handle).Methods(http.MethodGet)
	host.HandleFunc("/weekly-rules", setWeeklyRule.Handle).Methods(http.MethodPost)
	host.HandleFunc("/weekly-rules", deleteWeeklyRules.Handle).Methods(http.MethodDelete)

	// --- Исключения на даты ---
	host.HandleFunc("/overrides", getDateOverrides.Handle).Methods(http.MethodGet)
	host.HandleFunc("/overrides/{date}", setDateOverride.Handle).Methods(http.MethodPut)
	host.HandleFunc("/overrides/{date}", deleteDateOverride.Handle).Methods(http.MethodDelete)

	// Предпросмотр окон доступности на дату
	host.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// --- Типы событий ---
	host.HandleFunc("/event-types", getHostEventTypes.Handle).Methods(http.MethodGet)
	host.HandleFunc("/event-types", createEventType.Handle).Methods(http.MethodPost)
	host.HandleFunc("/event-types/{eventTypeId}", updateEventType.Handle).Methods(http.MethodPatch)

	// --- Бронирования хоста ---
	host.HandleFunc("/bookings", getHostBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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

// migrate применяет встроенные миграции
func migrate(db *sql.DB) error {
	m, err := migrator.New(db, migrations.FS)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
