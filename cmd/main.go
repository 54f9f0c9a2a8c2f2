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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createAppointmentHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/create_appointment"
	deleteRuleHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/delete_rule"
	generateSlotsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/generate_slots"
	getAppointmentHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_appointment"
	getRuleHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_rule"
	getRulesHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_rules"
	listAppointmentsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/list_appointments"
	listSlotsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/list_slots"
	releaseAppointmentHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/release_appointment"
	setRuleHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/set_rule"
	transitionAppointmentHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/transition_appointment"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/migrator"
	ruleRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/rule"
	slotRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/slot"
	catalogServiceClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/scheduler"
	bookingService "github.com/m04kA/SMC-SalonScheduler/internal/service/booking"
	calendarService "github.com/m04kA/SMC-SalonScheduler/internal/service/calendar"
	generatorService "github.com/m04kA/SMC-SalonScheduler/internal/service/generator"
	plannerService "github.com/m04kA/SMC-SalonScheduler/internal/service/planner"
	createAppointmentUC "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_appointment"
	listSlotsUC "github.com/m04kA/SMC-SalonScheduler/internal/usecase/list_slots"
	"github.com/m04kA/SMC-SalonScheduler/migrations"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduler/pkg/metrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		configPath = path
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

	log.Info("Starting SMC-SalonScheduler...")
	log.Info("Configuration loaded from %s", configPath)

	// Часовой пояс салонов: одно "сегодня" для календаря и ночного планировщика
	location, err := cfg.Scheduler.Location()
	if err != nil {
		log.Fatal("Failed to load scheduler timezone: %v", err)
	}

	// Инициализируем метрики (если включены)
	// nil *metrics.Metrics допустим: методы записи ничего не делают
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Оборачиваем БД: с метриками запросов и пула или без
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}

	// Применяем миграции (goose работает с исходным *sql.DB)
	if cfg.Database.AutoMigrate {
		m, err := migrator.NewMigrator(wrappedDB.Unwrap(), migrations.FS, log)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := m.Up(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB)
	ruleRepository := ruleRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем сервисы
	generatorSvc := generatorService.NewService(
		slotRepository,
		ruleRepository,
		txMgr,
		metricsCollector,
		log,
		cfg.Scheduler.Workers,
	)
	calendarSvc := calendarService.NewService(
		ruleRepository,
		catalogClient,
		generatorSvc,
		log,
		cfg.Scheduler.HorizonDays,
		location,
	)
	plannerSvc := plannerService.NewService(slotRepository, calendarSvc, log)
	bookingSvc := bookingService.NewService(
		appointmentRepository,
		slotRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(catalogClient, plannerSvc, bookingSvc, log)
	listSlotsUseCase := listSlotsUC.NewUseCase(slotRepository, log)

	// Планировщик продления горизонта
	var horizonScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		horizonScheduler, err = scheduler.New(
			cfg.Scheduler.Cron,
			location,
			cfg.Scheduler.HorizonDays,
			generatorSvc,
			log,
		)
		if err != nil {
			log.Fatal("Failed to initialize scheduler: %v", err)
		}
		horizonScheduler.Start()
		log.Info("Slot generation scheduled: cron=%q", cfg.Scheduler.Cron)
	}

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	listAppointments := listAppointmentsHandler.NewHandler(bookingSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(bookingSvc, log)
	releaseAppointment := releaseAppointmentHandler.NewHandler(bookingSvc, log)
	confirmAppointment := transitionAppointmentHandler.NewHandler("confirm", bookingSvc.Confirm, log)
	completeAppointment := transitionAppointmentHandler.NewHandler("complete", bookingSvc.Complete, log)
	listSlots := listSlotsHandler.NewHandler(listSlotsUseCase, log)
	getRules := getRulesHandler.NewHandler(calendarSvc, log)
	getRule := getRuleHandler.NewHandler(calendarSvc, log)
	setRule := setRuleHandler.NewHandler(calendarSvc, log)
	deleteRule := deleteRuleHandler.NewHandler(calendarSvc, log)
	generateSlots := generateSlotsHandler.NewHandler(calendarSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", releaseAppointment.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/appointments/{appointmentId}/confirm", confirmAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPatch)

	// --- Слоты ---
	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/salons/{salonId}/slots/generate", generateSlots.Handle).Methods(http.MethodPost)

	// --- Операционный календарь ---
	api.HandleFunc("/salons/{salonId}/rules", getRules.Handle).Methods(http.MethodGet)
	api.HandleFunc("/salons/{salonId}/rules", setRule.Handle).Methods(http.MethodPut)
	api.HandleFunc("/salons/{salonId}/rules/{kind}/{value}", getRule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/salons/{salonId}/rules/{ruleId}", deleteRule.Handle).Methods(http.MethodDelete)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if horizonScheduler != nil {
		if err := horizonScheduler.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler stopped with error: %v", err)
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
