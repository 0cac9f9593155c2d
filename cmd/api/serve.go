package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinicdesk/internal/config"
	appointmenthandler "github.com/jwalitptl/clinicdesk/internal/handler/appointment"
	authhandler "github.com/jwalitptl/clinicdesk/internal/handler/auth"
	calendarhandler "github.com/jwalitptl/clinicdesk/internal/handler/calendar"
	financehandler "github.com/jwalitptl/clinicdesk/internal/handler/finance"
	healthhandler "github.com/jwalitptl/clinicdesk/internal/handler/health"
	medicationhandler "github.com/jwalitptl/clinicdesk/internal/handler/medication"
	patienthandler "github.com/jwalitptl/clinicdesk/internal/handler/patient"
	preferencehandler "github.com/jwalitptl/clinicdesk/internal/handler/preference"
	prometheushandler "github.com/jwalitptl/clinicdesk/internal/handler/prometheus"
	reminderhandler "github.com/jwalitptl/clinicdesk/internal/handler/reminder"
	userhandler "github.com/jwalitptl/clinicdesk/internal/handler/user"
	"github.com/jwalitptl/clinicdesk/internal/middleware"
	"github.com/jwalitptl/clinicdesk/internal/reminder"
	"github.com/jwalitptl/clinicdesk/internal/repository/collection"
	"github.com/jwalitptl/clinicdesk/internal/router"
	appointmentService "github.com/jwalitptl/clinicdesk/internal/service/appointment"
	authService "github.com/jwalitptl/clinicdesk/internal/service/auth"
	financeService "github.com/jwalitptl/clinicdesk/internal/service/finance"
	medicationService "github.com/jwalitptl/clinicdesk/internal/service/medication"
	patientService "github.com/jwalitptl/clinicdesk/internal/service/patient"
	preferenceService "github.com/jwalitptl/clinicdesk/internal/service/preference"
	userService "github.com/jwalitptl/clinicdesk/internal/service/user"
	"github.com/jwalitptl/clinicdesk/internal/session"
	"github.com/jwalitptl/clinicdesk/internal/storage"
	"github.com/jwalitptl/clinicdesk/internal/storage/postgres"
	redisstore "github.com/jwalitptl/clinicdesk/internal/storage/redis"
	"github.com/jwalitptl/clinicdesk/internal/worker"
	"github.com/jwalitptl/clinicdesk/pkg/auth"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/messaging"
	redisbroker "github.com/jwalitptl/clinicdesk/pkg/messaging/redis"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
	"github.com/jwalitptl/clinicdesk/pkg/security"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the front desk API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func runServer(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger(cfg)
	for _, w := range cfg.Warnings() {
		log.ZL.Warn().Msg(w)
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("invalid server.timezone: %w", err)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New("clinic", registry)

	// Initialize storage
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	store := storage.NewStore(backend, log, m)
	defer store.Close()

	checker, err := security.NewCredentialChecker(cfg.Auth.CredentialScheme, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	v := validator.New()

	// Initialize repositories
	userRepo := collection.NewUserRepository(store, checker)
	patientRepo := collection.NewPatientRepository(store)
	appointmentRepo := collection.NewAppointmentRepository(store)
	medicationRepo := collection.NewMedicationRepository(store)
	financeRepo := collection.NewFinanceRepository(store)

	// Initialize reminders
	inbox := reminder.NewInbox(cfg.Reminders.InboxSize)
	sinks := reminder.MultiSink{reminder.NewLogSink(log), inbox}
	if cfg.Reminders.Broker.Enabled {
		broker, err := openBroker(cfg, backend, log)
		if err != nil {
			return err
		}
		defer broker.Close()
		sinks = append(sinks, reminder.NewBrokerSink(broker, cfg.Reminders.Broker.Channel))
	}
	if cfg.Reminders.Mail.Enabled {
		sinks = append(sinks, reminder.NewMailSink(mailConfig(cfg)))
	}
	scheduler := reminder.NewScheduler(reminder.SystemClock(), cfg.Reminders.Window, sinks, log, m)
	defer scheduler.Stop()

	// Initialize services
	authSvc := authService.NewService(userRepo, patientRepo, session.NewStore(cfg.Session.TTL), checker,
		auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), log, m)
	userSvc := userService.NewService(userRepo, checker, v, log)
	patientSvc := patientService.NewService(patientRepo, appointmentRepo, v, log)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, scheduler, v,
		appointmentService.Config{DiscardOnCancel: cfg.Reminders.DiscardOnCancel, Location: loc}, log)
	medicationSvc := medicationService.NewService(medicationRepo, v, log)
	financeSvc := financeService.NewService(financeRepo, v, log)
	preferenceSvc := preferenceService.NewService(store, v)

	if cfg.Reminders.SweepInterval > 0 {
		sweep := worker.NewReminderSweep(appointmentSvc, cfg.Reminders.SweepInterval, log)
		if err := sweep.Start(ctx); err != nil {
			return err
		}
		defer sweep.Stop()
	}

	// Setup router
	r := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		router.Handlers{
			Auth:         authhandler.NewHandler(authSvc),
			Users:        userhandler.NewHandler(userSvc),
			Patients:     patienthandler.NewHandler(patientSvc),
			Appointments: appointmenthandler.NewHandler(appointmentSvc),
			Medications:  medicationhandler.NewHandler(medicationSvc),
			Finance:      financehandler.NewHandler(financeSvc),
			Calendar:     calendarhandler.NewHandler(loc),
			Reminders:    reminderhandler.NewHandler(inbox),
			Preferences:  preferencehandler.NewHandler(preferenceSvc),
			Health:       healthhandler.NewHandler(store),
			Metrics:      prometheushandler.New(registry),
		},
		log,
		m,
		router.RouterConfig{
			Mode:             cfg.Server.Mode,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			MaxBodySize:      cfg.Server.MaxBodySize,
		},
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.ZL.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.ZL.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.ZL.Info().Msg("server exited properly")
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return storage.NewMemoryBackend(), nil
	case config.DriverFile:
		return storage.NewFileBackend(cfg.Storage.Dir)
	case config.DriverRedis:
		return redisstore.NewBackend(cfg.Storage.Redis.ToBackendConfig())
	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg.Storage.Database)
		if err != nil {
			return nil, err
		}
		backend, err := postgres.NewBackend(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openBroker reuses the storage connection when the store already lives in
// redis and no separate broker URL is configured.
func openBroker(cfg *config.Config, backend storage.Backend, log *logger.Logger) (messaging.Broker, error) {
	zl := log.Component("broker").ZL
	if rb, ok := backend.(*redisstore.Backend); ok && cfg.Reminders.Broker.URL == "" {
		return redisbroker.NewRedisBrokerWithClient(rb.Client(), zl), nil
	}
	return redisbroker.NewRedisBroker(brokerConfig(cfg), zl)
}

func brokerConfig(cfg *config.Config) redisbroker.Config {
	url := cfg.Reminders.Broker.URL
	if url == "" {
		url = cfg.Storage.Redis.URL
	}
	return redisbroker.Config{
		URL:          url,
		MaxRetries:   cfg.Storage.Redis.MaxRetries,
		RetryBackoff: cfg.Storage.Redis.RetryBackoff,
		PoolSize:     cfg.Storage.Redis.PoolSize,
		MinIdleConns: cfg.Storage.Redis.MinIdleConns,
	}
}

func mailConfig(cfg *config.Config) reminder.MailConfig {
	return reminder.MailConfig{
		Host:     cfg.Reminders.Mail.Host,
		Port:     cfg.Reminders.Mail.Port,
		Username: cfg.Reminders.Mail.Username,
		Password: cfg.Reminders.Mail.Password,
		From:     cfg.Reminders.Mail.From,
		To:       cfg.Reminders.Mail.To,
	}
}
