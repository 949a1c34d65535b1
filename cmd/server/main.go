package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PhamNghia11/career-web/api"
	dbfs "github.com/PhamNghia11/career-web/db"
	"github.com/PhamNghia11/career-web/internal/config"
	"github.com/PhamNghia11/career-web/internal/db"
	"github.com/PhamNghia11/career-web/internal/jobs"
	"github.com/PhamNghia11/career-web/internal/moderation"
	"github.com/PhamNghia11/career-web/internal/notify"
	"github.com/PhamNghia11/career-web/internal/otp"
	"github.com/PhamNghia11/career-web/internal/repository/mongo"
	"github.com/PhamNghia11/career-web/internal/repository/sqlite"
	"github.com/PhamNghia11/career-web/pkg/repository"
	"github.com/PhamNghia11/career-web/pkg/transport"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	var debug = flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	transport.SetLogger(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("server exited with error", slog.Any("err", err))
		os.Exit(1)
	}
}

// openStore connects the configured backend. The returned close function
// releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, func(context.Context) error, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		repo, err := mongo.Connect(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, nil, err
		}
		return repo, repo.Close, nil

	default:
		conn, err := db.New(ctx, cfg.Storage.DatabasePath, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.MigrateOnStart {
			if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
				_ = conn.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return sqlite.New(conn, logger), func(context.Context) error { return conn.Close() }, nil
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("starting career-web server",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("storage", cfg.Storage.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	httpClient := transport.NewDefaultHTTPClient()
	emailSender := transport.NewEmailSender(cfg.Mail.EmailConfig, cfg.Breaker, httpClient)
	smsSender := transport.NewSMSSender(cfg.SMS, cfg.Breaker, httpClient)

	router := notify.NewRouter(store, logger.With(slog.String("component", "notify")))

	// Handlers are registered after the services exist; the pool only
	// reads the map once it starts.
	handlers := map[string]jobs.Handler{}
	pool := jobs.NewWorkerPool(handlers, logger.With(slog.String("component", "jobs")),
		cfg.Workers.Count, cfg.Workers.QueueSize, cfg.Workers.TaskTimeout)

	otpManager := otp.NewManager(otp.Deps{
		Accounts:   store,
		Email:      emailSender,
		SMS:        smsSender,
		Dispatcher: pool,
		Notifier:   router,
	}, otp.Config{
		RequestsPerHour: cfg.OTP.RequestsPerHour,
		Burst:           cfg.OTP.Burst,
		SendTimeout:     cfg.OTP.SendTimeout,
		OperatorEmail:   cfg.Mail.OperatorEmail,
	}, logger.With(slog.String("component", "otp")))

	machine := moderation.NewMachine(moderation.Deps{
		Jobs:       store,
		Accounts:   store,
		Notifier:   router,
		Dispatcher: pool,
		Email:      emailSender,
		AppURL:     cfg.AppURL,
	}, logger.With(slog.String("component", "moderation")))

	handlers[otp.TaskOperatorNotice] = otpManager.OperatorNoticeHandler()
	handlers[moderation.TaskStatusEmail] = machine.StatusEmailHandler()
	// Workers outlive the signal context so queued emails drain on shutdown.
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()
	pool.Start(workCtx)

	handler, err := api.SetupRoutes(cfg, version, buildTime, api.Services{
		Accounts:      store,
		OTP:           otpManager,
		Jobs:          machine,
		Notifications: router,
	})
	if err != nil {
		pool.Stop()
		_ = closeStore(context.Background())
		return fmt.Errorf("setup routes: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case err = <-serveErr:
		logger.Error("server failed", slog.Any("err", err))
	}

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if serr := server.Shutdown(shutdownCtx); serr != nil {
		logger.Error("server forced to shutdown", slog.Any("err", serr))
	}

	// Queued side effects finish before the store goes away.
	pool.Stop()

	if cerr := closeStore(shutdownCtx); cerr != nil {
		logger.Error("error closing storage", slog.Any("err", cerr))
	}

	logger.Info("server exited")
	return err
}
