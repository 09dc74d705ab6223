package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/UnknownOlympus/chronos/internal/api"
	"github.com/UnknownOlympus/chronos/internal/auth"
	"github.com/UnknownOlympus/chronos/internal/cache"
	"github.com/UnknownOlympus/chronos/internal/config"
	"github.com/UnknownOlympus/chronos/internal/i18n"
	"github.com/UnknownOlympus/chronos/internal/jobs"
	"github.com/UnknownOlympus/chronos/internal/metrics"
	"github.com/UnknownOlympus/chronos/internal/notify"
	"github.com/UnknownOlympus/chronos/internal/repository"
	"github.com/UnknownOlympus/chronos/internal/server"
	"github.com/UnknownOlympus/chronos/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gopkg.in/gomail.v2"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const (
	apiReadTimeout  = 10 * time.Second
	apiWriteTimeout = 30 * time.Second
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)
	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(ctx, stop, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "Application failed", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already released the signal handler
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")
}

//nolint:funlen // wiring of every component lives in one place
func run(ctx context.Context, stop context.CancelFunc, cfg *config.Config, logger *slog.Logger) error {
	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Initialize the database connection.
	dtb, err := repository.NewDatabase(ctx, repository.ConnOptions{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	defer dtb.Close()

	if err = repository.Migrate(ctx, dtb); err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}
	repo := repository.NewRepository(dtb)

	// The employee cache is optional.
	var (
		employeeCache service.EmployeeCache = cache.Noop{}
		cachePinger   server.Pinger
	)
	if cfg.Redis.Addr != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if redisErr != nil {
			return fmt.Errorf("failed to connect to Redis: %w", redisErr)
		}
		defer redisClient.Close()

		redisCache := cache.NewRedis(redisClient, cfg.Redis.TTL, appMetrics)
		employeeCache, cachePinger = redisCache, redisCache
	}

	localizer, err := i18n.NewLocalizer()
	if err != nil {
		return fmt.Errorf("failed to initialize localizer: %w", err)
	}

	var (
		notifiers notify.Multi
		mailer    *notify.Mail
	)
	if cfg.Telegram.Token != "" {
		telegram, tgErr := notify.NewTelegram(notify.TelegramConfig{
			Token:  cfg.Telegram.Token,
			URL:    cfg.Telegram.URL,
			ChatID: cfg.Telegram.ChatID,
			Lang:   cfg.Lang,
		}, localizer)
		if tgErr != nil {
			return tgErr
		}
		notifiers = append(notifiers, telegram)
	}
	if cfg.Mail.Host != "" {
		dialer := gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password)
		mailer = notify.NewMail(dialer, cfg.Mail.From, cfg.Mail.HR, cfg.Lang, localizer)
		notifiers = append(notifiers, mailer)
	}
	var notifier service.Notifier = notify.Noop{}
	if len(notifiers) > 0 {
		async := notify.NewAsync(logger, notifiers, notify.DefaultAsyncTimeout)
		// runs after both servers stopped, so no new deliveries can start
		defer async.Wait()
		notifier = async
	}

	opts := service.Options{
		Location:      cfg.Attendance.Location,
		LateHour:      cfg.Attendance.LateHour,
		StandardHours: cfg.Attendance.StandardHours,
	}
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer, time.Now)

	directory := service.NewDirectory(logger, repo, employeeCache, opts)
	reports := service.NewReports(repo, appMetrics, opts)
	services := api.Services{
		Accounts:   service.NewAccounts(logger, repo, directory, employeeCache, issuer),
		Attendance: service.NewAttendance(logger, repo, directory, appMetrics, opts),
		Directory:  directory,
		Leaves:     service.NewLeaves(logger, repo, directory, notifier, appMetrics, opts),
		Reports:    reports,
	}

	// The monthly report needs both a mailer and someone to mail it to.
	if mailer != nil && len(cfg.Report.Recipients) > 0 {
		scheduler := jobs.NewScheduler(logger, cfg.Attendance.Location)
		job := jobs.NewMonthlyReport(logger, reports, mailer, cfg.Report.Recipients, 0)
		if err = jobs.Schedule(scheduler, cfg.Report.Schedule, job); err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.InfoContext(ctx, "Monthly report scheduled", "schedule", cfg.Report.Schedule)
	}

	router := api.NewRouter(logger, services, appMetrics, cfg.HTTP.CORSOrigins)
	health := server.NewHealthChecker(logger, dtb, cachePinger)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	serve := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if serveErr := fn(); serveErr != nil {
				mu.Lock()
				errs = append(errs, serveErr)
				mu.Unlock()
				// one server down takes the other with it
				stop()
			}
		}()
	}

	serve(func() error {
		return server.Serve(ctx, logger, "api", &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:           router,
			ReadHeaderTimeout: apiReadTimeout,
			ReadTimeout:       apiReadTimeout,
			WriteTimeout:      apiWriteTimeout,
		})
	})
	serve(func() error {
		return server.StartMonitoringServer(ctx, logger, reg, health, cfg.HTTP.MonitoringPort)
	})

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	wg.Wait()

	return errors.Join(errs...)
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
