package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eljumillano/deposit-reports-go/internal/config"
	"github.com/eljumillano/deposit-reports-go/internal/handler"
	"github.com/eljumillano/deposit-reports-go/internal/infra/client"
	"github.com/eljumillano/deposit-reports-go/internal/infra/mail"
	"github.com/eljumillano/deposit-reports-go/internal/infra/observability"
	"github.com/eljumillano/deposit-reports-go/internal/infra/resilience"
	"github.com/eljumillano/deposit-reports-go/internal/report"
	"github.com/eljumillano/deposit-reports-go/internal/scheduler"
	"github.com/eljumillano/deposit-reports-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("external_base_url", cfg.ExternalBaseURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("retry_delay", cfg.RetryDelay),
		zap.String("reports_dir", cfg.ReportsDir),
		zap.Int("retention_days", cfg.RetentionDays),
		zap.String("min_shortage", cfg.MinShortage.String()),
		zap.String("time_zone", cfg.TimeZone),
		zap.String("job_schedule", cfg.JobSchedule),
	)

	// --- Time zone ---
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Fatal("failed to load time zone", zap.String("time_zone", cfg.TimeZone), zap.Error(err))
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "deposit-reports")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	retryCfg := resilience.Config{
		MaxAttempts: cfg.MaxRetries,
		Delay:       cfg.RetryDelay,
	}
	depositsClient := client.NewDepositsClient(httpClient, cfg.ExternalBaseURL, cfg.DepositsEndpoint, retryCfg)

	cb := resilience.NewCircuitBreaker("report-artifacts")
	artifactClient := client.NewArtifactClient(httpClient, cfg.ExternalBaseURL, cb, metrics, logger)

	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail, cfg.FromName)

	// --- Services ---
	ranges := service.NewRangeService(depositsClient, metrics, logger)
	renderer := report.NewPDFRenderer("EL JUMILLANO", cfg.MinShortage)

	job := service.NewReportJob(
		ranges,
		artifactClient,
		renderer,
		mailer,
		metrics,
		logger,
		loc,
		service.JobConfig{
			ReportsDir:       cfg.ReportsDir,
			RetentionDays:    cfg.RetentionDays,
			MinShortage:      cfg.MinShortage,
			TotalsEndpoint:   cfg.PDFTotalsEndpoint,
			DetailedEndpoint: cfg.PDFDetailedEndpoint,
			HREmail:          cfg.HREmail,
			AdminEmail:       cfg.AdminEmail,
			FromName:         cfg.FromName,
		},
	)

	// --- Scheduler ---
	sched, err := scheduler.New(cfg.JobSchedule, loc, logger, func(ctx context.Context) {
		job.Run(ctx, time.Now())
	})
	if err != nil {
		logger.Fatal("failed to create scheduler", zap.String("schedule", cfg.JobSchedule), zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Job:        job,
		Ranges:     ranges,
		ReportsDir: cfg.ReportsDir,
		TimeZone:   cfg.TimeZone,
		Metrics:    metrics,
		Logger:     logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
