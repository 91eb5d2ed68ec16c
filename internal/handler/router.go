package handler

import (
	"net/http"
	"time"

	"github.com/eljumillano/deposit-reports-go/internal/config"
	"github.com/eljumillano/deposit-reports-go/internal/domain"
	"github.com/eljumillano/deposit-reports-go/internal/infra/observability"
	"github.com/eljumillano/deposit-reports-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Deps bundles what the HTTP surface needs. The surface is a thin
// trigger/query layer over the job and the range service.
type Deps struct {
	Job        *service.ReportJob
	Ranges     *service.RangeService
	ReportsDir string
	TimeZone   string
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(d.Logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(d.TimeZone))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Post("/jobs/daily", runDailyJobHandler(d.Job))
		r.Post("/jobs/test-report", testReportHandler(d.Job, d.Logger))
		r.Post("/reports/cleanup", cleanupHandler(d.ReportsDir, d.Metrics, d.Logger))
		r.Get("/differences", differencesHandler(d.Ranges, d.Logger))
		r.Get("/differences/summary", differencesSummaryHandler(d.Ranges, d.Logger))
	})

	return r
}

func healthzHandler(tz string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "tz": tz})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// runDailyJobHandler triggers the daily job on demand. The job always
// returns a structured outcome; the HTTP status mirrors it.
func runDailyJobHandler(job *service.ReportJob) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/jobs/daily")
		defer span.End()

		outcome := job.Run(ctx, time.Now())
		if outcome.Status == domain.JobStatusOK {
			writeJSON(w, http.StatusOK, outcome)
			return
		}
		writeJSON(w, http.StatusInternalServerError, outcome)
	}
}

// testReportHandler builds only the shortage PDF for the previous day,
// without cleanup, downloads or delivery.
func testReportHandler(job *service.ReportJob, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/jobs/test-report")
		defer span.End()

		result, err := job.TestReport(ctx, time.Now())
		if err != nil {
			logger.Error("test report failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
			service.TestReportResult
		}{Status: "ok", TestReportResult: result})
	}
}

// cleanupHandler runs a retention sweep now. days_to_keep outside
// [1, 30] is clamped at this boundary, defaulting to 7.
func cleanupHandler(reportsDir string, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/reports/cleanup")
		defer span.End()

		days, err := parseDaysToKeep(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("cleanup.days_to_keep", days))

		result := service.CleanReports(reportsDir, days, time.Now(), logger)
		metrics.AddFilesCleaned(result.FilesDeleted)

		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
			domain.CleanupResult
		}{Status: "ok", CleanupResult: result})
	}
}

type differencesResponse struct {
	Status string                 `json:"status"`
	From   string                 `json:"from"`
	To     string                 `json:"to"`
	Stats  domain.RangeStats      `json:"stats"`
	Items  []domain.DepositRecord `json:"items"`
}

// differencesHandler returns every difference (shortages and overages)
// in the requested range, flattened day by day.
func differencesHandler(ranges *service.RangeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/differences")
		defer span.End()

		dateRange, from, to, err := parseRangeParams(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		rows := ranges.AllDifferences(ctx, dateRange)
		if rows == nil {
			rows = []domain.DepositRecord{}
		}

		writeJSON(w, http.StatusOK, differencesResponse{
			Status: "ok",
			From:   from,
			To:     to,
			Stats:  service.Stats(rows),
			Items:  rows,
		})
	}
}

type summaryResponse struct {
	Status string                     `json:"status"`
	From   string                     `json:"from"`
	To     string                     `json:"to"`
	Stats  domain.RangeStats          `json:"stats"`
	Items  []domain.DifferenceSummary `json:"items"`
}

// differencesSummaryHandler returns the condensed per-record rows plus
// the same stats block.
func differencesSummaryHandler(ranges *service.RangeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/differences/summary")
		defer span.End()

		dateRange, from, to, err := parseRangeParams(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		rows := ranges.AllDifferences(ctx, dateRange)

		writeJSON(w, http.StatusOK, summaryResponse{
			Status: "ok",
			From:   from,
			To:     to,
			Stats:  service.Stats(rows),
			Items:  service.Summarize(rows),
		})
	}
}

func parseRangeParams(r *http.Request) (domain.DateRange, string, string, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		return domain.DateRange{}, "", "", &domain.ErrValidation{Field: "from", Message: "is required (YYYY-MM-DD)"}
	}
	if to == "" {
		return domain.DateRange{}, "", "", &domain.ErrValidation{Field: "to", Message: "is required (YYYY-MM-DD)"}
	}
	dateRange, err := domain.NewDateRange(from, to)
	if err != nil {
		return domain.DateRange{}, "", "", err
	}
	return dateRange, from, to, nil
}

func parseDaysToKeep(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days_to_keep")
	if raw == "" {
		return config.DefaultRetentionDays, nil
	}
	days, err := parseInt(raw)
	if err != nil {
		return 0, &domain.ErrValidation{Field: "days_to_keep", Message: "must be an integer"}
	}
	return config.ClampRetentionDays(days), nil
}
