package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eljumillano/deposit-reports-go/internal/domain"
	"github.com/eljumillano/deposit-reports-go/internal/infra/observability"
	"github.com/eljumillano/deposit-reports-go/internal/port"
	"github.com/eljumillano/deposit-reports-go/internal/report"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Report file name prefixes inside the reports directory.
const (
	DiffPDFPrefix     = "diferencias"
	TotalsPDFPrefix   = "totales"
	DetailedPDFPrefix = "detallado"
	TestPDFPrefix     = "test_diferencias"
)

// JobConfig carries the settings the daily job needs, passed in at
// construction so the job can be tested without touching the process
// environment.
type JobConfig struct {
	ReportsDir       string
	RetentionDays    int
	MinShortage      decimal.Decimal
	TotalsEndpoint   string
	DetailedEndpoint string
	HREmail          string
	AdminEmail       string
	FromName         string
}

// ReportJob composes retention cleanup, range aggregation, artifact
// generation, external artifact retrieval and email delivery into one
// auditable run. Any failure escaping the ordered steps is caught once
// at the top and converted into an error outcome; the job never fails
// past its own boundary. Re-running for the same reference time is not
// idempotent: emails are re-sent and artifacts overwritten.
type ReportJob struct {
	ranges    *RangeService
	artifacts port.ArtifactDownloader
	renderer  port.ReportRenderer
	mailer    port.Mailer
	metrics   *observability.Metrics
	logger    *zap.Logger
	loc       *time.Location
	cfg       JobConfig
}

// NewReportJob creates the daily report job with all collaborators
// injected.
func NewReportJob(
	ranges *RangeService,
	artifacts port.ArtifactDownloader,
	renderer port.ReportRenderer,
	mailer port.Mailer,
	metrics *observability.Metrics,
	logger *zap.Logger,
	loc *time.Location,
	cfg JobConfig,
) *ReportJob {
	return &ReportJob{
		ranges:    ranges,
		artifacts: artifacts,
		renderer:  renderer,
		mailer:    mailer,
		metrics:   metrics,
		logger:    logger,
		loc:       loc,
		cfg:       cfg,
	}
}

// ReportDate resolves the calendar day a run started at `now` reports
// on: the previous day in the configured time zone.
func (j *ReportJob) ReportDate(now time.Time) time.Time {
	y := now.In(j.loc).AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, time.UTC)
}

// Run executes one daily report job and always returns an outcome.
func (j *ReportJob) Run(ctx context.Context, now time.Time) (outcome domain.JobOutcome) {
	ctx, span := tracer.Start(ctx, "ReportJob.Run")
	defer span.End()

	runID := uuid.New().String()
	log := j.logger.With(zap.String("run_id", runID))
	start := time.Now()

	defer func() {
		j.metrics.ObserveJobDuration(time.Since(start))
		j.metrics.IncrJobRun(outcome.Status)
	}()
	defer func() {
		if r := recover(); r != nil {
			log.Error("daily job panicked", zap.Any("panic", r))
			outcome = domain.JobOutcome{
				Status:  domain.JobStatusError,
				RunID:   runID,
				Message: fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	reportDate := j.ReportDate(now)
	dateISO := reportDate.Format("2006-01-02")
	log.Info("daily job started", zap.String("report_date", dateISO))

	// Step 1: retention cleanup. Its failures are internal to the
	// result; they never abort the run.
	cleanup := CleanReports(j.cfg.ReportsDir, j.cfg.RetentionDays, time.Now(), log)
	j.metrics.AddFilesCleaned(cleanup.FilesDeleted)

	if err := os.MkdirAll(j.cfg.ReportsDir, 0o755); err != nil {
		return j.fail(log, runID, fmt.Errorf("create reports dir: %w", err))
	}

	// Step 2: previous-day shortages. Per-day failures are already
	// absorbed by the aggregator; an unreachable source yields an empty
	// list, not a failed run.
	shortages := j.ranges.Shortages(ctx, domain.SingleDay(reportDate), j.cfg.MinShortage)
	log.Info("shortages fetched",
		zap.Int("count", len(shortages)),
		zap.String("min_amount", j.cfg.MinShortage.String()),
	)

	// Step 3: local shortage report.
	diffPath := filepath.Join(j.cfg.ReportsDir, fmt.Sprintf("%s_%s.pdf", DiffPDFPrefix, dateISO))
	if err := j.renderer.Render(diffPath, dateISO, shortages); err != nil {
		return j.fail(log, runID, fmt.Errorf("render shortage report: %w", err))
	}

	// Step 4: external artifacts. The two downloads are independent and
	// already degrade to placeholder files on failure.
	totalsPath := filepath.Join(j.cfg.ReportsDir, fmt.Sprintf("%s_%s.pdf", TotalsPDFPrefix, dateISO))
	detailedPath := filepath.Join(j.cfg.ReportsDir, fmt.Sprintf("%s_%s.pdf", DetailedPDFPrefix, dateISO))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		j.artifacts.Download(gctx, j.cfg.TotalsEndpoint, dateISO, totalsPath)
		return nil
	})
	g.Go(func() error {
		j.artifacts.Download(gctx, j.cfg.DetailedEndpoint, dateISO, detailedPath)
		return nil
	})
	_ = g.Wait()

	// Step 5: delivery. HR gets the shortage report, administration the
	// two external ones. A send failure here is fatal for the run.
	minFmt := report.FormatARS(j.cfg.MinShortage)
	hrBody := fmt.Sprintf(
		"<p>Buen día,</p><p>Adjunto reporte de <b>faltantes</b> del %s (≥ %s).</p><p>Total de faltantes: <b>%d</b></p><p>Saludos,<br>%s</p>",
		dateISO, minFmt, len(shortages), j.cfg.FromName,
	)
	if err := j.mailer.Send(
		fmt.Sprintf("[RTO] Diferencias (≥ %s) - %s", minFmt, dateISO),
		hrBody,
		[]string{j.cfg.HREmail},
		[]string{diffPath},
	); err != nil {
		return j.fail(log, runID, fmt.Errorf("send shortage email: %w", err))
	}
	j.metrics.IncrEmailSent("hr")
	log.Info("shortage email sent", zap.String("to", j.cfg.HREmail))

	adminBody := fmt.Sprintf(
		"<p>Buen día,</p><p>Adjunto reportes de depósitos del %s:</p><ul><li><b>%s_%s.pdf</b>: resumen por planta</li><li><b>%s_%s.pdf</b>: detalle completo</li></ul><p>Saludos,<br>%s</p>",
		dateISO, TotalsPDFPrefix, dateISO, DetailedPDFPrefix, dateISO, j.cfg.FromName,
	)
	if err := j.mailer.Send(
		fmt.Sprintf("[RTO] Depósitos Totales y Detallado - %s", dateISO),
		adminBody,
		[]string{j.cfg.AdminEmail},
		[]string{totalsPath, detailedPath},
	); err != nil {
		return j.fail(log, runID, fmt.Errorf("send admin email: %w", err))
	}
	j.metrics.IncrEmailSent("admin")
	log.Info("admin email sent", zap.String("to", j.cfg.AdminEmail))

	log.Info("daily job completed",
		zap.String("report_date", dateISO),
		zap.Int("differences_count", len(shortages)),
		zap.Int("files_cleaned", cleanup.FilesDeleted),
	)
	return domain.JobOutcome{
		Status:           domain.JobStatusOK,
		RunID:            runID,
		Date:             dateISO,
		DifferencesCount: len(shortages),
		FilesCleaned:     cleanup.FilesDeleted,
		Attachments:      []string{diffPath, totalsPath, detailedPath},
	}
}

func (j *ReportJob) fail(log *zap.Logger, runID string, err error) domain.JobOutcome {
	log.Error("daily job failed", zap.Error(err))
	return domain.JobOutcome{
		Status:  domain.JobStatusError,
		RunID:   runID,
		Message: err.Error(),
	}
}

// TestReportResult is returned by TestReport for the manual test
// endpoint: the shortage PDF alone, without cleanup, downloads or mail.
type TestReportResult struct {
	Date    string                 `json:"date"`
	Count   int                    `json:"count"`
	PDFPath string                 `json:"pdf_path"`
	Sample  []domain.DepositRecord `json:"sample,omitempty"`
}

// TestReport builds only the previous-day shortage PDF so the rendering
// path can be exercised without sending anything.
func (j *ReportJob) TestReport(ctx context.Context, now time.Time) (TestReportResult, error) {
	ctx, span := tracer.Start(ctx, "ReportJob.TestReport")
	defer span.End()

	reportDate := j.ReportDate(now)
	dateISO := reportDate.Format("2006-01-02")

	shortages := j.ranges.Shortages(ctx, domain.SingleDay(reportDate), j.cfg.MinShortage)

	if err := os.MkdirAll(j.cfg.ReportsDir, 0o755); err != nil {
		return TestReportResult{}, fmt.Errorf("create reports dir: %w", err)
	}

	path := filepath.Join(j.cfg.ReportsDir, fmt.Sprintf("%s_%s.pdf", TestPDFPrefix, dateISO))
	if err := j.renderer.Render(path, dateISO, shortages); err != nil {
		return TestReportResult{}, fmt.Errorf("render test report: %w", err)
	}

	sample := shortages
	if len(sample) > 3 {
		sample = sample[:3]
	}

	return TestReportResult{
		Date:    dateISO,
		Count:   len(shortages),
		PDFPath: path,
		Sample:  sample,
	}, nil
}
