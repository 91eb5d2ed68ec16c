package service

import (
	"context"

	"github.com/eljumillano/deposit-reports-go/internal/domain"
	"github.com/eljumillano/deposit-reports-go/internal/infra/observability"
	"github.com/eljumillano/deposit-reports-go/internal/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// RangeService drives fetch → flatten → classify across a date range.
// One unreachable day must not block reconciliation for the rest of the
// range: per-day failures are logged, counted and skipped, and the
// methods never return an error for them.
type RangeService struct {
	fetcher port.DepositsFetcher
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRangeService creates the aggregator with its dependencies injected.
func NewRangeService(fetcher port.DepositsFetcher, metrics *observability.Metrics, logger *zap.Logger) *RangeService {
	return &RangeService{
		fetcher: fetcher,
		metrics: metrics,
		logger:  logger,
	}
}

// Shortages collects shortage-classified records over r, day by day
// ascending, concatenated in day order.
func (s *RangeService) Shortages(ctx context.Context, r domain.DateRange, minAmount decimal.Decimal) []domain.DepositRecord {
	return s.collect(ctx, "RangeService.Shortages", r, func(rows []domain.DepositRecord) []domain.DepositRecord {
		return Shortages(rows, minAmount)
	})
}

// AllDifferences collects every nonzero difference over r, day by day
// ascending, concatenated in day order.
func (s *RangeService) AllDifferences(ctx context.Context, r domain.DateRange) []domain.DepositRecord {
	return s.collect(ctx, "RangeService.AllDifferences", r, AllDifferences)
}

// collect walks every day in the range exactly once. Days are fetched
// strictly sequentially; each day's retry budget is incurred serially.
func (s *RangeService) collect(ctx context.Context, op string, r domain.DateRange, classify func([]domain.DepositRecord) []domain.DepositRecord) []domain.DepositRecord {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(
		attribute.String("range.start", r.Start.Format("2006-01-02")),
		attribute.String("range.end", r.End.Format("2006-01-02")),
	)

	var all []domain.DepositRecord
	for _, day := range r.Days() {
		dayISO := day.Format("2006-01-02")

		payload, err := s.fetcher.FetchDay(ctx, dayISO)
		if err != nil {
			dayErr := &domain.ErrDayProcessing{Day: dayISO, Err: err}
			s.logger.Warn("skipping day after processing failure", zap.Error(dayErr))
			s.metrics.IncrDaySkipped()
			continue
		}

		rows := FlattenPayload(payload, dayISO)
		all = append(all, classify(rows)...)
	}

	return all
}
