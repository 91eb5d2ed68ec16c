package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eljumillano/deposit-reports-go/internal/domain"
	"github.com/eljumillano/deposit-reports-go/internal/infra/observability"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeFetcher records the days requested and serves canned payloads or
// errors per day.
type fakeFetcher struct {
	requested []string
	payloads  map[string]domain.DepositsPayload
	failDays  map[string]bool
}

func (f *fakeFetcher) FetchDay(_ context.Context, dayISO string) (domain.DepositsPayload, error) {
	f.requested = append(f.requested, dayISO)
	if f.failDays[dayISO] {
		return domain.DepositsPayload{}, &domain.ErrExternalService{Service: "deposits", Err: errors.New("unreachable")}
	}
	return f.payloads[dayISO], nil
}

func payloadWithShortage(actual, expected int64) domain.DepositsPayload {
	return domain.DepositsPayload{
		Plants: map[string]domain.Plant{
			"p1": {Name: "Norte", Deposits: []domain.DepositEntry{{
				UserName:       "RTO 072",
				TotalAmount:    decimal.NewFromInt(actual),
				ExpectedAmount: decimal.NewFromInt(expected),
			}}},
		},
	}
}

func mustRange(t *testing.T, from, to string) domain.DateRange {
	t.Helper()
	r, err := domain.NewDateRange(from, to)
	require.NoError(t, err)
	return r
}

func TestRange_VisitsEveryDayOnceAscending(t *testing.T) {
	fetcher := &fakeFetcher{payloads: map[string]domain.DepositsPayload{}}
	svc := NewRangeService(fetcher, observability.NewMetrics(), zap.NewNop())

	svc.AllDifferences(context.Background(), mustRange(t, "2025-02-27", "2025-03-02"))

	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, fetcher.requested)
}

func TestRange_StartAfterEndIsEmpty(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewRangeService(fetcher, observability.NewMetrics(), zap.NewNop())

	rows := svc.AllDifferences(context.Background(), mustRange(t, "2025-08-10", "2025-08-01"))

	assert.Empty(t, rows)
	assert.Empty(t, fetcher.requested)
}

func TestRange_FailedDayIsSkippedNotFatal(t *testing.T) {
	fetcher := &fakeFetcher{
		payloads: map[string]domain.DepositsPayload{
			"2025-08-26": payloadWithShortage(80000, 100000),
			"2025-08-28": payloadWithShortage(50000, 100000),
		},
		failDays: map[string]bool{"2025-08-27": true},
	}
	svc := NewRangeService(fetcher, observability.NewMetrics(), zap.NewNop())

	rows := svc.Shortages(context.Background(), mustRange(t, "2025-08-26", "2025-08-28"), decimal.NewFromInt(10000))

	require.Len(t, rows, 2)
	// Day order preserved in the concatenation.
	assert.Equal(t, "2025-08-26", rows[0].Date)
	assert.Equal(t, "2025-08-28", rows[1].Date)
	// The failed day was still attempted, then skipped.
	assert.Equal(t, []string{"2025-08-26", "2025-08-27", "2025-08-28"}, fetcher.requested)
}

func TestRange_RouteAppearingOnMultipleDaysYieldsMultipleRecords(t *testing.T) {
	fetcher := &fakeFetcher{
		payloads: map[string]domain.DepositsPayload{
			"2025-08-26": payloadWithShortage(80000, 100000),
			"2025-08-27": payloadWithShortage(85000, 100000),
		},
	}
	svc := NewRangeService(fetcher, observability.NewMetrics(), zap.NewNop())

	rows := svc.Shortages(context.Background(), mustRange(t, "2025-08-26", "2025-08-27"), decimal.NewFromInt(10000))

	require.Len(t, rows, 2)
	assert.Equal(t, rows[0].RouteNumber, rows[1].RouteNumber)
}
