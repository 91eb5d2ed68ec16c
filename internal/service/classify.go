package service

import (
	"github.com/eljumillano/deposit-reports-go/internal/domain"

	"github.com/shopspring/decimal"
)

// Shortages keeps the records whose recomputed delta is negative and at
// least minAmount in magnitude, tagging them as shortages. The input is
// never mutated; kept records are copies with Delta and Status set.
func Shortages(rows []domain.DepositRecord, minAmount decimal.Decimal) []domain.DepositRecord {
	var shortages []domain.DepositRecord
	for _, r := range rows {
		delta := r.ActualAmount.Sub(r.ExpectedAmount)
		if delta.Sign() < 0 && delta.Abs().Cmp(minAmount) >= 0 {
			r.Delta = delta
			r.Status = domain.StatusShortage
			shortages = append(shortages, r)
		}
	}
	return shortages
}

// AllDifferences keeps every record with a nonzero recomputed delta,
// tagged shortage or overage by sign. Records with delta == 0 are
// excluded, same as in shortage-only mode.
func AllDifferences(rows []domain.DepositRecord) []domain.DepositRecord {
	var differences []domain.DepositRecord
	for _, r := range rows {
		delta := r.ActualAmount.Sub(r.ExpectedAmount)
		if delta.IsZero() {
			continue
		}
		r.Delta = delta
		if delta.Sign() < 0 {
			r.Status = domain.StatusShortage
		} else {
			r.Status = domain.StatusOverage
		}
		differences = append(differences, r)
	}
	return differences
}

// Summarize condenses classified records to the summary row shape.
func Summarize(rows []domain.DepositRecord) []domain.DifferenceSummary {
	summaries := make([]domain.DifferenceSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, domain.DifferenceSummary{
			Date:        r.Date,
			RouteNumber: r.RouteNumber,
			Delta:       r.Delta,
			Status:      r.Status,
			UserName:    r.UserName,
		})
	}
	return summaries
}

// Stats totals a classified record set for the query endpoints.
func Stats(rows []domain.DepositRecord) domain.RangeStats {
	stats := domain.RangeStats{
		TotalDifferences: len(rows),
		ShortageAmount:   decimal.Zero,
		OverageAmount:    decimal.Zero,
	}
	for _, r := range rows {
		switch r.Status {
		case domain.StatusShortage:
			stats.Shortages++
			stats.ShortageAmount = stats.ShortageAmount.Add(r.Delta.Abs())
		case domain.StatusOverage:
			stats.Overages++
			stats.OverageAmount = stats.OverageAmount.Add(r.Delta)
		}
	}
	return stats
}
