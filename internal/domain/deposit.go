package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status classifies the direction of a deposit difference.
type Status string

const (
	StatusNone     Status = ""
	StatusShortage Status = "shortage"
	StatusOverage  Status = "overage"
)

// DepositsPayload is the upstream by-plant response:
// a map of plant key to plant name plus that plant's deposits.
type DepositsPayload struct {
	Plants map[string]Plant `json:"plants"`
}

// Plant groups the deposits reported for one plant.
type Plant struct {
	Name     string         `json:"name"`
	Deposits []DepositEntry `json:"deposits"`
}

// DepositEntry is one raw deposit as the external source reports it.
// The upstream field names are kept as-is; amounts may arrive absent,
// in which case the decimal zero value applies.
type DepositEntry struct {
	DepositID      int64           `json:"deposit_id"`
	Identifier     string          `json:"identifier"`
	UserName       string          `json:"user_name"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ExpectedAmount decimal.Decimal `json:"deposit_esperado"`
	ReportedDiff   decimal.Decimal `json:"diferencia"`
	State          string          `json:"estado"`
	CurrencyCode   string          `json:"currency_code"`
	DepositType    string          `json:"deposit_type"`
	DateTime       string          `json:"date_time"`
	PosName        string          `json:"pos_name"`
	StationName    string          `json:"st_name"`
	HasDifference  bool            `json:"tiene_diferencia"`
}

// DepositRecord is one route's deposit activity for one day, flattened
// from the nested payload. Delta is always ActualAmount - ExpectedAmount,
// recomputed locally; the upstream-reported difference is never trusted.
// Records are immutable once classified.
type DepositRecord struct {
	Date           string          `json:"date"`
	PlantKey       string          `json:"plant_key"`
	PlantName      string          `json:"plant_name"`
	DepositID      int64           `json:"deposit_id"`
	Identifier     string          `json:"identifier"`
	UserName       string          `json:"user_name"`
	RouteNumber    string          `json:"route_number"`
	ActualAmount   decimal.Decimal `json:"actual_amount"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	Delta          decimal.Decimal `json:"delta"`
	Status         Status          `json:"status,omitempty"`
	CurrencyCode   string          `json:"currency_code"`
	DepositType    string          `json:"deposit_type"`
	DateTime       string          `json:"date_time"`
	PosName        string          `json:"pos_name"`
	StationName    string          `json:"st_name"`
	HasDifference  bool            `json:"has_difference"`
}

// DifferenceSummary is the condensed row shape for summary queries.
type DifferenceSummary struct {
	Date        string          `json:"date"`
	RouteNumber string          `json:"route_number"`
	Delta       decimal.Decimal `json:"delta"`
	Status      Status          `json:"status"`
	UserName    string          `json:"user_name"`
}

// RangeStats aggregates a set of classified records for query responses.
type RangeStats struct {
	TotalDifferences int             `json:"total_differences"`
	Shortages        int             `json:"shortages"`
	Overages         int             `json:"overages"`
	ShortageAmount   decimal.Decimal `json:"shortage_amount"`
	OverageAmount    decimal.Decimal `json:"overage_amount"`
}

// DateRange is an inclusive pair of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from ISO date strings, normalizing both
// ends to midnight UTC so day stepping is exact.
func NewDateRange(startISO, endISO string) (DateRange, error) {
	start, err := time.Parse("2006-01-02", startISO)
	if err != nil {
		return DateRange{}, &ErrValidation{Field: "from", Message: "must be YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", endISO)
	if err != nil {
		return DateRange{}, &ErrValidation{Field: "to", Message: "must be YYYY-MM-DD"}
	}
	return DateRange{Start: start, End: end}, nil
}

// SingleDay returns the range covering exactly one calendar day.
func SingleDay(day time.Time) DateRange {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return DateRange{Start: d, End: d}
}

// Days returns every calendar day in [Start, End] ascending, one entry
// per day. A range with Start after End yields no days rather than an
// error.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
