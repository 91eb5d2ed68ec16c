// Package service holds the reconciliation core: payload normalization,
// difference classification, range aggregation, retention cleanup and
// the daily report job.
package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/eljumillano/deposit-reports-go/internal/domain"
)

// defaultCurrency applies when the upstream entry omits currency_code.
const defaultCurrency = "ARS"

// routeNumberRe matches the first run of 1-4 digits bounded by word
// boundaries inside a user name, e.g. "119, RTO 119" or "RTO 072".
var routeNumberRe = regexp.MustCompile(`\b\d{1,4}\b`)

// ParseRouteNumber extracts the route number embedded in a user name,
// stripping leading zeros. Returns "" when no number is found.
func ParseRouteNumber(userName string) string {
	m := routeNumberRe.FindString(userName)
	if m == "" {
		return ""
	}
	return strings.TrimLeft(m, "0")
}

// FlattenPayload converts the nested plants → deposits structure into a
// flat record list tagged with the query date. Absent collections are
// treated as empty, absent numbers as zero and absent strings as empty;
// a malformed individual entry never aborts the flattening. Plant keys
// are iterated in sorted order so output is deterministic; deposit order
// within a plant is preserved as received. Delta is computed locally
// from actual and expected; the upstream-reported difference is ignored.
func FlattenPayload(payload domain.DepositsPayload, dayISO string) []domain.DepositRecord {
	if len(payload.Plants) == 0 {
		return nil
	}

	keys := make([]string, 0, len(payload.Plants))
	for k := range payload.Plants {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var records []domain.DepositRecord
	for _, key := range keys {
		plant := payload.Plants[key]
		for _, d := range plant.Deposits {
			currency := d.CurrencyCode
			if currency == "" {
				currency = defaultCurrency
			}

			records = append(records, domain.DepositRecord{
				Date:           dayISO,
				PlantKey:       key,
				PlantName:      plant.Name,
				DepositID:      d.DepositID,
				Identifier:     d.Identifier,
				UserName:       d.UserName,
				RouteNumber:    ParseRouteNumber(d.UserName),
				ActualAmount:   d.TotalAmount,
				ExpectedAmount: d.ExpectedAmount,
				Delta:          d.TotalAmount.Sub(d.ExpectedAmount),
				CurrencyCode:   currency,
				DepositType:    d.DepositType,
				DateTime:       d.DateTime,
				PosName:        d.PosName,
				StationName:    d.StationName,
				HasDifference:  d.HasDifference,
			})
		}
	}

	return records
}
