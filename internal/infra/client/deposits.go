// Package client implements the HTTP clients for the external deposits
// source: the per-day data fetch and the pre-rendered report download.
package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/eljumillano/deposit-reports-go/internal/domain"
	"github.com/eljumillano/deposit-reports-go/internal/infra/resilience"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"context"
)

var tracer = otel.Tracer("client")

// DepositsClient fetches one day's deposits-by-plant payload from the
// external source, retrying failed attempts with a uniform delay.
// Retries are unconditional: network errors, non-2xx statuses and
// malformed bodies are all treated the same way. There is deliberately
// no circuit breaker on this path; the retry budget and the per-attempt
// timeout on the injected http.Client are the only bounds.
type DepositsClient struct {
	httpClient *http.Client
	baseURL    string
	endpoint   string
	cfg        resilience.Config
}

// NewDepositsClient creates a new DepositsClient. The http.Client's
// Timeout acts as the per-attempt timeout.
func NewDepositsClient(httpClient *http.Client, baseURL, endpoint string, cfg resilience.Config) *DepositsClient {
	return &DepositsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		endpoint:   endpoint,
		cfg:        cfg,
	}
}

// FetchDay retrieves the raw payload for one calendar day (YYYY-MM-DD).
// After the retry budget is spent the last attempt's error is surfaced
// wrapped in domain.ErrExternalService; the caller decides whether that
// aborts or skips.
func (c *DepositsClient) FetchDay(ctx context.Context, dayISO string) (domain.DepositsPayload, error) {
	ctx, span := tracer.Start(ctx, "DepositsClient.FetchDay")
	defer span.End()
	span.SetAttributes(attribute.String("deposits.day", dayISO))

	var payload domain.DepositsPayload

	err := resilience.RetryFixedDelay(ctx, c.cfg, func() error {
		u := fmt.Sprintf("%s%s?date=%s", c.baseURL, c.endpoint, url.QueryEscape(dayISO))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("deposits API returned status %d", resp.StatusCode)
		}

		// Reset before decoding so a partially-decoded failed attempt
		// cannot leak into the next one.
		payload = domain.DepositsPayload{}
		return json.NewDecoder(resp.Body).Decode(&payload)
	})
	if err != nil {
		return domain.DepositsPayload{}, &domain.ErrExternalService{Service: "deposits", Err: err}
	}

	return payload, nil
}
