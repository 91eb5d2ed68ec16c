package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/eljumillano/deposit-reports-go/internal/domain"
	"github.com/eljumillano/deposit-reports-go/internal/infra/observability"
	"github.com/eljumillano/deposit-reports-go/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type stubFetcher struct {
	payloads map[string]domain.DepositsPayload
}

func (f *stubFetcher) FetchDay(_ context.Context, dayISO string) (domain.DepositsPayload, error) {
	if p, ok := f.payloads[dayISO]; ok {
		return p, nil
	}
	return domain.DepositsPayload{}, &domain.ErrExternalService{Service: "deposits"}
}

type stubArtifacts struct{}

func (stubArtifacts) Download(_ context.Context, _, _, destPath string) {
	_ = os.WriteFile(destPath, nil, 0o644)
}

type stubRenderer struct{}

func (stubRenderer) Render(path, _ string, _ []domain.DepositRecord) error {
	return os.WriteFile(path, []byte("%PDF"), 0o644)
}

type stubMailer struct{ sent int }

func (m *stubMailer) Send(_, _ string, _ []string, _ []string) error {
	m.sent++
	return nil
}

func shortagePayload() domain.DepositsPayload {
	return domain.DepositsPayload{
		Plants: map[string]domain.Plant{
			"jumi": {
				Name: "El Jumillano",
				Deposits: []domain.DepositEntry{
					{
						DepositID:      1,
						UserName:       "RTO 042",
						TotalAmount:    decimal.NewFromInt(80000),
						ExpectedAmount: decimal.NewFromInt(100000),
					},
				},
			},
		},
	}
}

func testRouter(t *testing.T, fetcher *stubFetcher) (http.Handler, *stubMailer) {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	ranges := service.NewRangeService(fetcher, metrics, logger)
	mailer := &stubMailer{}

	dir := t.TempDir()
	job := service.NewReportJob(
		ranges, stubArtifacts{}, stubRenderer{}, mailer, metrics, logger, time.UTC,
		service.JobConfig{
			ReportsDir:       dir,
			RetentionDays:    7,
			MinShortage:      decimal.NewFromInt(10000),
			TotalsEndpoint:   "/api/pdf/totals",
			DetailedEndpoint: "/api/pdf/detailed",
			HREmail:          "rrhh@example.com",
			AdminEmail:       "admin@example.com",
			FromName:         "Reportes",
		},
	)

	router := NewRouter(Deps{
		Job:        job,
		Ranges:     ranges,
		ReportsDir: dir,
		TimeZone:   "America/Argentina/Buenos_Aires",
		Metrics:    metrics,
		Logger:     logger,
	})
	return router, mailer
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t, &stubFetcher{})

	rec := doRequest(t, router, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
	if body["tz"] != "America/Argentina/Buenos_Aires" {
		t.Errorf("unexpected tz %q", body["tz"])
	}
}

func TestDifferencesRange(t *testing.T) {
	fetcher := &stubFetcher{payloads: map[string]domain.DepositsPayload{
		"2025-08-27": shortagePayload(),
		"2025-08-28": shortagePayload(),
	}}
	router, _ := testRouter(t, fetcher)

	rec := doRequest(t, router, http.MethodGet, "/v1/differences?from=2025-08-27&to=2025-08-28")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body differencesResponse
	decodeBody(t, rec, &body)
	if len(body.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(body.Items))
	}
	if body.Stats.TotalDifferences != 2 || body.Stats.Shortages != 2 {
		t.Errorf("unexpected stats: %+v", body.Stats)
	}
	if body.Items[0].RouteNumber != "42" {
		t.Errorf("expected route 42, got %q", body.Items[0].RouteNumber)
	}
}

func TestDifferencesValidation(t *testing.T) {
	router, _ := testRouter(t, &stubFetcher{})

	for _, target := range []string{
		"/v1/differences",
		"/v1/differences?from=2025-08-27",
		"/v1/differences?from=27/08/2025&to=2025-08-28",
		"/v1/differences/summary?from=2025-08-27&to=bad",
	} {
		rec := doRequest(t, router, http.MethodGet, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestDifferencesSummary(t *testing.T) {
	fetcher := &stubFetcher{payloads: map[string]domain.DepositsPayload{
		"2025-08-27": shortagePayload(),
	}}
	router, _ := testRouter(t, fetcher)

	rec := doRequest(t, router, http.MethodGet, "/v1/differences/summary?from=2025-08-27&to=2025-08-27")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body summaryResponse
	decodeBody(t, rec, &body)
	if len(body.Items) != 1 {
		t.Fatalf("expected 1 summary row, got %d", len(body.Items))
	}
	if body.Items[0].Status != domain.StatusShortage {
		t.Errorf("expected shortage status, got %q", body.Items[0].Status)
	}
}

func TestCleanupEndpoint(t *testing.T) {
	router, _ := testRouter(t, &stubFetcher{})

	rec := doRequest(t, router, http.MethodPost, "/v1/reports/cleanup")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status   string `json:"status"`
		DaysKept int    `json:"days_kept"`
	}
	decodeBody(t, rec, &body)
	if body.DaysKept != 7 {
		t.Errorf("expected default 7 days kept, got %d", body.DaysKept)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/reports/cleanup?days_to_keep=90")
	decodeBody(t, rec, &body)
	if body.DaysKept != 30 {
		t.Errorf("expected clamp to 30, got %d", body.DaysKept)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/reports/cleanup?days_to_keep=abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer, got %d", rec.Code)
	}
}

func TestRunDailyJobEndpoint(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	fetcher := &stubFetcher{payloads: map[string]domain.DepositsPayload{
		yesterday: shortagePayload(),
	}}
	router, mailer := testRouter(t, fetcher)

	rec := doRequest(t, router, http.MethodPost, "/v1/jobs/daily")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var outcome domain.JobOutcome
	decodeBody(t, rec, &outcome)
	if outcome.Status != domain.JobStatusOK {
		t.Errorf("expected ok outcome, got %+v", outcome)
	}
	if mailer.sent != 2 {
		t.Errorf("expected 2 emails, got %d", mailer.sent)
	}
}

func TestTestReportEndpoint(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	fetcher := &stubFetcher{payloads: map[string]domain.DepositsPayload{
		yesterday: shortagePayload(),
	}}
	router, mailer := testRouter(t, fetcher)

	rec := doRequest(t, router, http.MethodPost, "/v1/jobs/test-report")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if mailer.sent != 0 {
		t.Errorf("test report must not send email, sent %d", mailer.sent)
	}

	var body struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}
	decodeBody(t, rec, &body)
	if body.Status != "ok" {
		t.Errorf("expected ok, got %q", body.Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := testRouter(t, &stubFetcher{})

	rec := doRequest(t, router, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
