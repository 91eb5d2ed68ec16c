package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/eljumillano/deposit-reports-go/internal/domain"
	"github.com/eljumillano/deposit-reports-go/internal/infra/observability"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ArtifactClient downloads pre-rendered report files from the external
// source. A failed download never propagates: the client logs it, counts
// it, and leaves a zero-byte placeholder at the destination so later
// steps (email attachment, retention cleanup) keep working.
type ArtifactClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewArtifactClient creates a new ArtifactClient.
func NewArtifactClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, metrics *observability.Metrics, logger *zap.Logger) *ArtifactClient {
	return &ArtifactClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		metrics:    metrics,
		logger:     logger,
	}
}

// Download fetches endpoint?date=MM-DD-YYYY and writes the body to
// destPath. The external report endpoints take the date flipped, unlike
// the data fetch.
func (c *ArtifactClient) Download(ctx context.Context, endpoint, dayISO, destPath string) {
	ctx, span := tracer.Start(ctx, "ArtifactClient.Download")
	defer span.End()

	if err := c.download(ctx, endpoint, dayISO, destPath); err != nil {
		fetchErr := &domain.ErrArtifactFetch{Endpoint: endpoint, Err: err}
		c.logger.Warn("artifact download failed, writing placeholder",
			zap.String("endpoint", endpoint),
			zap.String("day", dayISO),
			zap.Error(fetchErr),
		)
		c.metrics.IncrExternalError("artifacts")

		if werr := os.WriteFile(destPath, []byte{}, 0o644); werr != nil {
			c.logger.Error("could not write placeholder artifact",
				zap.String("path", destPath),
				zap.Error(werr),
			)
		}
	}
}

func (c *ArtifactClient) download(ctx context.Context, endpoint, dayISO, destPath string) error {
	day, err := time.Parse("2006-01-02", dayISO)
	if err != nil {
		return err
	}

	body, err := c.cb.Execute(func() (any, error) {
		u := fmt.Sprintf("%s%s?date=%s", c.baseURL, endpoint, url.QueryEscape(day.Format("01-02-2006")))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("artifact endpoint returned status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}

	return os.WriteFile(destPath, body.([]byte), 0o644)
}
