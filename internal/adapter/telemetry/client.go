package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/domain"
)

// Client fetches the water-level dashboard and extracts its station list.
// It implements pipeline.ObservationSource.
type Client struct {
	httpClient *http.Client
	url        string
	extractor  *Extractor
	logger     *slog.Logger
}

// NewClient creates a telemetry dashboard client for pageURL.
func NewClient(pageURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:       pageURL,
		extractor: NewExtractor(),
		logger:    logger,
	}
}

// FetchObservations downloads the dashboard page and returns every station
// list item on it.
func (c *Client) FetchObservations(ctx context.Context) ([]domain.RawObservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telemetry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("telemetry error: status %d: %s", resp.StatusCode, body)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse telemetry page: %w", err)
	}

	obs := c.extractor.Extract(doc)
	c.logger.Debug("telemetry page extracted", "items", len(obs))
	return obs, nil
}
