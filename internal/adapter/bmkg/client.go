package bmkg

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/domain"
)

// currentConditionSelector locates the "current weather" label on a BMKG
// prakiraan-cuaca page.
const currentConditionSelector = `.mt-6.md\:mt-0 p.text-black-primary`

// Client implements domain.ForecastFetcher by scraping BMKG forecast pages.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a BMKG scraper. baseURL is the prakiraan-cuaca root, e.g.
// "https://www.bmkg.go.id/cuaca/prakiraan-cuaca".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// FetchForecast fetches the page for an administrative code and returns its
// current condition stamped with the local fetch time. A page without the
// condition block yields an empty condition, not an error.
func (c *Client) FetchForecast(ctx context.Context, code string) (domain.ForecastSnapshot, error) {
	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.ForecastSnapshot{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ForecastSnapshot{}, fmt.Errorf("bmkg request %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.ForecastSnapshot{}, fmt.Errorf("bmkg error: status %d: %s", resp.StatusCode, body)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.ForecastSnapshot{}, fmt.Errorf("parse bmkg page: %w", err)
	}

	condition := ParseCondition(doc)
	if condition == "" {
		// Layout changes show up here first; the row is still served.
		c.logger.Warn("bmkg page without current condition", "code", code)
	}
	return domain.NewForecastSnapshot(condition), nil
}

// ParseCondition extracts the current condition label from a parsed page.
func ParseCondition(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(currentConditionSelector).First().Text())
}
