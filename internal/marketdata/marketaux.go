package marketdata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"sharewatch/internal/logging"
	"sharewatch/internal/models"
)

const vendorMarketaux = "marketaux"

// MarketauxConfig holds configuration for the Marketaux news client.
type MarketauxConfig struct {
	BaseURL           string
	APIToken          string
	Timeout           time.Duration
	RequestsPerMinute int
}

// MarketauxClient implements NewsClient against the Marketaux news API.
type MarketauxClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewMarketauxClient creates a new Marketaux client.
func NewMarketauxClient(cfg MarketauxConfig, logger zerolog.Logger) *MarketauxClient {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 5
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &MarketauxClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		logger:     logger.With().Str("vendor", vendorMarketaux).Logger(),
	}
}

type newsQuery struct {
	Symbols        string `url:"symbols"`
	FilterEntities bool   `url:"filter_entities"`
	Language       string `url:"language"`
	APIToken       string `url:"api_token"`
}

// FetchNews fetches recent news for a ticker. Any failure is treated as
// "no data" and yields an empty slice.
func (c *MarketauxClient) FetchNews(ctx context.Context, ticker string) ([]models.NewsArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	values, err := query.Values(newsQuery{
		Symbols:        ticker,
		FilterEntities: true,
		Language:       "en",
		APIToken:       c.apiToken,
	})
	if err != nil {
		return []models.NewsArticle{}, nil
	}

	url := c.baseURL + "/v1/news/all?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return []models.NewsArticle{}, nil
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.LogVendorCall(c.logger, vendorMarketaux, "news", 0, time.Since(start), err)
		if isContextError(ctx, err) {
			return nil, err
		}
		return []models.NewsArticle{}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	logging.LogVendorCall(c.logger, vendorMarketaux, "news", resp.StatusCode, time.Since(start), err)
	if err != nil {
		return []models.NewsArticle{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("ticker", ticker).Msg("News fetch returned non-200")
		return []models.NewsArticle{}, nil
	}

	var payload struct {
		Data []models.NewsArticle `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Data == nil {
		return []models.NewsArticle{}, nil
	}
	return payload.Data, nil
}
