package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"sharewatch/internal/logging"
	"sharewatch/internal/models"
)

const vendorAlphaVantage = "alphavantage"

// AlphaVantageConfig holds configuration for the Alpha Vantage client.
type AlphaVantageConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
}

// AlphaVantageClient implements CompanyDataClient against the Alpha Vantage
// query API.
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewAlphaVantageClient creates a new Alpha Vantage client.
func NewAlphaVantageClient(cfg AlphaVantageConfig, logger zerolog.Logger) *AlphaVantageClient {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 5 // free-tier limit
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &AlphaVantageClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		logger:     logger.With().Str("vendor", vendorAlphaVantage).Logger(),
	}
}

// queryParams is the fixed query-parameter shape of the Alpha Vantage API.
type queryParams struct {
	Function string `url:"function"`
	Symbol   string `url:"symbol"`
	APIKey   string `url:"apikey"`
}

// FetchOverview fetches the company overview. When SharesOutstanding is
// present it returns the integer-parsed value; otherwise HasShares is false
// and Raw carries the full response text for diagnostic display.
func (c *AlphaVantageClient) FetchOverview(ctx context.Context, ticker string) (*Overview, error) {
	body, status, err := c.get(ctx, "OVERVIEW", ticker)
	if err != nil {
		if isContextError(ctx, err) {
			return nil, err
		}
		return &Overview{Raw: err.Error()}, nil
	}
	if status != http.StatusOK {
		c.logger.Warn().Int("status", status).Str("ticker", ticker).Msg("Overview fetch returned non-200")
		return &Overview{Raw: string(body)}, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("Overview response is not valid JSON")
		return &Overview{Raw: string(body)}, nil
	}

	overview := &Overview{Fields: fields, Raw: string(body)}

	shares, ok := parseShares(fields["SharesOutstanding"])
	if !ok {
		c.logger.Warn().Str("ticker", ticker).Msg("SharesOutstanding field not found in overview")
		return overview, nil
	}

	overview.Shares = shares
	overview.HasShares = true
	return overview, nil
}

// FetchInsiderTransactions fetches insider transactions. Any failure is
// treated as "no data" and yields an empty slice.
func (c *AlphaVantageClient) FetchInsiderTransactions(ctx context.Context, ticker string) ([]models.InsiderTransaction, error) {
	body, status, err := c.get(ctx, "INSIDER_TRANSACTIONS", ticker)
	if err != nil {
		if isContextError(ctx, err) {
			return nil, err
		}
		return []models.InsiderTransaction{}, nil
	}
	if status != http.StatusOK {
		c.logger.Warn().Int("status", status).Str("ticker", ticker).Msg("Insider transactions fetch returned non-200")
		return []models.InsiderTransaction{}, nil
	}

	var payload struct {
		Transactions []models.InsiderTransaction `json:"transactions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Transactions == nil {
		return []models.InsiderTransaction{}, nil
	}
	return payload.Transactions, nil
}

// FetchCorporateActions fetches corporate actions. Same contract shape as
// FetchInsiderTransactions, field name "actions".
func (c *AlphaVantageClient) FetchCorporateActions(ctx context.Context, ticker string) ([]models.CorporateAction, error) {
	body, status, err := c.get(ctx, "CORPORATE_ACTIONS", ticker)
	if err != nil {
		if isContextError(ctx, err) {
			return nil, err
		}
		return []models.CorporateAction{}, nil
	}
	if status != http.StatusOK {
		c.logger.Warn().Int("status", status).Str("ticker", ticker).Msg("Corporate actions fetch returned non-200")
		return []models.CorporateAction{}, nil
	}

	var payload struct {
		Actions []models.CorporateAction `json:"actions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Actions == nil {
		return []models.CorporateAction{}, nil
	}
	return payload.Actions, nil
}

// get issues a rate-limited GET against the query endpoint.
func (c *AlphaVantageClient) get(ctx context.Context, function, ticker string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	values, err := query.Values(queryParams{
		Function: function,
		Symbol:   ticker,
		APIKey:   c.apiKey,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("encoding query: %w", err)
	}

	url := c.baseURL + "/query?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.LogVendorCall(c.logger, vendorAlphaVantage, function, 0, time.Since(start), err)
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	logging.LogVendorCall(c.logger, vendorAlphaVantage, function, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

// parseShares parses the SharesOutstanding field, which the vendor returns
// as a string but may also appear as a JSON number.
func parseShares(v any) (int64, bool) {
	switch val := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return int64(val), true
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// isContextError reports whether err stems from context cancellation, the
// one failure mode that propagates to the caller.
func isContextError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
