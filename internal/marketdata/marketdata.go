// Package marketdata provides clients for the remote vendor APIs.
package marketdata

import (
	"context"

	"sharewatch/internal/models"
)

// Overview is the result of a company-overview fetch. The raw response text
// is preserved for diagnostic display even when no share count was obtained.
type Overview struct {
	Shares    int64
	HasShares bool
	Fields    map[string]any
	Raw       string
}

// CompanyDataClient fetches company data from the primary vendor.
//
// All methods degrade on failure instead of surfacing transport or HTTP
// errors: the overview yields HasShares=false with the raw payload, the
// ancillary calls yield empty slices. Errors are returned only for context
// cancellation.
type CompanyDataClient interface {
	FetchOverview(ctx context.Context, ticker string) (*Overview, error)
	FetchInsiderTransactions(ctx context.Context, ticker string) ([]models.InsiderTransaction, error)
	FetchCorporateActions(ctx context.Context, ticker string) ([]models.CorporateAction, error)
}

// NewsClient fetches news articles from the secondary vendor. Same
// degradation contract as CompanyDataClient.
type NewsClient interface {
	FetchNews(ctx context.Context, ticker string) ([]models.NewsArticle, error)
}
