// Package lookup orchestrates identifier lookups across the local store and
// the remote vendor APIs.
package lookup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	apperrors "sharewatch/internal/errors"
	"sharewatch/internal/logging"
	"sharewatch/internal/marketdata"
	"sharewatch/internal/models"
	"sharewatch/internal/store"
)

// auditUsername is the fixed audit identity; the tool has no real auth.
const auditUsername = "local"

// Result is the outcome of a lookup.
//
// Snapshot is nil when no usable share count could be obtained; Diagnostic
// then carries the raw vendor payload for display.
type Result struct {
	Snapshot   *models.Snapshot     `json:"snapshot"`
	FromCache  bool                 `json:"from_cache"`
	News       []models.NewsArticle `json:"news,omitempty"`
	Diagnostic string               `json:"diagnostic,omitempty"`
}

// Found reports whether the lookup produced a snapshot.
func (r *Result) Found() bool {
	return r.Snapshot != nil
}

// Service orchestrates lookups: classify the identifier, check the cache,
// fetch from the vendors on a miss, persist, and record the audit trail.
type Service struct {
	store   store.DataStore
	company marketdata.CompanyDataClient
	news    marketdata.NewsClient
	logger  zerolog.Logger
}

// NewService creates a new lookup service. The news client may be nil when
// no news credential is configured.
func NewService(dataStore store.DataStore, company marketdata.CompanyDataClient, news marketdata.NewsClient, logger zerolog.Logger) *Service {
	return &Service{
		store:   dataStore,
		company: company,
		news:    news,
		logger:  logger,
	}
}

// Lookup resolves an identifier to a snapshot, cache-aside.
//
// Digits-only input is rejected before any store or vendor access. A cache
// hit returns the stored snapshot verbatim. On a miss, the four vendor calls
// run concurrently; the snapshot is persisted only when a usable share count
// was obtained.
func (s *Service) Lookup(ctx context.Context, identifier string) (*Result, error) {
	id, kind, err := Classify(identifier)
	if err != nil {
		return nil, err
	}

	logger := logging.WithRequestID(logging.WithTicker(s.logger, id), uuid.NewString())
	logger.Debug().Str("kind", string(kind)).Msg("Lookup started")

	snap, err := s.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "reading cached snapshot")
	}
	if snap != nil {
		logger.Info().Msg("Snapshot served from cache")
		s.audit(ctx, logger, models.ActionSearchTicker, describeSnapshot(snap))
		return &Result{Snapshot: snap, FromCache: true}, nil
	}

	overview, transactions, actions, news, err := s.fetchAll(ctx, id)
	if err != nil {
		return nil, err
	}

	if !overview.HasShares {
		logger.Warn().Msg("No usable share count obtained; nothing persisted")
		return &Result{News: news, Diagnostic: overview.Raw}, nil
	}

	// No ticker-to-ISIN mapping service exists; the identifier serves as both
	snap = &models.Snapshot{
		Ticker:            id,
		ISIN:              id,
		OutstandingShares: &overview.Shares,
		Details:           overview.Fields,
		Transactions:      transactions,
		Actions:           actions,
	}

	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, apperrors.Wrap(err, "persisting snapshot")
	}

	logger.Info().Int64("shares", overview.Shares).Msg("Snapshot fetched and stored")
	s.audit(ctx, logger, models.ActionUpdateDatabase, describeSnapshot(snap))

	return &Result{Snapshot: snap, News: news}, nil
}

// FetchNews fetches news only, for the dedicated news view.
func (s *Service) FetchNews(ctx context.Context, identifier string) ([]models.NewsArticle, error) {
	id, _, err := Classify(identifier)
	if err != nil {
		return nil, err
	}
	if s.news == nil {
		return []models.NewsArticle{}, nil
	}
	return s.news.FetchNews(ctx, id)
}

// AuditLogs lists the recorded audit trail.
func (s *Service) AuditLogs(ctx context.Context, filter store.AuditFilter) ([]models.AuditLogEntry, error) {
	return s.store.ListAuditLogs(ctx, filter)
}

// fetchAll issues the four vendor calls concurrently. They are independent;
// the store write waits on all of them.
func (s *Service) fetchAll(ctx context.Context, ticker string) (*marketdata.Overview, []models.InsiderTransaction, []models.CorporateAction, []models.NewsArticle, error) {
	var (
		overview     *marketdata.Overview
		transactions []models.InsiderTransaction
		actions      []models.CorporateAction
		news         []models.NewsArticle
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview, err = s.company.FetchOverview(gctx, ticker)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.company.FetchInsiderTransactions(gctx, ticker)
		return err
	})
	g.Go(func() error {
		var err error
		actions, err = s.company.FetchCorporateActions(gctx, ticker)
		return err
	})
	g.Go(func() error {
		if s.news == nil {
			news = []models.NewsArticle{}
			return nil
		}
		var err error
		news, err = s.news.FetchNews(gctx, ticker)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, nil, apperrors.Wrap(err, "fetching vendor data")
	}
	return overview, transactions, actions, news, nil
}

// audit records an audit entry, log-and-continue: a failed audit write never
// fails the user-facing lookup.
func (s *Service) audit(ctx context.Context, logger zerolog.Logger, action models.AuditAction, details string) {
	entry := &models.AuditLogEntry{
		Username: auditUsername,
		Action:   action,
		Details:  details,
	}
	if err := s.store.AppendAuditLog(ctx, entry); err != nil {
		logger.Error().Err(err).Str("action", string(action)).Msg("Failed to append audit log entry")
	}
}

func describeSnapshot(snap *models.Snapshot) string {
	shares := "n/a"
	if snap.OutstandingShares != nil {
		shares = fmt.Sprintf("%d", *snap.OutstandingShares)
	}
	return fmt.Sprintf("ticker=%s isin=%s shares=%s", snap.Ticker, snap.ISIN, shares)
}
