package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"sharewatch/internal/models"
)

// Property: For any snapshot, saving it and then looking it up by ticker
// produces an equivalent snapshot (round-trip consistency).
func TestProperty_SnapshotRoundTripConsistency(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_snapshots_property.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	tickerGen := gen.RegexMatch(`[A-Z]{1,6}`)
	sharesGen := gen.Int64Range(1, 20000000000)
	txnCountGen := gen.IntRange(0, 10)

	properties.Property("Snapshot round-trip: save then get produces equivalent data", prop.ForAll(
		func(ticker string, shares int64, txnCount int) bool {
			ctx := context.Background()

			// Unique ticker per run so successive cases never collide
			unique := fmt.Sprintf("%s%d", ticker, time.Now().UnixNano()%100000)

			in := &models.Snapshot{
				Ticker:            unique,
				ISIN:              unique,
				OutstandingShares: &shares,
				Details:           map[string]any{"Name": "Test Corp", "Symbol": unique},
			}
			for i := 0; i < txnCount; i++ {
				in.Transactions = append(in.Transactions, models.InsiderTransaction{
					TransactionDate: "2026-01-02",
					TransactionType: "SELL",
					Shares:          fmt.Sprintf("%d", i*100),
				})
			}

			if err := store.SaveSnapshot(ctx, in); err != nil {
				t.Logf("SaveSnapshot failed: %v", err)
				return false
			}

			out, err := store.GetSnapshot(ctx, unique)
			if err != nil {
				t.Logf("GetSnapshot failed: %v", err)
				return false
			}
			if out == nil {
				t.Logf("snapshot missing after save")
				return false
			}
			if out.Ticker != in.Ticker || out.ISIN != in.ISIN {
				return false
			}
			if out.OutstandingShares == nil || *out.OutstandingShares != shares {
				return false
			}
			if len(out.Transactions) != txnCount {
				return false
			}
			for i, txn := range in.Transactions {
				if out.Transactions[i] != txn {
					return false
				}
			}
			return true
		},
		tickerGen,
		sharesGen,
		txnCountGen,
	))

	// Property: saving twice for the same ticker leaves exactly one row
	// holding the second write's values (full replacement, no merge).
	properties.Property("Snapshot writes are full replacements", prop.ForAll(
		func(ticker string, firstShares, secondShares int64) bool {
			ctx := context.Background()
			unique := fmt.Sprintf("%sR%d", ticker, time.Now().UnixNano()%100000)

			first := &models.Snapshot{
				Ticker:            unique,
				ISIN:              unique,
				OutstandingShares: &firstShares,
				Transactions: []models.InsiderTransaction{
					{TransactionDate: "2026-01-02", TransactionType: "BUY", Shares: "1"},
				},
			}
			second := &models.Snapshot{
				Ticker:            unique,
				ISIN:              unique,
				OutstandingShares: &secondShares,
			}

			if err := store.SaveSnapshot(ctx, first); err != nil {
				return false
			}
			if err := store.SaveSnapshot(ctx, second); err != nil {
				return false
			}

			out, err := store.GetSnapshot(ctx, unique)
			if err != nil || out == nil {
				return false
			}
			if *out.OutstandingShares != secondShares {
				return false
			}
			if len(out.Transactions) != 0 {
				return false
			}

			var count int
			if err := store.db.QueryRow("SELECT COUNT(*) FROM shares WHERE ticker = ?", unique).Scan(&count); err != nil {
				return false
			}
			return count == 1
		},
		tickerGen,
		sharesGen,
		sharesGen,
	))

	properties.TestingRun(t)
}
