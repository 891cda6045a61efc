// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sharewatch/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single-user tool, but keep a small pool so audit writes never block reads
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Shares table: one snapshot row per ticker
	CREATE TABLE IF NOT EXISTS shares (
		ticker TEXT PRIMARY KEY,
		isin TEXT,
		outstanding_shares INTEGER,
		last_updated DATE NOT NULL,
		details TEXT,
		transactions TEXT,
		actions TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Audit log table: append-only record of user actions
	CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		username TEXT NOT NULL,
		action TEXT NOT NULL,
		details TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_shares_isin ON shares(isin);
	CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetSnapshot retrieves the snapshot whose ticker or ISIN equals the
// uppercased identifier. Returns (nil, nil) when no row matches.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, identifier string) (*models.Snapshot, error) {
	identifier = strings.ToUpper(strings.TrimSpace(identifier))

	var snap models.Snapshot
	var shares sql.NullInt64
	var details, transactions, actions sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT ticker, isin, outstanding_shares, last_updated, details, transactions, actions
		FROM shares
		WHERE UPPER(ticker) = ? OR UPPER(isin) = ?
	`, identifier, identifier).Scan(&snap.Ticker, &snap.ISIN, &shares, &snap.LastUpdated, &details, &transactions, &actions)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	if shares.Valid {
		snap.OutstandingShares = &shares.Int64
	}

	// Blobs are decoded defensively: a corrupted row yields empty structures
	snap.Details = models.DecodeDetails(details.String)
	snap.Transactions = models.DecodeTransactions(transactions.String)
	snap.Actions = models.DecodeActions(actions.String)

	return &snap, nil
}

// SaveSnapshot inserts or fully replaces the row for the snapshot's ticker.
// LastUpdated is set to the current date.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	details, _ := json.Marshal(snapshot.Details)
	transactions, _ := json.Marshal(snapshot.Transactions)
	actions, _ := json.Marshal(snapshot.Actions)

	var shares interface{}
	if snapshot.OutstandingShares != nil {
		shares = *snapshot.OutstandingShares
	}

	now := time.Now()
	snapshot.LastUpdated = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shares (ticker, isin, outstanding_shares, last_updated, details, transactions, actions)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, snapshot.Ticker, snapshot.ISIN, shares, snapshot.LastUpdated, string(details), string(transactions), string(actions))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// AppendAuditLog inserts a new audit row. Entries are append-only.
func (s *SQLiteStore) AppendAuditLog(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (timestamp, username, action, details)
		VALUES (?, ?, ?, ?)
	`, entry.Timestamp.Format(time.RFC3339), entry.Username, string(entry.Action), entry.Details)
	if err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// ListAuditLogs retrieves audit rows in insertion order.
func (s *SQLiteStore) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]models.AuditLogEntry, error) {
	query := "SELECT id, timestamp, username, action, details FROM audit_logs WHERE 1=1"
	args := []interface{}{}

	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, string(filter.Action))
	}

	query += " ORDER BY id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var e models.AuditLogEntry
		var ts, action string
		if err := rows.Scan(&e.ID, &ts, &e.Username, &action, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		e.Action = models.AuditAction(action)
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			e.Timestamp = parsed
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
