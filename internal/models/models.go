// Package models provides domain models for the shares dashboard.
package models

import (
	"encoding/json"
	"time"
)

// AuditAction represents the kind of action recorded in the audit log.
type AuditAction string

const (
	ActionSearchTicker   AuditAction = "Search Ticker"
	ActionUpdateDatabase AuditAction = "Update Database"
)

// Snapshot is the cached record of a single ticker's fetched data.
// There is at most one snapshot per ticker; writes are full replacements.
type Snapshot struct {
	Ticker            string               `json:"ticker"`
	ISIN              string               `json:"isin"`
	OutstandingShares *int64               `json:"outstanding_shares"`
	LastUpdated       time.Time            `json:"last_updated"`
	Details           map[string]any       `json:"details"`
	Transactions      []InsiderTransaction `json:"transactions"`
	Actions           []CorporateAction    `json:"actions"`
}

// InsiderTransaction is a single insider transaction as reported by the
// company-data vendor. Field names mirror the vendor payload.
type InsiderTransaction struct {
	TransactionDate string `json:"transactionDate"`
	TransactionType string `json:"transactionType"`
	Shares          string `json:"shares"`
}

// CorporateAction is a single corporate action as reported by the
// company-data vendor.
type CorporateAction struct {
	ReportDate  string `json:"reportDate"`
	Action      string `json:"corporateAction"`
	Description string `json:"description"`
}

// NewsArticle is a single article from the news vendor.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
	URL         string `json:"url"`
}

// AuditLogEntry is an append-only record of a user action.
// Entries are never updated or deleted after creation.
type AuditLogEntry struct {
	ID        int64       `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Username  string      `json:"username"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
}

// DecodeDetails decodes a cached details blob. Malformed or empty input
// yields an empty map so corrupted rows never break rendering.
func DecodeDetails(blob string) map[string]any {
	if blob == "" {
		return map[string]any{}
	}
	var details map[string]any
	if err := json.Unmarshal([]byte(blob), &details); err != nil || details == nil {
		return map[string]any{}
	}
	return details
}

// DecodeTransactions decodes a cached transactions blob, tolerating
// malformed input.
func DecodeTransactions(blob string) []InsiderTransaction {
	if blob == "" {
		return []InsiderTransaction{}
	}
	var txns []InsiderTransaction
	if err := json.Unmarshal([]byte(blob), &txns); err != nil || txns == nil {
		return []InsiderTransaction{}
	}
	return txns
}

// DecodeActions decodes a cached corporate-actions blob, tolerating
// malformed input.
func DecodeActions(blob string) []CorporateAction {
	if blob == "" {
		return []CorporateAction{}
	}
	var actions []CorporateAction
	if err := json.Unmarshal([]byte(blob), &actions); err != nil || actions == nil {
		return []CorporateAction{}
	}
	return actions
}
