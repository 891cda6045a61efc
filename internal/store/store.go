// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"sharewatch/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Snapshots
	GetSnapshot(ctx context.Context, identifier string) (*models.Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error

	// Audit log
	AppendAuditLog(ctx context.Context, entry *models.AuditLogEntry) error
	ListAuditLogs(ctx context.Context, filter AuditFilter) ([]models.AuditLogEntry, error)

	// Lifecycle
	Close() error
}

// AuditFilter represents filters for querying audit-log entries.
type AuditFilter struct {
	Action models.AuditAction
	Limit  int
}
