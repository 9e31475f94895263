// Package store keeps enrichment reports for the lifetime of the process so
// the web layer can serve downloads by ID.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-enricher/internal/model"
)

// ErrNotFound is returned when no report exists for an ID.
var ErrNotFound = eris.New("store: report not found")

// Store defines report persistence for a session.
type Store interface {
	Put(ctx context.Context, r *model.Report) error
	Get(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context, limit int) ([]ReportInfo, error)
	Delete(ctx context.Context, id string) error
	// Prune deletes reports created before now minus maxAge and returns how
	// many were removed.
	Prune(ctx context.Context, maxAge time.Duration) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// ReportInfo is the listing view of a stored report.
type ReportInfo struct {
	ID        string    `json:"id"`
	Directive string    `json:"directive"`
	Rows      int       `json:"rows"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
}
