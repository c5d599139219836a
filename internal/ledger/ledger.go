// Package ledger is the durable, append-only store of persisted leads. All
// drivers hold the same fixed column schema (model.LedgerHeader); the schema
// is checked on Init and repaired destructively on mismatch, discarding prior
// rows. That reset is a deliberate migration policy, not an error.
package ledger

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/beatfindr/leadscout/internal/config"
	"github.com/beatfindr/leadscout/internal/model"
)

// Store is the ledger contract the scan pipeline consumes.
type Store interface {
	// Init verifies the schema, creating or destructively resetting the
	// backing table/sheet as needed.
	Init(ctx context.Context) error

	// Leads returns every persisted lead in append order.
	Leads(ctx context.Context) ([]model.Lead, error)

	// Append persists the batch in one store call. The store's own write
	// semantics provide batch atomicity; leads are never updated after.
	Append(ctx context.Context, leads []model.Lead) error

	Close() error
}

// Open constructs the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "xlsx":
		return NewXLSX(cfg.Path, cfg.Sheet), nil
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("ledger: unknown driver %q", cfg.Driver)
	}
}

// URLSet extracts the dedup keys of the given leads.
func URLSet(leads []model.Lead) []string {
	urls := make([]string, 0, len(leads))
	for _, l := range leads {
		urls = append(urls, l.URL)
	}
	return urls
}

func headerMatches(got []string) bool {
	if len(got) != len(model.LedgerHeader) {
		return false
	}
	for i, h := range model.LedgerHeader {
		if got[i] != h {
			return false
		}
	}
	return true
}
