// Package store persists study progress.
package store

import (
	"context"
	"fmt"

	"github.com/verte-zerg/drill/internal/model"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store loads and saves progress. Load on a fresh store returns defaults.
type Store interface {
	Load(ctx context.Context) (model.Progress, error)
	Save(ctx context.Context, progress model.Progress) error
	Close() error
}

// Open opens the progress store for backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendJSON:
		return OpenJSON(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown progress backend %q", backend)
	}
}
