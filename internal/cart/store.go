package cart

import "context"

// Store persists cart lines keyed by shopper id. An absent shopper is not an
// error: Get returns no lines and Delete is a no-op. The Manager must not
// assume any particular backing.
type Store interface {
	Get(ctx context.Context, shopper string) ([]Line, error)
	Put(ctx context.Context, shopper string, lines []Line) error
	Delete(ctx context.Context, shopper string) error
}
