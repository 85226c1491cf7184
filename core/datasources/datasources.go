package datasources

import (
	"context"

	"github.com/gaze-network/near-indexer/internal/subscription"
)

// Datasource is an interface for indexer data sources.
type Datasource[T any] interface {
	Name() string
	// Fetch returns every item in [from, to]. A negative to means "up to the latest available".
	Fetch(ctx context.Context, from, to int64) ([]T, error)
	// FetchAsync streams items in ascending order. Done is closed after the last item is delivered.
	FetchAsync(ctx context.Context, from, to int64, ch chan<- []T) (*subscription.ClientSubscription[[]T], error)
}
