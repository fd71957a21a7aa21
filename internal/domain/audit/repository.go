package audit

import "context"

// Sink is the append-only history store.
type Sink interface {
	// Record fills in ID and Timestamp when they are empty.
	Record(ctx context.Context, e Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, int64, error)
}
