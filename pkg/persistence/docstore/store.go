// Package docstore implements the repositories on top of a key/value document store.
// Each record is kept as one JSON document addressed by collection and id.
package docstore

import (
	"context"
)

// Store is a raw document store. Get returns persistence.ErrNotFound for absent
// documents; Delete of an absent document is not an error.
type Store interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	Put(ctx context.Context, collection, id string, data []byte) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([][]byte, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
