// Package archive stores backup documents outside the database.
package archive

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("archive object not found")

// Sink is a flat key/value object store. Delete of a missing key is not an
// error.
type Sink interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
