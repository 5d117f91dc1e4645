package metadata

import (
	"context"
)

// Repository stores opaque values by key. Set overwrites.
type Repository interface {
	// Lookup reports whether key is present. A present key may hold an empty value.
	Lookup(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
