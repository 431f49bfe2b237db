// Package ports defines the interfaces the domain uses to reach
// infrastructure.
package ports

import "context"

// AssetStore answers whether an artwork asset exists.
type AssetStore interface {
	// Exists reports whether key is present. A non-nil error means the
	// probe itself failed; callers treat it as absence.
	Exists(ctx context.Context, key string) (bool, error)
}
