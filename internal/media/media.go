// Package media is the asset store used by catalog management for product
// imagery. The production implementation is S3-compatible object storage;
// tests substitute an in-memory Store.
package media

import "context"

// Asset describes a stored object.
type Asset struct {
	ID     string
	URL    string
	Format string
}

// Store uploads and removes binary assets.
type Store interface {
	Upload(ctx context.Context, data []byte, folder, filename string) (Asset, error)
	Delete(ctx context.Context, id string) error
}
