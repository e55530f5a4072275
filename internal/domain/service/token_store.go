package service

import "context"

// TokenStore persists the bearer token between runs.
// Load returns an empty string without error when no token is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error

	// Close releases any resources held by the store
	Close() error
}
