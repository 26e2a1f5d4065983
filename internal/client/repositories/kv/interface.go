// Package kv implements the client's durable key-value store: generic
// get/set-by-name storage with single-entry atomicity, backed by SQLite.
package kv

import "context"

type Repository interface {
	// Get returns the stored value for key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
