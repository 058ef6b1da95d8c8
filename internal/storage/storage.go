// Package storage contains a key-value storage interface.
package storage

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = fmt.Errorf("not found")

// Storage is a local key-value store. Values are JSON documents.
type Storage interface {
	// InTx runs f exclusively against other InTx calls.
	InTx(ctx context.Context, f func(s Storage) error) error
	Ping(ctx context.Context) error

	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
