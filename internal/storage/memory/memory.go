// Package memory is an in-process implementation of storage interface.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/crowdhive/crowdhive/internal/storage"
)

var errNestedTx = errors.New("can not run InTx in tx")

type state struct {
	mu   sync.RWMutex
	tx   sync.Mutex
	data map[string][]byte
}

type memory struct {
	s    *state
	inTx bool
}

// New creates new instance of memory storage.
func New() storage.Storage {
	return memory{
		s: &state{data: make(map[string][]byte)},
	}
}

func (m memory) InTx(ctx context.Context, f func(s storage.Storage) error) error {
	if m.inTx {
		return errNestedTx
	}

	m.s.tx.Lock()
	defer m.s.tx.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return f(memory{s: m.s, inTx: true})
}

func (m memory) Ping(_ context.Context) error {
	return nil
}

func (m memory) Get(_ context.Context, key string) ([]byte, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	v, ok := m.s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (m memory) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.s.mu.Lock()
	m.s.data[key] = v
	m.s.mu.Unlock()

	return nil
}

func (m memory) Delete(_ context.Context, keys ...string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, k := range keys {
		delete(m.s.data, k)
	}

	return nil
}
