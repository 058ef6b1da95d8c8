package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdhive/crowdhive/internal/storage"
)

var ctx = context.Background()

func TestMemory_GetSetDelete(t *testing.T) {
	s := New()

	_, err := s.Get(ctx, "key")
	require.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, s.Set(ctx, "key", []byte(`"value"`)))
	require.NoError(t, s.Set(ctx, "key2", []byte(`2`)))

	v, err := s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, `"value"`, string(v))

	require.NoError(t, s.Delete(ctx, "key", "key2", "unknown"))

	_, err = s.Get(ctx, "key")
	require.True(t, errors.Is(err, storage.ErrNotFound))
	_, err = s.Get(ctx, "key2")
	require.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	s := New()

	b := []byte("abc")
	require.NoError(t, s.Set(ctx, "key", b))
	b[0] = 'x'

	v, err := s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "abc", string(v))

	v[1] = 'x'
	v, err = s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "abc", string(v))
}

func TestMemory_InTx(t *testing.T) {
	s := New()
	require.NoError(t, s.Set(ctx, "counter", []byte{0}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			assert.NoError(t, s.InTx(ctx, func(s storage.Storage) error {
				v, err := s.Get(ctx, "counter")
				if err != nil {
					return err
				}

				return s.Set(ctx, "counter", []byte{v[0] + 1})
			}))
		}()
	}
	wg.Wait()

	v, err := s.Get(ctx, "counter")
	require.NoError(t, err)
	require.EqualValues(t, 50, v[0])
}

func TestMemory_InTx_Nested(t *testing.T) {
	s := New()

	err := s.InTx(ctx, func(s storage.Storage) error {
		return s.InTx(ctx, func(storage.Storage) error { return nil })
	})
	require.True(t, errors.Is(err, errNestedTx))
}

func TestMemory_InTx_Error(t *testing.T) {
	s := New()
	errTest := errors.New("test")

	require.Equal(t, errTest, s.InTx(ctx, func(storage.Storage) error {
		return errTest
	}))

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	require.True(t, errors.Is(s.InTx(cctx, func(storage.Storage) error { return nil }), context.Canceled))
}
