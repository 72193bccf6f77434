// Package savetest holds the behaviour every save.Store must share.
package savetest

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/shire/internal/save"
)

// RunStoreTests checks a Store implementation. newStore must return an
// empty store that is cleaned up by the test.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) save.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("read empty key", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Read(ctx, save.SaveKey(3))
		assert.ErrorIs(t, err, save.ErrSlotEmpty)
	})

	t.Run("write then read", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Write(ctx, save.SaveKey(3), []byte(`{"a":1}`)))

		got, err := s.Read(ctx, save.SaveKey(3))
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), got)
	})

	t.Run("overwrite replaces record", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Write(ctx, save.SaveKey(1), []byte("first")))
		require.NoError(t, s.Write(ctx, save.SaveKey(1), []byte("second")))

		got, err := s.Read(ctx, save.SaveKey(1))
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("entries of a slot are independent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Write(ctx, save.SaveKey(5), []byte("save")))
		require.NoError(t, s.Write(ctx, save.BackupsKey(5), []byte("history")))

		got, err := s.Read(ctx, save.BackupsKey(5))
		require.NoError(t, err)
		assert.Equal(t, []byte("history"), got)

		require.NoError(t, s.Delete(ctx, save.SaveKey(5)))
		got, err = s.Read(ctx, save.BackupsKey(5))
		require.NoError(t, err)
		assert.Equal(t, []byte("history"), got)
	})

	t.Run("keys ordered", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []save.Key{save.SaveKey(7), save.BackupsKey(3), save.SaveKey(0), save.SaveKey(3)} {
			require.NoError(t, s.Write(ctx, k, []byte("x")))
		}

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []save.Key{save.SaveKey(0), save.BackupsKey(3), save.SaveKey(3), save.SaveKey(7)}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Write(ctx, save.SaveKey(2), []byte("x")))
		require.NoError(t, s.Delete(ctx, save.SaveKey(2)))

		_, err := s.Read(ctx, save.SaveKey(2))
		assert.ErrorIs(t, err, save.ErrSlotEmpty)
		assert.ErrorIs(t, s.Delete(ctx, save.SaveKey(2)), save.ErrSlotEmpty)

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := newStore(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		assert.Error(t, s.Write(cctx, save.SaveKey(1), []byte("x")))
		_, err := s.Read(ctx, save.SaveKey(1))
		assert.ErrorIs(t, err, save.ErrSlotEmpty)
	})
}

// MemStore is an in-memory Store. Fail, when set, is returned by Write.
type MemStore struct {
	Records map[save.Key][]byte
	Fail    error
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{Records: make(map[save.Key][]byte)}
}

func (s *MemStore) Read(ctx context.Context, key save.Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, ok := s.Records[key]
	if !ok {
		return nil, save.ErrSlotEmpty
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemStore) Write(ctx context.Context, key save.Key, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Fail != nil {
		return s.Fail
	}
	s.Records[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemStore) Delete(ctx context.Context, key save.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := s.Records[key]; !ok {
		return save.ErrSlotEmpty
	}
	delete(s.Records, key)
	return nil
}

func (s *MemStore) Keys(ctx context.Context) ([]save.Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []save.Key
	for k := range s.Records {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, save.CompareKeys)
	return keys, nil
}
