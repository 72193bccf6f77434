package save_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/shire/internal/save"
	"github.com/udisondev/shire/internal/save/savetest"
)

func TestFileStore(t *testing.T) {
	savetest.RunStoreTests(t, func(t *testing.T) save.Store {
		s, err := save.NewFileStore(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestMemStore(t *testing.T) {
	savetest.RunStoreTests(t, func(t *testing.T) save.Store {
		return savetest.NewMemStore()
	})
}

func TestFileStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "saves")
	s, err := save.NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	require.NoError(t, s.Write(context.Background(), save.SaveKey(0), []byte("x")))
	require.NoError(t, s.Write(context.Background(), save.BackupsKey(0), []byte("y")))
	assert.FileExists(t, filepath.Join(dir, "slot_0.json"))
	assert.FileExists(t, filepath.Join(dir, "slot_0.backups.json"))
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := save.NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, save.SaveKey(1), []byte("ok")))

	// A directory in place of the slot file makes the final rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "slot_4.json"), 0o755))
	assert.Error(t, s.Write(ctx, save.SaveKey(4), []byte("never lands")))

	tmps, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, tmps)

	got, err := s.Read(ctx, save.SaveKey(1))
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got)
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := save.NewFileStore(dir)
	require.NoError(t, err)

	foreign := []string{
		"notes.txt", "slot_x.json", "slot_2-123.tmp", "slot_-1.json",
		"slot_2.backups-99.tmp", "slot_2.extra.json", "slot_2.backups.json.bak",
	}
	for _, name := range foreign {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, s.Write(context.Background(), save.SaveKey(2), []byte("x")))
	require.NoError(t, s.Write(context.Background(), save.BackupsKey(2), []byte("x")))

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []save.Key{save.BackupsKey(2), save.SaveKey(2)}, keys)
}
