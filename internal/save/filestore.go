package save

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	slotPrefix = "slot_"
	slotSuffix = ".json"
)

// FileStore keeps each record in its own JSON file under a directory:
// slot_<n>.json for the current save and slot_<n>.backups.json for its
// history.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string { return s.dir }

func fileBase(key Key) string {
	base := slotPrefix + strconv.Itoa(key.Slot)
	if key.Entry != EntrySave {
		base += "." + string(key.Entry)
	}
	return base
}

func (s *FileStore) path(key Key) string {
	return filepath.Join(s.dir, fileBase(key)+slotSuffix)
}

// parseFileName is the inverse of path. Unknown names report false.
func parseFileName(name string) (Key, bool) {
	name, ok := strings.CutPrefix(name, slotPrefix)
	if !ok {
		return Key{}, false
	}
	name, ok = strings.CutSuffix(name, slotSuffix)
	if !ok {
		return Key{}, false
	}
	num, entry, hasEntry := strings.Cut(name, ".")
	slot, err := strconv.Atoi(num)
	if err != nil || slot < 0 {
		return Key{}, false
	}
	switch {
	case !hasEntry:
		return SaveKey(slot), true
	case Entry(entry) == EntryBackups:
		return BackupsKey(slot), true
	default:
		return Key{}, false
	}
}

func (s *FileStore) Read(ctx context.Context, key Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return raw, nil
}

// Write stores data in a temp file next to the target, syncs it and renames
// it over the target. The temp file is removed on any failure.
func (s *FileStore) Write(ctx context.Context, key Key, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, fileBase(key)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}
	defer func() {
		if err == nil {
			return
		}
		tmp.Close()
		if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			slog.Warn("removing temp save file", "path", tmp.Name(), "error", rmErr)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err = os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}

	s.syncDir()
	return nil
}

// syncDir flushes the rename to disk. Failure only weakens durability, so
// it is logged and ignored.
func (s *FileStore) syncDir() {
	d, err := os.Open(s.dir)
	if err != nil {
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		slog.Debug("syncing save dir", "dir", s.dir, "error", err)
	}
}

func (s *FileStore) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrSlotEmpty
	}
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Keys(ctx context.Context) ([]Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing save dir %s: %w", s.dir, err)
	}

	var keys []Key
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := parseFileName(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, CompareKeys)
	return keys, nil
}
