package save

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/model"
)

// ItemLookup resolves item IDs against the catalog.
type ItemLookup interface {
	Lookup(id string) (*model.Item, bool)
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now for timestamps and playtime.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithCatalog makes Save and Load reject characters that reference items
// missing from the catalog.
func WithCatalog(items ItemLookup) Option {
	return func(m *Manager) { m.items = items }
}

// Manager saves characters into numbered slots, keeping a bounded history of
// prior snapshots per slot.
//
// Playtime of a slot grows by the wall time since the slot was last loaded,
// saved or restored by this manager, or since the manager was created.
type Manager struct {
	mu        sync.Mutex
	store     Store
	rules     config.Save
	character config.Character
	items     ItemLookup
	now       func() time.Time

	started time.Time
	marks   map[int]time.Time
}

// NewManager creates a manager over store.
func NewManager(store Store, rules config.Save, character config.Character, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		rules:     rules,
		character: character,
		now:       time.Now,
		marks:     make(map[int]time.Time),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.started = m.now()
	return m
}

// Save writes c into slot. A readable current save becomes the newest
// backup; the oldest backup is evicted past MaxBackups. The history is
// written before the save, so a crash in between loses nothing.
func (m *Manager) Save(ctx context.Context, c *model.Character, slot int) (Metadata, error) {
	if err := m.checkSlot(slot); err != nil {
		return Metadata{}, err
	}
	if c == nil {
		return Metadata{}, fmt.Errorf("saving slot %d: %w: nil character", slot, model.ErrInvalidCharacter)
	}
	if err := c.Validate(); err != nil {
		return Metadata{}, fmt.Errorf("saving slot %d: %w", slot, err)
	}
	st := c.State()
	if err := m.checkItems(st); err != nil {
		return Metadata{}, fmt.Errorf("saving slot %d: %w", slot, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	prev, err := m.current(ctx, slot, "overwriting corrupt save")
	if err != nil {
		return Metadata{}, err
	}
	hist, err := m.history(ctx, slot)
	rewrite := false
	switch {
	case errors.Is(err, ErrSerialization):
		slog.Warn("replacing unreadable backup history", "slot", slot, "error", err)
		hist, rewrite = &History{Slot: slot}, true
	case err != nil:
		return Metadata{}, err
	}

	backups := NewBoundedQueue(m.rules.MaxBackups, hist.Backups...)
	if prev != nil && !isNewest(backups, *prev) {
		backups.PushFront(*prev)
		rewrite = true
	}
	if rewrite {
		if err := m.writeHistory(ctx, slot, backups); err != nil {
			return Metadata{}, err
		}
	}

	meta := Metadata{
		Slot:           slot,
		Version:        FormatVersion,
		CharacterName:  st.Name,
		CharacterLevel: st.Level,
		CreatedAt:      now,
		SavedAt:        now,
		SaveCount:      1,
	}
	if prev != nil {
		meta.CreatedAt = prev.Metadata.CreatedAt
		meta.SaveCount = prev.Metadata.SaveCount + 1
		meta.PlaytimeSeconds = prev.Metadata.PlaytimeSeconds
	}
	meta.PlaytimeSeconds += m.elapsed(slot, now)

	next := &Record{Slot: slot, Snapshot: Snapshot{Metadata: meta, Character: st}}
	if err := m.write(ctx, next); err != nil {
		return Metadata{}, err
	}
	m.marks[slot] = now

	slog.Info("game saved",
		"slot", slot,
		"character", st.Name,
		"level", st.Level,
		"save_count", meta.SaveCount,
		"backups", backups.Len())
	return meta, nil
}

// Load reconstructs the character stored in slot. Missing slots return
// ErrSaveNotFound; corrupt ones return an error matching both
// ErrSaveNotFound and ErrSerialization.
func (m *Manager) Load(ctx context.Context, slot int) (*model.Character, Metadata, error) {
	if err := m.checkSlot(slot); err != nil {
		return nil, Metadata{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.read(ctx, slot)
	if err != nil {
		return nil, Metadata{}, err
	}
	c, err := m.restore(rec.Snapshot)
	if err != nil {
		return nil, Metadata{}, corrupt(slot, err)
	}
	m.marks[slot] = m.now()

	slog.Info("game loaded",
		"slot", slot,
		"character", c.Name(),
		"level", c.Level(),
		"playtime", rec.Metadata.Playtime())
	return c, rec.Metadata, nil
}

// ListSlots returns metadata of every slot holding a current save, ordered
// by slot index. Corrupt saves are logged and skipped.
func (m *Manager) ListSlots(ctx context.Context) ([]Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys, err := m.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}

	var metas []Metadata
	for _, key := range keys {
		if key.Entry != EntrySave || key.Slot >= m.rules.Slots {
			continue
		}
		rec, err := m.read(ctx, key.Slot)
		switch {
		case err == nil:
			metas = append(metas, rec.Metadata)
		case errors.Is(err, ErrSerialization):
			slog.Warn("skipping corrupt save slot", "slot", key.Slot, "error", err)
		case errors.Is(err, ErrSaveNotFound):
			// Deleted between listing and reading.
		default:
			return nil, err
		}
	}
	return metas, nil
}

// Backups returns metadata of the backups in slot, newest first. The
// history stays readable when the current save is corrupt or deleted.
func (m *Manager) Backups(ctx context.Context, slot int) ([]Metadata, error) {
	if err := m.checkSlot(slot); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	hist, err := m.history(ctx, slot)
	if err != nil {
		return nil, err
	}
	if len(hist.Backups) == 0 {
		if _, err := m.store.Read(ctx, SaveKey(slot)); errors.Is(err, ErrSlotEmpty) {
			return nil, fmt.Errorf("%w: slot %d", ErrSaveNotFound, slot)
		}
	}

	metas := make([]Metadata, len(hist.Backups))
	for i, b := range hist.Backups {
		metas[i] = b.Metadata
	}
	return metas, nil
}

// RestoreBackup promotes backup index (0 = most recent) to be the current
// save of slot. A readable current save becomes the newest backup, so the
// history length is unchanged; a corrupt one is dropped. The save is written
// before the history, so a crash in between keeps the restored snapshot.
func (m *Manager) RestoreBackup(ctx context.Context, slot, index int) (*model.Character, Metadata, error) {
	if err := m.checkSlot(slot); err != nil {
		return nil, Metadata{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	hist, err := m.history(ctx, slot)
	if err != nil {
		return nil, Metadata{}, err
	}
	backups := NewBoundedQueue(m.rules.MaxBackups, hist.Backups...)
	chosen, ok := backups.Remove(index)
	if !ok {
		return nil, Metadata{}, fmt.Errorf("%w: slot %d has %d backups, index %d",
			ErrBackupNotFound, slot, len(hist.Backups), index)
	}
	if err := chosen.verify(); err != nil {
		return nil, Metadata{}, fmt.Errorf("backup %d: %w", index, corrupt(slot, err))
	}
	c, err := m.restore(chosen)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("backup %d: %w", index, corrupt(slot, err))
	}

	prev, err := m.current(ctx, slot, "dropping corrupt save in favor of backup")
	if err != nil {
		return nil, Metadata{}, err
	}

	now := m.now()
	meta := chosen.Metadata
	meta.Slot = slot
	meta.Version = FormatVersion
	meta.SavedAt = now
	meta.SaveCount = chosen.Metadata.SaveCount + 1
	if prev != nil {
		backups.PushFront(*prev)
		meta.CreatedAt = prev.Metadata.CreatedAt
		meta.SaveCount = prev.Metadata.SaveCount + 1
	}

	next := &Record{Slot: slot, Snapshot: Snapshot{Metadata: meta, Character: chosen.Character}}
	if err := m.write(ctx, next); err != nil {
		return nil, Metadata{}, err
	}
	if err := m.writeHistory(ctx, slot, backups); err != nil {
		return nil, Metadata{}, err
	}
	m.marks[slot] = now

	slog.Info("backup restored",
		"slot", slot,
		"index", index,
		"character", c.Name(),
		"level", c.Level())
	return c, meta, nil
}

// Delete removes the current save of slot. Its backups are kept and can
// still be restored.
func (m *Manager) Delete(ctx context.Context, slot int) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.store.Delete(ctx, SaveKey(slot))
	if errors.Is(err, ErrSlotEmpty) {
		return fmt.Errorf("%w: slot %d", ErrSaveNotFound, slot)
	}
	if err != nil {
		return fmt.Errorf("deleting slot %d: %w", slot, err)
	}
	delete(m.marks, slot)

	slog.Info("save deleted", "slot", slot)
	return nil
}

// Purge removes the current save of slot together with its backups.
func (m *Manager) Purge(ctx context.Context, slot int) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for _, key := range []Key{SaveKey(slot), BackupsKey(slot)} {
		err := m.store.Delete(ctx, key)
		switch {
		case err == nil:
			found = true
		case errors.Is(err, ErrSlotEmpty):
		default:
			return fmt.Errorf("purging %s: %w", key, err)
		}
	}
	if !found {
		return fmt.Errorf("%w: slot %d", ErrSaveNotFound, slot)
	}
	delete(m.marks, slot)

	slog.Info("save purged", "slot", slot)
	return nil
}

func (m *Manager) checkSlot(slot int) error {
	if slot < 0 || slot >= m.rules.Slots {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidSlot, slot, m.rules.Slots)
	}
	return nil
}

func (m *Manager) checkItems(st model.CharacterState) error {
	if m.items == nil {
		return nil
	}
	for _, id := range append(st.Equipment.IDs(), st.Inventory...) {
		if _, ok := m.items.Lookup(id); !ok {
			return fmt.Errorf("%w: %q not in catalog", model.ErrItemNotFound, id)
		}
	}
	return nil
}

// read loads and decodes the current save of slot. Must be called with mu
// held.
func (m *Manager) read(ctx context.Context, slot int) (*Record, error) {
	raw, err := m.store.Read(ctx, SaveKey(slot))
	if errors.Is(err, ErrSlotEmpty) {
		return nil, fmt.Errorf("%w: slot %d", ErrSaveNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %d: %w", slot, err)
	}
	rec, err := decodeRecord(raw, slot)
	if err != nil {
		return nil, corrupt(slot, err)
	}
	return rec, nil
}

// current returns the readable current save of slot, or nil when the slot
// is empty or its save is corrupt. A corrupt save is logged with msg.
func (m *Manager) current(ctx context.Context, slot int, msg string) (*Snapshot, error) {
	rec, err := m.read(ctx, slot)
	switch {
	case err == nil:
		return &rec.Snapshot, nil
	case errors.Is(err, ErrSerialization):
		slog.Warn(msg, "slot", slot, "error", err)
		return nil, nil
	case errors.Is(err, ErrSaveNotFound):
		return nil, nil
	default:
		return nil, err
	}
}

// history loads the backup list of slot. A missing list is empty.
func (m *Manager) history(ctx context.Context, slot int) (*History, error) {
	raw, err := m.store.Read(ctx, BackupsKey(slot))
	if errors.Is(err, ErrSlotEmpty) {
		return &History{Slot: slot}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backups of slot %d: %w", slot, err)
	}
	h, err := decodeHistory(raw, slot)
	if err != nil {
		return nil, fmt.Errorf("backups of slot %d: %w", slot, err)
	}
	return h, nil
}

func (m *Manager) write(ctx context.Context, rec *Record) error {
	raw, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	if err := m.store.Write(ctx, SaveKey(rec.Slot), raw); err != nil {
		return fmt.Errorf("writing slot %d: %w", rec.Slot, err)
	}
	return nil
}

func (m *Manager) writeHistory(ctx context.Context, slot int, backups *BoundedQueue[Snapshot]) error {
	raw, err := encodeHistory(&History{Slot: slot, Backups: backups.Items()})
	if err != nil {
		return err
	}
	if err := m.store.Write(ctx, BackupsKey(slot), raw); err != nil {
		return fmt.Errorf("writing backups of slot %d: %w", slot, err)
	}
	return nil
}

// isNewest reports whether s is already the newest backup, which happens
// when a save was interrupted between writing the history and the save.
func isNewest(backups *BoundedQueue[Snapshot], s Snapshot) bool {
	front, ok := backups.At(0)
	return ok && front.Checksum == s.Checksum && front.Metadata.SaveCount == s.Metadata.SaveCount
}

// restore rebuilds a character from a snapshot, enforcing every character
// invariant and the catalog references.
func (m *Manager) restore(s Snapshot) (*model.Character, error) {
	c, err := model.CharacterFromState(m.character, s.Character)
	if err != nil {
		return nil, err
	}
	if err := m.checkItems(s.Character); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *Manager) elapsed(slot int, now time.Time) int64 {
	mark, ok := m.marks[slot]
	if !ok {
		mark = m.started
	}
	if d := now.Sub(mark); d > 0 {
		return int64(d / time.Second)
	}
	return 0
}

// corrupt marks err as a serialization failure that also reads as a missing
// save to callers that only check ErrSaveNotFound.
func corrupt(slot int, err error) error {
	if errors.Is(err, ErrSerialization) {
		return fmt.Errorf("%w: slot %d: %w", ErrSaveNotFound, slot, err)
	}
	return fmt.Errorf("%w: %w: slot %d: %w", ErrSaveNotFound, ErrSerialization, slot, err)
}
