package save_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/model"
	"github.com/udisondev/shire/internal/save"
	"github.com/udisondev/shire/internal/save/savetest"
	"github.com/udisondev/shire/internal/testutil"
)

type fakeClock struct {
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func saveRules(maxBackups int) config.Save {
	r := config.DefaultSave()
	r.MaxBackups = maxBackups
	return r
}

func newManager(t *testing.T, store save.Store, clock *fakeClock, opts ...save.Option) *save.Manager {
	t.Helper()
	opts = append([]save.Option{save.WithClock(clock.Now)}, opts...)
	return save.NewManager(store, saveRules(5), config.DefaultCharacter(), opts...)
}

func adventurer(t *testing.T, gold int64) *model.Character {
	t.Helper()
	f := testutil.Fixtures
	return testutil.CharacterWithState(t, func(st *model.CharacterState) {
		st.Name = "Merry"
		st.Gold = gold
		st.Health.Current = 77
		st.Experience = 40
		st.StatPoints = 2
		st.Equipment.Weapon = f.Sword.ID
		st.Equipment.Shield = f.Shield.ID
		st.Inventory = []string{f.Potion.ID, f.Pelt.ID, f.Potion.ID}
	})
}

func TestManager_RoundTrip(t *testing.T) {
	store, err := save.NewFileStore(t.TempDir())
	require.NoError(t, err)
	clock := newClock()
	m := newManager(t, store, clock, save.WithCatalog(testutil.FixtureItems()))
	ctx := context.Background()

	original := adventurer(t, 42)
	meta, err := m.Save(ctx, original, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.SaveCount)
	assert.Equal(t, "Merry", meta.CharacterName)
	assert.Equal(t, 1, meta.CharacterLevel)
	assert.Equal(t, save.FormatVersion, meta.Version)

	loaded, loadedMeta, err := m.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, original.State(), loaded.State())
	assert.Equal(t, 0, loadedMeta.Slot)
	assert.Equal(t, 1, loadedMeta.SaveCount)
	assert.True(t, clock.now.Equal(loadedMeta.SavedAt))
}

func TestManager_SecondSaveKeepsFirstAsBackup(t *testing.T) {
	m := newManager(t, savetest.NewMemStore(), newClock())
	ctx := context.Background()

	_, err := m.Save(ctx, adventurer(t, 1), 3)
	require.NoError(t, err)
	meta, err := m.Save(ctx, adventurer(t, 2), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.SaveCount)

	backups, err := m.Backups(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
	assert.Equal(t, 1, backups[0].SaveCount)
}

func TestManager_BackupBound(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		t.Run(fmt.Sprintf("max_%d", n), func(t *testing.T) {
			clock := newClock()
			m := save.NewManager(savetest.NewMemStore(), saveRules(n), config.DefaultCharacter(), save.WithClock(clock.Now))
			ctx := context.Background()

			for i := range 12 {
				_, err := m.Save(ctx, adventurer(t, int64(i)), 1)
				require.NoError(t, err)

				backups, err := m.Backups(ctx, 1)
				require.NoError(t, err)
				require.LessOrEqual(t, len(backups), n)
			}

			backups, err := m.Backups(ctx, 1)
			require.NoError(t, err)
			require.Len(t, backups, n)
			for i, b := range backups {
				assert.Equal(t, 11-i, b.SaveCount, "newest first")
			}
		})
	}
}

func TestManager_LoadMissing(t *testing.T) {
	m := newManager(t, savetest.NewMemStore(), newClock())

	_, _, err := m.Load(context.Background(), 6)
	assert.ErrorIs(t, err, save.ErrSaveNotFound)
	assert.NotErrorIs(t, err, save.ErrSerialization)
}

func TestManager_LoadCorrupt(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		corrupt func(raw []byte) []byte
	}{
		{"garbage", func([]byte) []byte { return []byte("not a save") }},
		{"truncated", func(raw []byte) []byte { return raw[:len(raw)/2] }},
		{"tampered", func(raw []byte) []byte {
			return bytes.Replace(raw, []byte(`"gold": 42`), []byte(`"gold": 43`), 1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := savetest.NewMemStore()
			m := newManager(t, store, newClock())
			_, err := m.Save(ctx, adventurer(t, 42), 2)
			require.NoError(t, err)

			store.Records[save.SaveKey(2)] = tt.corrupt(store.Records[save.SaveKey(2)])

			_, _, err = m.Load(ctx, 2)
			assert.ErrorIs(t, err, save.ErrSaveNotFound)
			assert.ErrorIs(t, err, save.ErrSerialization)
		})
	}
}

func TestManager_InvalidSlot(t *testing.T) {
	m := newManager(t, savetest.NewMemStore(), newClock())
	ctx := context.Background()

	for _, slot := range []int{-1, 10, 42} {
		_, err := m.Save(ctx, adventurer(t, 1), slot)
		assert.ErrorIs(t, err, save.ErrInvalidSlot)
		_, _, err = m.Load(ctx, slot)
		assert.ErrorIs(t, err, save.ErrInvalidSlot)
		_, _, err = m.RestoreBackup(ctx, slot, 0)
		assert.ErrorIs(t, err, save.ErrInvalidSlot)
		assert.ErrorIs(t, m.Delete(ctx, slot), save.ErrInvalidSlot)
	}
}

func TestManager_ListSlots(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock())
	ctx := context.Background()

	for _, slot := range []int{5, 1, 2} {
		_, err := m.Save(ctx, adventurer(t, int64(slot)), slot)
		require.NoError(t, err)
	}
	store.Records[save.SaveKey(2)] = []byte("{}")
	store.Records[save.SaveKey(12)] = []byte("outside the configured slots")

	metas, err := m.ListSlots(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, 1, metas[0].Slot)
	assert.Equal(t, 5, metas[1].Slot)
}

func TestManager_RestoreBackup(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock())
	ctx := context.Background()

	for _, gold := range []int64{10, 20, 30} {
		_, err := m.Save(ctx, adventurer(t, gold), 4)
		require.NoError(t, err)
	}

	c, meta, err := m.RestoreBackup(ctx, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), c.Gold())
	assert.Equal(t, 4, meta.SaveCount)

	loaded, _, err := m.Load(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(10), loaded.Gold())

	backups, err := m.Backups(ctx, 4)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, 3, backups[0].SaveCount, "replaced canonical is newest backup")
	assert.Equal(t, 2, backups[1].SaveCount)
}

func TestManager_RestoreBackupPreservesBound(t *testing.T) {
	clock := newClock()
	m := save.NewManager(savetest.NewMemStore(), saveRules(2), config.DefaultCharacter(), save.WithClock(clock.Now))
	ctx := context.Background()

	for i := range 4 {
		_, err := m.Save(ctx, adventurer(t, int64(i)), 0)
		require.NoError(t, err)
	}
	_, _, err := m.RestoreBackup(ctx, 0, 1)
	require.NoError(t, err)

	backups, err := m.Backups(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestManager_RestoreBackupOutOfRange(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock())
	ctx := context.Background()

	_, _, err := m.RestoreBackup(ctx, 4, 0)
	assert.ErrorIs(t, err, save.ErrSaveNotFound)

	_, err = m.Save(ctx, adventurer(t, 1), 4)
	require.NoError(t, err)
	_, err = m.Save(ctx, adventurer(t, 2), 4)
	require.NoError(t, err)
	before := bytes.Clone(store.Records[save.SaveKey(4)])
	history := bytes.Clone(store.Records[save.BackupsKey(4)])

	for _, idx := range []int{-1, 1, 5} {
		_, _, err = m.RestoreBackup(ctx, 4, idx)
		assert.ErrorIs(t, err, save.ErrBackupNotFound)
	}
	assert.Equal(t, before, store.Records[save.SaveKey(4)])
	assert.Equal(t, history, store.Records[save.BackupsKey(4)])
}

func TestManager_Playtime(t *testing.T) {
	clock := newClock()
	m := newManager(t, savetest.NewMemStore(), clock)
	ctx := context.Background()

	clock.Advance(90 * time.Second)
	meta, err := m.Save(ctx, adventurer(t, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(90), meta.PlaytimeSeconds)

	clock.Advance(time.Hour)
	_, _, err = m.Load(ctx, 0)
	require.NoError(t, err)

	clock.Advance(60 * time.Second)
	meta, err = m.Save(ctx, adventurer(t, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(150), meta.PlaytimeSeconds, "time before the load does not count")
	assert.True(t, meta.SavedAt.After(meta.CreatedAt))
}

func TestManager_SaveRejectsUnknownItems(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock(), save.WithCatalog(testutil.FixtureItems()))

	c := testutil.CharacterWithState(t, func(st *model.CharacterState) {
		st.Inventory = []string{"palantir"}
	})

	_, err := m.Save(context.Background(), c, 0)
	assert.ErrorIs(t, err, model.ErrItemNotFound)
	assert.Empty(t, store.Records)
}

func TestManager_WriteFailureKeepsPreviousSave(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock())
	ctx := context.Background()

	_, err := m.Save(ctx, adventurer(t, 5), 0)
	require.NoError(t, err)
	before := bytes.Clone(store.Records[save.SaveKey(0)])

	store.Fail = testutil.ErrSimulated
	_, err = m.Save(ctx, adventurer(t, 6), 0)
	assert.ErrorIs(t, err, testutil.ErrSimulated)
	assert.Equal(t, before, store.Records[save.SaveKey(0)])
	assert.NotContains(t, store.Records, save.BackupsKey(0))

	store.Fail = nil
	c, _, err := m.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), c.Gold())
}

func TestManager_SaveOverCorruptSlot(t *testing.T) {
	store := savetest.NewMemStore()
	store.Records[save.SaveKey(7)] = []byte("garbage")
	m := newManager(t, store, newClock())
	ctx := context.Background()

	meta, err := m.Save(ctx, adventurer(t, 3), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.SaveCount)

	backups, err := m.Backups(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestManager_Delete(t *testing.T) {
	m := newManager(t, savetest.NewMemStore(), newClock())
	ctx := context.Background()

	_, err := m.Save(ctx, adventurer(t, 1), 8)
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, 8))

	_, _, err = m.Load(ctx, 8)
	assert.ErrorIs(t, err, save.ErrSaveNotFound)
	assert.ErrorIs(t, m.Delete(ctx, 8), save.ErrSaveNotFound)
}

func TestManager_DeleteKeepsBackups(t *testing.T) {
	m := newManager(t, savetest.NewMemStore(), newClock())
	ctx := context.Background()

	for _, gold := range []int64{1, 2} {
		_, err := m.Save(ctx, adventurer(t, gold), 8)
		require.NoError(t, err)
	}
	require.NoError(t, m.Delete(ctx, 8))

	metas, err := m.ListSlots(ctx)
	require.NoError(t, err)
	assert.Empty(t, metas)

	backups, err := m.Backups(ctx, 8)
	require.NoError(t, err)
	require.Len(t, backups, 1)

	c, meta, err := m.RestoreBackup(ctx, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Gold())
	assert.Equal(t, 2, meta.SaveCount)

	backups, err = m.Backups(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestManager_Purge(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock())
	ctx := context.Background()

	for _, gold := range []int64{1, 2} {
		_, err := m.Save(ctx, adventurer(t, gold), 8)
		require.NoError(t, err)
	}
	require.NoError(t, m.Purge(ctx, 8))
	assert.Empty(t, store.Records)

	_, err := m.Backups(ctx, 8)
	assert.ErrorIs(t, err, save.ErrSaveNotFound)
	assert.ErrorIs(t, m.Purge(ctx, 8), save.ErrSaveNotFound)
	assert.ErrorIs(t, m.Purge(ctx, -1), save.ErrInvalidSlot)
}

func TestManager_RestoreBackupOverCorruptSave(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock())
	ctx := context.Background()

	for _, gold := range []int64{10, 42} {
		_, err := m.Save(ctx, adventurer(t, gold), 2)
		require.NoError(t, err)
	}
	key := save.SaveKey(2)
	store.Records[key] = bytes.Replace(store.Records[key], []byte(`"gold": 42`), []byte(`"gold": 43`), 1)

	_, _, err := m.Load(ctx, 2)
	require.ErrorIs(t, err, save.ErrSerialization)

	backups, err := m.Backups(ctx, 2)
	require.NoError(t, err)
	require.Len(t, backups, 1)

	c, meta, err := m.RestoreBackup(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), c.Gold())
	assert.Equal(t, 2, meta.SaveCount)

	loaded, _, err := m.Load(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(10), loaded.Gold())

	_, err = m.Save(ctx, adventurer(t, 50), 2)
	require.NoError(t, err)
	backups, err = m.Backups(ctx, 2)
	require.NoError(t, err)
	require.Len(t, backups, 1, "restored save became a backup")
	assert.Equal(t, 2, backups[0].SaveCount)
}

func TestManager_SaveOverCorruptSaveKeepsHistory(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock())
	ctx := context.Background()

	for _, gold := range []int64{10, 20, 42} {
		_, err := m.Save(ctx, adventurer(t, gold), 2)
		require.NoError(t, err)
	}
	store.Records[save.SaveKey(2)] = []byte("garbage")

	meta, err := m.Save(ctx, adventurer(t, 50), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.SaveCount)

	backups, err := m.Backups(ctx, 2)
	require.NoError(t, err)
	require.Len(t, backups, 2, "corrupt save is not kept as a backup")
	assert.Equal(t, 2, backups[0].SaveCount)
	assert.Equal(t, 1, backups[1].SaveCount)

	c, _, err := m.RestoreBackup(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), c.Gold())
}

func TestManager_UnreadableHistory(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock())
	ctx := context.Background()

	for _, gold := range []int64{1, 2} {
		_, err := m.Save(ctx, adventurer(t, gold), 3)
		require.NoError(t, err)
	}
	store.Records[save.BackupsKey(3)] = []byte("garbage")

	_, err := m.Backups(ctx, 3)
	assert.ErrorIs(t, err, save.ErrSerialization)
	_, _, err = m.RestoreBackup(ctx, 3, 0)
	assert.ErrorIs(t, err, save.ErrSerialization)

	c, _, err := m.Load(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.Gold())

	_, err = m.Save(ctx, adventurer(t, 3), 3)
	require.NoError(t, err)
	backups, err := m.Backups(ctx, 3)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, 2, backups[0].SaveCount)
}

// saveWritesFail lets backup history writes through and fails every write of
// a current save.
type saveWritesFail struct {
	*savetest.MemStore
}

func (s saveWritesFail) Write(ctx context.Context, key save.Key, data []byte) error {
	if key.Entry == save.EntrySave {
		return testutil.ErrSimulated
	}
	return s.MemStore.Write(ctx, key, data)
}

func TestManager_InterruptedSaveDoesNotDuplicateBackup(t *testing.T) {
	store := savetest.NewMemStore()
	m := newManager(t, store, newClock())
	ctx := context.Background()

	_, err := m.Save(ctx, adventurer(t, 1), 0)
	require.NoError(t, err)

	interrupted := newManager(t, saveWritesFail{store}, newClock())
	_, err = interrupted.Save(ctx, adventurer(t, 2), 0)
	require.ErrorIs(t, err, testutil.ErrSimulated)

	c, _, err := m.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Gold())

	meta, err := m.Save(ctx, adventurer(t, 3), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.SaveCount)

	backups, err := m.Backups(ctx, 0)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, 1, backups[0].SaveCount)
}
