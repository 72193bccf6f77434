package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/model"
	"github.com/udisondev/shire/internal/save"
	"github.com/udisondev/shire/internal/save/savetest"
	"github.com/udisondev/shire/internal/testutil"
)

func TestPostgresStore(t *testing.T) {
	savetest.RunStoreTests(t, func(t *testing.T) save.Store {
		return NewPostgresStore(setupPostgres(t))
	})
}

func TestPostgresStore_SaveManager(t *testing.T) {
	pool := setupPostgres(t)
	ctx := testutil.ContextWithTimeout(t, defaultTimeout)

	m := save.NewManager(NewPostgresStore(pool), config.DefaultSave(), config.DefaultCharacter())
	hero := testutil.CharacterWithState(t, func(st *model.CharacterState) { st.Gold = 99 })

	for range 3 {
		_, err := m.Save(ctx, hero, 3)
		require.NoError(t, err)
	}

	loaded, meta, err := m.Load(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, hero.State(), loaded.State())
	assert.Equal(t, 3, meta.SaveCount)

	backups, err := m.Backups(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	setupPostgres(t)
	ctx := context.Background()

	dsn := pgDB.Pool().Config().ConnString()
	assert.NoError(t, RunMigrations(ctx, dsn))
}
