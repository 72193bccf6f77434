package data

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/model"
	"github.com/udisondev/shire/internal/testutil"
)

func TestSpawnEnemy_BaseStats(t *testing.T) {
	e, err := SpawnEnemy(config.DefaultEnemy(), "orc", 1)
	require.NoError(t, err)

	assert.Equal(t, "Orc Warrior", e.Name())
	assert.Equal(t, model.RankNormal, e.Rank())
	assert.Equal(t, model.BehaviorAggressive, e.Behavior())
	assert.Equal(t, 60, e.Health().Max)
	assert.Equal(t, 15, e.Damage())
	assert.Equal(t, 5, e.Defense())
	assert.Equal(t, int64(35), e.XPReward())
	assert.Equal(t, int64(15), e.GoldReward())
	assert.Empty(t, e.Abilities(), "normal rank has no abilities")
}

func TestSpawnRankedEnemy_Scaling(t *testing.T) {
	tests := []struct {
		name       string
		difficulty string
		level      int
		rank       model.Rank
		wantHealth int
		wantDamage int
	}{
		{"level scaling", "normal", 3, model.RankNormal, 72, 18},
		{"minion", "normal", 1, model.RankMinion, 30, 7},
		{"boss", "normal", 1, model.RankBoss, 150, 37},
		{"hard", "hard", 1, model.RankNormal, 90, 22},
		{"easy elite", "easy", 1, model.RankElite, 45, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := config.DefaultEnemy()
			rules.Difficulty = tt.difficulty

			e, err := SpawnRankedEnemy(rules, "orc", tt.level, tt.rank)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHealth, e.Health().Max)
			assert.Equal(t, tt.wantDamage, e.Damage())
		})
	}
}

func TestSpawnRankedEnemy_AbilitiesByRank(t *testing.T) {
	ids := func(e *model.Enemy) []string {
		var out []string
		for _, a := range e.Abilities() {
			out = append(out, a.ID)
		}
		return out
	}

	rules := config.DefaultEnemy()
	elite, err := SpawnRankedEnemy(rules, "troll", 2, model.RankElite)
	require.NoError(t, err)
	assert.Equal(t, []string{"power_strike"}, ids(elite))

	boss, err := SpawnEnemy(rules, "dragon", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"power_strike", "crushing_blow"}, ids(boss))

	legend, err := SpawnRankedEnemy(rules, "dragon", 5, model.RankLegendary)
	require.NoError(t, err)
	assert.Equal(t, []string{"power_strike", "crushing_blow", "enrage"}, ids(legend))
}

func TestSpawnEnemy_Errors(t *testing.T) {
	rules := config.DefaultEnemy()

	_, err := SpawnEnemy(rules, "balrog", 1)
	assert.ErrorIs(t, err, ErrUnknownEnemy)

	_, err = SpawnEnemy(rules, "goblin", 0)
	assert.Error(t, err)

	rules.Difficulty = "impossible"
	_, err = SpawnEnemy(rules, "goblin", 1)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSpawnEnemy_AmbushTrait(t *testing.T) {
	wolf, err := SpawnEnemy(config.DefaultEnemy(), "wolf", 1)
	require.NoError(t, err)
	assert.True(t, wolf.Ambush())

	orc, err := SpawnEnemy(config.DefaultEnemy(), "orc", 1)
	require.NoError(t, err)
	assert.False(t, orc.Ambush())
}

func TestRandomEnemy(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	rules := config.DefaultEnemy()

	for range 200 {
		e, err := RandomEnemy(rng, rules, 2, 4)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, e.Level(), 2)
		assert.LessOrEqual(t, e.Level(), 4)
		assert.LessOrEqual(t, e.Rank(), model.RankElite)
		if e.TypeID() == "troll" {
			assert.Equal(t, model.RankElite, e.Rank())
		}
	}

	_, err := RandomEnemy(rng, rules, 5, 1)
	assert.Error(t, err)
}

func TestRandomEnemy_Scripted(t *testing.T) {
	tests := []struct {
		name  string
		ints  []int
		level int
		rank  model.Rank
		typ   string
	}{
		{"lowest level minion", []int{0, 0, 1}, 2, model.RankMinion, "orc"},
		{"elite troll", []int{2, 2, 5}, 4, model.RankElite, "troll"},
		{"normal bandit", []int{1, 1, 4}, 3, model.RankNormal, "bandit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := testutil.NewSeqRand()
			rng.PushInts(tt.ints...)

			e, err := RandomEnemy(rng, config.DefaultEnemy(), 2, 4)
			require.NoError(t, err)
			assert.Equal(t, tt.level, e.Level())
			assert.Equal(t, tt.rank, e.Rank())
			assert.Equal(t, tt.typ, e.TypeID())
		})
	}
}

func TestEnemyTypes(t *testing.T) {
	types := EnemyTypes()
	assert.Len(t, types, len(enemyDefs))
	assert.Contains(t, types, "dark_knight")
	assert.IsNonDecreasing(t, types)
}
