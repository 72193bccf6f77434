package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/shire/internal/model"
	"github.com/udisondev/shire/internal/testutil"
)

func TestGrantLoot(t *testing.T) {
	tests := []struct {
		name         string
		carried      int
		loot         []string
		wantAdded    []string
		wantOverflow []string
	}{
		{"empty loot", 0, nil, nil, nil},
		{"all fit", 0, []string{"a", "b"}, []string{"a", "b"}, nil},
		{"partial fit keeps order", 48, []string{"a", "b", "c"}, []string{"a", "b"}, []string{"c"}},
		{"inventory full", 50, []string{"a"}, nil, []string{"a"}},
		{"empty id overflows", 0, []string{""}, nil, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := make([]string, tt.carried)
			for i := range inv {
				inv[i] = testutil.Fixtures.Potion.ID
			}
			c := testutil.CharacterWithState(t, func(st *model.CharacterState) { st.Inventory = inv })

			added, overflow := grantLoot(c, tt.loot)

			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantOverflow, overflow)
			assert.Equal(t, tt.carried+len(tt.wantAdded), c.InventoryCount())
		})
	}
}

func TestRewardVictory_LevelsUpAcrossThresholds(t *testing.T) {
	c := testutil.NewCharacter(t, "Sam", model.ClassRanger)
	e := testutil.NewEnemy(t, model.EnemySpec{Health: 1, XPReward: 300, GoldReward: 25})

	r := rewardVictory(c, e, testutil.NewSeqRand())

	// 300 XP crosses the 100 and 150 thresholds with 50 left over.
	assert.Equal(t, int64(300), r.Experience)
	assert.Equal(t, []int{2, 3}, r.LevelsGained)
	assert.Equal(t, 3, c.Level())
	assert.Equal(t, int64(50), c.Experience())
	assert.Equal(t, int64(25), c.Gold())
	assert.Equal(t, 10, c.StatPoints())
	assert.True(t, c.Health().Full())
}

func TestRewardVictory_LootAddsToBaseRewards(t *testing.T) {
	c := testutil.NewCharacter(t, "Sam", model.ClassRogue)
	e := testutil.NewEnemy(t, model.EnemySpec{
		Health:     1,
		XPReward:   10,
		GoldReward: 5,
		Loot: model.LootTable{
			{Kind: model.LootGold, Amount: 3, Chance: 1},
			{Kind: model.LootExperience, Amount: 4, Chance: 1},
			{Kind: model.LootItem, ItemID: testutil.Fixtures.Pelt.ID, Chance: 1},
		},
	})

	r := rewardVictory(c, e, testutil.NewSeqRand())

	assert.Equal(t, Rewards{Experience: 14, Gold: 8, Items: []string{testutil.Fixtures.Pelt.ID}}, r)
	assert.Equal(t, int64(14), c.Experience())
	assert.Equal(t, int64(8), c.Gold())
	assert.True(t, c.HasItem(testutil.Fixtures.Pelt.ID))
}
