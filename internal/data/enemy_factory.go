package data

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/model"
)

var enemyTable = buildEnemyTable()

func buildEnemyTable() map[string]*enemyDef {
	table := make(map[string]*enemyDef, len(enemyDefs))
	for i := range enemyDefs {
		table[enemyDefs[i].id] = &enemyDefs[i]
	}
	return table
}

// EnemyTypes returns all known enemy type IDs, sorted.
func EnemyTypes() []string {
	ids := make([]string, 0, len(enemyTable))
	for id := range enemyTable {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DefaultRank returns the rank an enemy type spawns with by default.
func DefaultRank(typeID string) (model.Rank, error) {
	def, ok := enemyTable[typeID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEnemy, typeID)
	}
	return def.rank, nil
}

// SpawnEnemy creates an enemy of typeID at level with its default rank.
func SpawnEnemy(rules config.Enemy, typeID string, level int) (*model.Enemy, error) {
	rank, err := DefaultRank(typeID)
	if err != nil {
		return nil, err
	}
	return SpawnRankedEnemy(rules, typeID, level, rank)
}

// SpawnRankedEnemy creates an enemy of typeID at level and rank.
// Stats scale by (1 + (level-1)*LevelScaling) * rank multiplier * difficulty.
func SpawnRankedEnemy(rules config.Enemy, typeID string, level int, rank model.Rank) (*model.Enemy, error) {
	def, ok := enemyTable[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnemy, typeID)
	}
	if level < 1 {
		return nil, fmt.Errorf("enemy level must be at least 1, got %d", level)
	}
	difficulty, err := rules.DifficultyMultiplier()
	if err != nil {
		return nil, err
	}

	mult := (1 + float64(level-1)*rules.LevelScaling) * rank.Multiplier() * difficulty
	gold := scale64(def.gold, mult)

	loot := make(model.LootTable, 0, len(def.drops)+1)
	for _, d := range def.drops {
		loot = append(loot, model.LootEntry{Kind: model.LootItem, ItemID: d.itemID, Chance: d.chance})
	}
	if gold > 0 {
		// Occasional purse on top of the fixed gold reward.
		loot = append(loot, model.LootEntry{Kind: model.LootGold, Amount: max(1, gold/2), Chance: 0.25})
	}

	enemy, err := model.NewEnemy(model.EnemySpec{
		TypeID:      def.id,
		Name:        def.name,
		Rank:        rank,
		Level:       level,
		Behavior:    def.behavior,
		Health:      max(1, scale(def.health, mult)),
		Damage:      scale(def.damage, mult),
		Defense:     scale(def.defense, mult),
		XPReward:    scale64(def.xp, mult),
		GoldReward:  gold,
		Abilities:   abilitiesFor(rank),
		Loot:        loot,
		Ambush:      def.ambush,
		EnrageBonus: rules.EnrageBonus,
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("enemy spawned",
		"type", typeID,
		"rank", rank,
		"level", level,
		"health", enemy.Health().Max,
		"damage", enemy.Damage(),
		"defense", enemy.Defense())
	return enemy, nil
}

// randomPool is the set of enemies RandomEnemy picks from; troll joins for elites.
var randomPool = []string{"goblin", "orc", "skeleton", "wolf", "bandit"}

// RandomEnemy spawns a random minion, normal or elite enemy with a level
// drawn uniformly from [minLevel, maxLevel].
func RandomEnemy(rng model.Rand, rules config.Enemy, minLevel, maxLevel int) (*model.Enemy, error) {
	if minLevel < 1 || maxLevel < minLevel {
		return nil, fmt.Errorf("invalid level range [%d, %d]", minLevel, maxLevel)
	}
	level := minLevel + rng.IntN(maxLevel-minLevel+1)

	ranks := []model.Rank{model.RankMinion, model.RankNormal, model.RankElite}
	rank := ranks[rng.IntN(len(ranks))]

	pool := randomPool
	if rank == model.RankElite {
		pool = append(slices.Clone(randomPool), "troll")
	}
	return SpawnRankedEnemy(rules, pool[rng.IntN(len(pool))], level, rank)
}

// epsilon absorbs float noise such as 60*1.1 landing just below 66.
const epsilon = 1e-9

func scale(v int, mult float64) int {
	return int(math.Floor(float64(v)*mult + epsilon))
}

func scale64(v int64, mult float64) int64 {
	return int64(math.Floor(float64(v)*mult + epsilon))
}
