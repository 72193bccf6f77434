package combat

import (
	"log/slog"

	"github.com/udisondev/shire/internal/model"
)

// rewardVictory rolls loot and credits XP, gold and items to the character.
func rewardVictory(c *model.Character, e *model.Enemy, rng model.Rand) Rewards {
	loot := e.Loot().Roll(rng)

	r := Rewards{
		Experience: e.XPReward() + loot.Experience,
		Gold:       e.GoldReward() + loot.Gold,
	}

	r.LevelsGained = c.GainExperience(r.Experience)
	c.AddGold(r.Gold)
	r.Items, r.Overflow = grantLoot(c, loot.Items)

	slog.Info("victory rewards granted",
		"character", c.Name(),
		"enemy", e.Name(),
		"xp", r.Experience,
		"gold", r.Gold,
		"items", len(r.Items),
		"overflow", len(r.Overflow))

	if len(r.LevelsGained) > 0 {
		slog.Info("character leveled up",
			"character", c.Name(),
			"level", c.Level(),
			"stat_points", c.StatPoints())
	}
	return r
}
