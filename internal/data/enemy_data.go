package data

import "github.com/udisondev/shire/internal/model"

// enemyDef is an unscaled enemy template.
type enemyDef struct {
	id       string
	name     string
	rank     model.Rank // default rank when spawned without one
	behavior model.Behavior
	ambush   bool

	health  int
	damage  int
	defense int
	xp      int64
	gold    int64

	drops []dropDef
}

type dropDef struct {
	itemID string
	chance float64
}

var enemyDefs = []enemyDef{
	{
		id: "goblin", name: "Goblin", rank: model.RankNormal, behavior: model.BehaviorCunning,
		health: 30, damage: 8, defense: 2, xp: 15, gold: 8,
		drops: []dropDef{{"goblin_ear", 0.6}, {"health_potion", 0.2}, {"rusty_sword", 0.05}},
	},
	{
		id: "orc", name: "Orc Warrior", rank: model.RankNormal, behavior: model.BehaviorAggressive,
		health: 60, damage: 15, defense: 5, xp: 35, gold: 15,
		drops: []dropDef{{"health_potion", 0.25}, {"short_sword", 0.08}, {"leather_armor", 0.08}},
	},
	{
		id: "skeleton", name: "Skeleton", rank: model.RankNormal, behavior: model.BehaviorAggressive,
		health: 25, damage: 10, defense: 0, xp: 20, gold: 6,
		drops: []dropDef{{"mana_potion", 0.2}, {"wooden_shield", 0.05}},
	},
	{
		id: "wolf", name: "Wild Wolf", rank: model.RankNormal, behavior: model.BehaviorBerserker, ambush: true,
		health: 35, damage: 12, defense: 2, xp: 25, gold: 0,
		drops: []dropDef{{"wolf_pelt", 0.7}},
	},
	{
		id: "bandit", name: "Bandit", rank: model.RankNormal, behavior: model.BehaviorCunning, ambush: true,
		health: 45, damage: 15, defense: 3, xp: 40, gold: 25,
		drops: []dropDef{{"health_potion", 0.3}, {"strength_tonic", 0.1}, {"lucky_charm", 0.05}},
	},
	{
		id: "troll", name: "Cave Troll", rank: model.RankElite, behavior: model.BehaviorDefensive,
		health: 100, damage: 25, defense: 10, xp: 75, gold: 30,
		drops: []dropDef{{"greater_health_potion", 0.3}, {"chainmail", 0.1}},
	},
	{
		id: "dark_knight", name: "Dark Knight", rank: model.RankBoss, behavior: model.BehaviorDefensive,
		health: 150, damage: 35, defense: 12, xp: 150, gold: 80,
		drops: []dropDef{{"tower_shield", 0.2}, {"elven_blade", 0.1}, {"ring_of_warding", 0.1}},
	},
	{
		id: "dragon", name: "Ancient Dragon", rank: model.RankBoss, behavior: model.BehaviorCunning,
		health: 300, damage: 50, defense: 25, xp: 500, gold: 250,
		drops: []dropDef{{"dragon_scale", 1.0}, {"dragon_fang", 0.15}, {"mithril_coat", 0.1}},
	},
}

// abilitiesFor returns the abilities an enemy of the given rank knows.
func abilitiesFor(rank model.Rank) []model.Ability {
	var out []model.Ability
	if rank >= model.RankElite {
		out = append(out, model.Ability{
			ID: "power_strike", Name: "Power Strike",
			Effect: model.EffectDamage, Multiplier: 1.5, Cooldown: 3,
		})
	}
	if rank >= model.RankBoss {
		out = append(out, model.Ability{
			ID: "crushing_blow", Name: "Crushing Blow",
			Effect: model.EffectDamage, Multiplier: 2.0, Cooldown: 5,
		})
	}
	if rank >= model.RankLegendary {
		out = append(out, model.Ability{
			ID: "enrage", Name: "Enrage",
			Effect: model.EffectEnrage, Cooldown: 7,
		})
	}
	return out
}
