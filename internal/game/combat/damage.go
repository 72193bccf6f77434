package combat

import (
	"math"

	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/model"
)

// ItemLookup resolves item IDs to catalog items.
type ItemLookup interface {
	Lookup(id string) (*model.Item, bool)
}

// Hit is the outcome of one damage computation.
type Hit struct {
	Damage   int
	Critical bool
	Dodged   bool
	Blocked  bool // halved by a pending Defend
}

// CritChance is BaseCritChance + luck/100, clamped to [0, 1].
func CritChance(rules config.Combat, luck int) float64 {
	return clamp01(rules.BaseCritChance + float64(luck)/100)
}

// DodgeChance is DodgeBaseChance + agility/100, capped at MaxDodgeChance.
func DodgeChance(rules config.Combat, agility int) float64 {
	return min(clamp01(rules.DodgeBaseChance+float64(agility)/100), rules.MaxDodgeChance)
}

// WeaponDamage returns the equipped weapon's damage or UnarmedDamage when
// nothing resolvable is equipped.
func WeaponDamage(rules config.Combat, c *model.Character, items ItemLookup) int {
	id := c.Equipped(model.SlotWeapon)
	if id == "" || items == nil {
		return rules.UnarmedDamage
	}
	item, ok := items.Lookup(id)
	if !ok {
		return rules.UnarmedDamage
	}
	return item.Damage
}

// EquipmentDefense sums the defense of every equipped item.
func EquipmentDefense(c *model.Character, items ItemLookup) int {
	if items == nil {
		return 0
	}
	total := 0
	for _, id := range c.Equipment().IDs() {
		if item, ok := items.Lookup(id); ok {
			total += item.Defense
		}
	}
	return total
}

// PlayerDefense is equipment defense + vitality/3 + buff defense.
func PlayerDefense(c *model.Character, items ItemLookup, buffDefense int) int {
	return EquipmentDefense(c, items) + c.Stats().Vitality/3 + buffDefense
}

// BaseAttackDamage is max(0, weapon + strength + buff - defense).
func BaseAttackDamage(weapon, strength, buff, defense int) int {
	return max(0, weapon+strength+buff-defense)
}

// RollPlayerAttack applies the crit check on top of BaseAttackDamage.
// Consumes one draw from rng.
func RollPlayerAttack(rules config.Combat, base, luck int, rng model.Rand) Hit {
	if rng.Float64() < CritChance(rules, luck) {
		return Hit{Damage: int(float64(base) * rules.CritMultiplier), Critical: true}
	}
	return Hit{Damage: base}
}

// RollEnemyAttack computes damage against the player: dodge check first,
// then max(0, raw - defense), then the Defend reduction. Consumes one draw
// from rng.
func RollEnemyAttack(rules config.Combat, raw float64, defense, agility int, defending bool, rng model.Rand) Hit {
	if rng.Float64() < DodgeChance(rules, agility) {
		return Hit{Dodged: true}
	}
	dmg := max(0, int(math.Round(raw))-defense)
	if defending {
		return Hit{Damage: int(float64(dmg) * rules.DefendReduction), Blocked: true}
	}
	return Hit{Damage: dmg}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
