package model

import "fmt"

// LootKind says what a loot entry yields.
type LootKind int32

const (
	LootGold LootKind = iota
	LootExperience
	LootItem
)

// String returns lower-case loot kind name.
func (k LootKind) String() string {
	switch k {
	case LootGold:
		return "gold"
	case LootExperience:
		return "experience"
	case LootItem:
		return "item"
	default:
		return "unknown"
	}
}

// LootEntry is one independent drop: Amount of gold or XP, or one ItemID,
// included with probability Chance.
type LootEntry struct {
	Kind   LootKind
	Amount int64
	ItemID string
	Chance float64
}

// Validate checks the entry is well-formed.
func (e LootEntry) Validate() error {
	if e.Chance < 0 || e.Chance > 1 {
		return fmt.Errorf("loot %s chance %v outside [0, 1]", e.Kind, e.Chance)
	}
	switch e.Kind {
	case LootGold, LootExperience:
		if e.Amount <= 0 {
			return fmt.Errorf("loot %s amount must be positive, got %d", e.Kind, e.Amount)
		}
	case LootItem:
		if e.ItemID == "" {
			return fmt.Errorf("loot item entry without item id")
		}
	default:
		return fmt.Errorf("unknown loot kind %d", int32(e.Kind))
	}
	return nil
}

// LootTable is the list of drops an enemy may yield.
type LootTable []LootEntry

// Loot is the outcome of one loot roll.
type Loot struct {
	Gold       int64
	Experience int64
	Items      []string
}

// Empty reports whether nothing dropped.
func (l Loot) Empty() bool {
	return l.Gold == 0 && l.Experience == 0 && len(l.Items) == 0
}

// Roll draws every entry independently: an entry drops when
// rng.Float64() < Chance. Gold and XP resolve to their fixed amount.
func (t LootTable) Roll(rng Rand) Loot {
	var loot Loot
	for _, e := range t {
		if rng.Float64() >= e.Chance {
			continue
		}
		switch e.Kind {
		case LootGold:
			loot.Gold += e.Amount
		case LootExperience:
			loot.Experience += e.Amount
		case LootItem:
			loot.Items = append(loot.Items, e.ItemID)
		}
	}
	return loot
}
