package testutil

import (
	"testing"

	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/model"
)

// Items is a map-backed item lookup for tests.
type Items map[string]*model.Item

// Lookup implements the catalog lookup used by combat and save.
func (it Items) Lookup(id string) (*model.Item, bool) {
	item, ok := it[id]
	return item, ok
}

// Fixtures holds shared test data.
var Fixtures = struct {
	Sword       *model.Item
	Shield      *model.Item
	Armor       *model.Item
	Charm       *model.Item
	Potion      *model.Item
	QuickPotion *model.Item
	Tonic       *model.Item
	Pelt        *model.Item
}{
	Sword:       &model.Item{ID: "short_sword", Name: "Short Sword", Type: model.ItemTypeWeapon, Damage: 15},
	Shield:      &model.Item{ID: "wooden_shield", Name: "Wooden Shield", Type: model.ItemTypeArmor, Shield: true, Defense: 3},
	Armor:       &model.Item{ID: "leather_armor", Name: "Leather Armor", Type: model.ItemTypeArmor, Defense: 4},
	Charm:       &model.Item{ID: "lucky_charm", Name: "Lucky Charm", Type: model.ItemTypeAccessory, Defense: 1},
	Potion:      &model.Item{ID: "health_potion", Name: "Health Potion", Type: model.ItemTypePotion, RestorePool: model.PoolHealth, RestoreAmount: 50},
	QuickPotion: &model.Item{ID: "stamina_draught", Name: "Stamina Draught", Type: model.ItemTypePotion, RestorePool: model.PoolStamina, RestoreAmount: 40, Instant: true},
	Tonic:       &model.Item{ID: "strength_tonic", Name: "Strength Tonic", Type: model.ItemTypeConsumable, Buff: model.Buff{Damage: 6, Turns: 2}},
	Pelt:        &model.Item{ID: "wolf_pelt", Name: "Wolf Pelt", Type: model.ItemTypeQuest},
}

// FixtureItems returns a lookup containing every fixture item.
func FixtureItems() Items {
	f := Fixtures
	items := Items{}
	for _, it := range []*model.Item{f.Sword, f.Shield, f.Armor, f.Charm, f.Potion, f.QuickPotion, f.Tonic, f.Pelt} {
		items[it.ID] = it
	}
	return items
}

// NewCharacter creates a fresh character with default rules.
func NewCharacter(tb testing.TB, name string, class model.Class) *model.Character {
	tb.Helper()
	c, err := model.NewCharacter(config.DefaultCharacter(), name, class)
	if err != nil {
		tb.Fatalf("creating character: %v", err)
	}
	return c
}

// CharacterWithState builds a character from a fresh one after mutate has
// edited its state.
func CharacterWithState(tb testing.TB, mutate func(st *model.CharacterState)) *model.Character {
	tb.Helper()
	st := NewCharacter(tb, "Frodo", model.ClassWarrior).State()
	mutate(&st)
	c, err := model.CharacterFromState(config.DefaultCharacter(), st)
	if err != nil {
		tb.Fatalf("building character from state: %v", err)
	}
	return c
}

// NewEnemy builds an enemy from spec, filling Level and TypeID if unset.
func NewEnemy(tb testing.TB, spec model.EnemySpec) *model.Enemy {
	tb.Helper()
	if spec.TypeID == "" {
		spec.TypeID = "dummy"
	}
	if spec.Level == 0 {
		spec.Level = 1
	}
	e, err := model.NewEnemy(spec)
	if err != nil {
		tb.Fatalf("creating enemy: %v", err)
	}
	return e
}
