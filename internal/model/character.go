package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/udisondev/shire/internal/config"
)

// Character is the player character: stat block, resource pools,
// equipment, inventory and progression state.
//
// Every exported mutator either applies completely or returns an error and
// leaves the character untouched.
type Character struct {
	name       string
	class      Class
	level      int
	experience int64
	statPoints int
	stats      Stats

	health  Pool
	mana    Pool
	stamina Pool

	equipment Equipment
	inventory []string
	gold      int64

	rules config.Character
}

// Equipment holds the item IDs in the four equipment slots ("" = empty).
type Equipment struct {
	Weapon    string `json:"weapon,omitempty"`
	Armor     string `json:"armor,omitempty"`
	Shield    string `json:"shield,omitempty"`
	Accessory string `json:"accessory,omitempty"`
}

// Get returns the item ID in slot.
func (e Equipment) Get(slot Slot) string {
	switch slot {
	case SlotWeapon:
		return e.Weapon
	case SlotArmor:
		return e.Armor
	case SlotShield:
		return e.Shield
	case SlotAccessory:
		return e.Accessory
	default:
		return ""
	}
}

func (e *Equipment) set(slot Slot, itemID string) {
	switch slot {
	case SlotWeapon:
		e.Weapon = itemID
	case SlotArmor:
		e.Armor = itemID
	case SlotShield:
		e.Shield = itemID
	case SlotAccessory:
		e.Accessory = itemID
	}
}

// IDs returns the non-empty equipped item IDs in slot order.
func (e Equipment) IDs() []string {
	var ids []string
	for s := SlotWeapon; s < slotCount; s++ {
		if id := e.Get(s); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// NewCharacter creates a level 1 character with class-based starting
// stats and full resource pools.
func NewCharacter(rules config.Character, name string, class Class) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidCharacter)
	}
	if !class.Valid() {
		return nil, fmt.Errorf("%w: unknown class %d", ErrInvalidCharacter, int32(class))
	}

	bonus := class.Bonus()
	return &Character{
		name:  name,
		class: class,
		level: 1,
		stats: Stats{
			Strength:     10 + bonus.Strength,
			Agility:      10 + bonus.Agility,
			Intelligence: 10 + bonus.Intelligence,
			Vitality:     10,
			Luck:         5,
		},
		health:  NewPool(rules.BaseHealth + bonus.Health),
		mana:    NewPool(rules.BaseMana + bonus.Mana),
		stamina: NewPool(rules.BaseStamina + bonus.Stamina),
		rules:   rules,
	}, nil
}

// Name returns character name.
func (c *Character) Name() string { return c.name }

// Class returns character class.
func (c *Character) Class() Class { return c.class }

// Level returns current level.
func (c *Character) Level() int { return c.level }

// Experience returns experience accumulated towards the next level.
func (c *Character) Experience() int64 { return c.experience }

// StatPoints returns unallocated stat points.
func (c *Character) StatPoints() int { return c.statPoints }

// Stats returns a copy of the stat block.
func (c *Character) Stats() Stats { return c.stats }

// Health returns the health pool.
func (c *Character) Health() Pool { return c.health }

// Mana returns the mana pool.
func (c *Character) Mana() Pool { return c.mana }

// Stamina returns the stamina pool.
func (c *Character) Stamina() Pool { return c.stamina }

// Gold returns current gold.
func (c *Character) Gold() int64 { return c.gold }

// Rules returns the progression rules the character was built with.
func (c *Character) Rules() config.Character { return c.rules }

// IsAlive reports whether health is above zero.
func (c *Character) IsAlive() bool { return c.health.Current > 0 }

// Pool returns the named resource pool.
func (c *Character) Pool(kind PoolKind) Pool {
	if p := c.pool(kind); p != nil {
		return *p
	}
	return Pool{}
}

func (c *Character) pool(kind PoolKind) *Pool {
	switch kind {
	case PoolHealth:
		return &c.health
	case PoolMana:
		return &c.mana
	case PoolStamina:
		return &c.stamina
	default:
		return nil
	}
}

// TakeDamage reduces health by max(0, amount), never below zero.
// Returns the damage actually applied and whether the character is defeated.
func (c *Character) TakeDamage(amount int) (int, bool) {
	if amount < 0 {
		amount = 0
	}
	taken := -c.health.add(-amount)
	return taken, c.health.Empty()
}

// Restore raises the named pool by amount, clamped to its max.
// Returns the amount actually restored.
func (c *Character) Restore(kind PoolKind, amount int) int {
	p := c.pool(kind)
	if p == nil || amount <= 0 {
		return 0
	}
	return p.add(amount)
}

// FullRestore refills every resource pool.
func (c *Character) FullRestore() {
	c.health.Current = c.health.Max
	c.mana.Current = c.mana.Max
	c.stamina.Current = c.stamina.Max
}

// AddGold credits gold. Non-positive amounts are ignored.
func (c *Character) AddGold(amount int64) {
	if amount > 0 {
		c.gold += amount
	}
}

// SpendGold debits gold or fails with ErrInsufficientResource.
func (c *Character) SpendGold(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative gold amount %d", amount)
	}
	if amount > c.gold {
		return fmt.Errorf("%w: need %d gold, have %d", ErrInsufficientResource, amount, c.gold)
	}
	c.gold -= amount
	return nil
}

// Clone returns a deep copy.
func (c *Character) Clone() *Character {
	cp := *c
	cp.inventory = slices.Clone(c.inventory)
	return &cp
}

// CharacterState is the flat, serialisable form of a Character.
type CharacterState struct {
	Name       string    `json:"name"`
	Class      Class     `json:"class"`
	Level      int       `json:"level"`
	Experience int64     `json:"experience"`
	StatPoints int       `json:"stat_points"`
	Stats      Stats     `json:"stats"`
	Health     Pool      `json:"health"`
	Mana       Pool      `json:"mana"`
	Stamina    Pool      `json:"stamina"`
	Equipment  Equipment `json:"equipment"`
	Inventory  []string  `json:"inventory"`
	Gold       int64     `json:"gold"`
}

// State returns a snapshot of the character.
func (c *Character) State() CharacterState {
	st := CharacterState{
		Name:       c.name,
		Class:      c.class,
		Level:      c.level,
		Experience: c.experience,
		StatPoints: c.statPoints,
		Stats:      c.stats,
		Health:     c.health,
		Mana:       c.mana,
		Stamina:    c.stamina,
		Equipment:  c.equipment,
		Gold:       c.gold,
	}
	if len(c.inventory) > 0 {
		st.Inventory = slices.Clone(c.inventory)
	}
	return st
}

// CharacterFromState rebuilds a character from a snapshot and checks every
// invariant. Snapshots that break one fail with ErrInvalidCharacter.
func CharacterFromState(rules config.Character, st CharacterState) (*Character, error) {
	c := &Character{
		name:       st.Name,
		class:      st.Class,
		level:      st.Level,
		experience: st.Experience,
		statPoints: st.StatPoints,
		stats:      st.Stats,
		health:     st.Health,
		mana:       st.Mana,
		stamina:    st.Stamina,
		equipment:  st.Equipment,
		gold:       st.Gold,
		rules:      rules,
	}
	if len(st.Inventory) > 0 {
		c.inventory = slices.Clone(st.Inventory)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the character invariants against its rules.
func (c *Character) Validate() error {
	switch {
	case strings.TrimSpace(c.name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidCharacter)
	case !c.class.Valid():
		return fmt.Errorf("%w: unknown class %d", ErrInvalidCharacter, int32(c.class))
	case c.level < 1 || c.level > c.rules.MaxLevel:
		return fmt.Errorf("%w: level %d outside [1, %d]", ErrInvalidCharacter, c.level, c.rules.MaxLevel)
	case c.experience < 0:
		return fmt.Errorf("%w: negative experience", ErrInvalidCharacter)
	case c.level < c.rules.MaxLevel && c.experience >= Threshold(c.rules, c.level):
		return fmt.Errorf("%w: experience %d reaches level %d threshold", ErrInvalidCharacter, c.experience, c.level)
	case c.statPoints < 0:
		return fmt.Errorf("%w: negative stat points", ErrInvalidCharacter)
	case c.gold < 0:
		return fmt.Errorf("%w: negative gold", ErrInvalidCharacter)
	case len(c.inventory) > c.rules.InventoryCapacity:
		return fmt.Errorf("%w: %d items exceed capacity %d", ErrInvalidCharacter, len(c.inventory), c.rules.InventoryCapacity)
	}

	for s := StatStrength; s <= StatLuck; s++ {
		if c.stats.Get(s) < 0 {
			return fmt.Errorf("%w: negative %s", ErrInvalidCharacter, s)
		}
	}
	for k := PoolHealth; k <= PoolStamina; k++ {
		if p := c.Pool(k); !p.valid() {
			return fmt.Errorf("%w: %s %d/%d out of range", ErrInvalidCharacter, k, p.Current, p.Max)
		}
	}
	for _, id := range c.inventory {
		if id == "" {
			return fmt.Errorf("%w: empty item reference in inventory", ErrInvalidCharacter)
		}
	}
	return nil
}
