package model

import (
	"fmt"
	"strings"
)

// Item is an immutable item definition from the catalog.
// Characters and enemies refer to items by ID only.
type Item struct {
	ID          string
	Name        string
	Type        ItemType
	Rarity      Rarity
	Description string

	Damage  int // weapons
	Defense int // armor, shields, accessories

	RestorePool   PoolKind // potions
	RestoreAmount int

	Buff Buff // consumables

	Shield  bool // armor that occupies the shield slot
	Instant bool // using it does not end the player's turn

	LevelRequirement int
	Value            int // gold price
}

// Buff is a temporary combat modifier granted by a consumable.
type Buff struct {
	Damage  int
	Defense int
	Turns   int
}

// Active reports whether the buff changes anything.
func (b Buff) Active() bool {
	return b.Turns > 0 && (b.Damage != 0 || b.Defense != 0)
}

// ItemType is the closed set of item categories.
type ItemType int32

const (
	ItemTypeWeapon ItemType = iota
	ItemTypeArmor
	ItemTypePotion
	ItemTypeConsumable
	ItemTypeAccessory
	ItemTypeQuest
)

// String returns lower-case item type name.
func (it ItemType) String() string {
	switch it {
	case ItemTypeWeapon:
		return "weapon"
	case ItemTypeArmor:
		return "armor"
	case ItemTypePotion:
		return "potion"
	case ItemTypeConsumable:
		return "consumable"
	case ItemTypeAccessory:
		return "accessory"
	case ItemTypeQuest:
		return "quest"
	default:
		return "unknown"
	}
}

// ParseItemType resolves an item type by name (case-insensitive).
func ParseItemType(name string) (ItemType, error) {
	for it := ItemTypeWeapon; it <= ItemTypeQuest; it++ {
		if strings.EqualFold(name, it.String()) {
			return it, nil
		}
	}
	return 0, fmt.Errorf("unknown item type %q", name)
}

// Rarity is the ordered item rarity tier.
type Rarity int32

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

// String returns lower-case rarity name.
func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// ParseRarity resolves a rarity by name (case-insensitive). Empty means common.
func ParseRarity(name string) (Rarity, error) {
	if name == "" {
		return RarityCommon, nil
	}
	for r := RarityCommon; r <= RarityLegendary; r++ {
		if strings.EqualFold(name, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rarity %q", name)
}

// Slot is one of the four equipment slots.
type Slot int32

const (
	SlotWeapon Slot = iota
	SlotArmor
	SlotShield
	SlotAccessory
	slotCount
)

// String returns lower-case slot name.
func (s Slot) String() string {
	switch s {
	case SlotWeapon:
		return "weapon"
	case SlotArmor:
		return "armor"
	case SlotShield:
		return "shield"
	case SlotAccessory:
		return "accessory"
	default:
		return "unknown"
	}
}

// ParseSlot resolves a slot by name (case-insensitive).
func ParseSlot(name string) (Slot, error) {
	for s := SlotWeapon; s < slotCount; s++ {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown slot %q", ErrEquipmentSlot, name)
}

// Slot returns the equipment slot the item occupies.
// Potions, consumables and quest items have none.
func (it *Item) Slot() (Slot, bool) {
	switch it.Type {
	case ItemTypeWeapon:
		return SlotWeapon, true
	case ItemTypeArmor:
		if it.Shield {
			return SlotShield, true
		}
		return SlotArmor, true
	case ItemTypeAccessory:
		return SlotAccessory, true
	default:
		return 0, false
	}
}

// Usable reports whether the item can be consumed in or out of combat.
func (it *Item) Usable() bool {
	switch it.Type {
	case ItemTypePotion:
		return it.RestoreAmount > 0
	case ItemTypeConsumable:
		return it.Buff.Active() || it.RestoreAmount > 0
	default:
		return false
	}
}
