package model

import (
	"fmt"
	"slices"
)

// Inventory returns a copy of the carried item IDs in order.
func (c *Character) Inventory() []string {
	return slices.Clone(c.inventory)
}

// InventoryCount returns the number of carried items.
func (c *Character) InventoryCount() int {
	return len(c.inventory)
}

// Capacity returns the inventory capacity.
func (c *Character) Capacity() int {
	return c.rules.InventoryCapacity
}

// Equipment returns the equipped item IDs.
func (c *Character) Equipment() Equipment {
	return c.equipment
}

// Equipped returns the item ID in slot ("" when empty).
func (c *Character) Equipped(slot Slot) string {
	return c.equipment.Get(slot)
}

// HasItem reports whether itemID is carried in the inventory.
func (c *Character) HasItem(itemID string) bool {
	return slices.Contains(c.inventory, itemID)
}

// CountItem returns how many copies of itemID are carried.
func (c *Character) CountItem(itemID string) int {
	n := 0
	for _, id := range c.inventory {
		if id == itemID {
			n++
		}
	}
	return n
}

// AddItem appends itemID to the inventory.
func (c *Character) AddItem(itemID string) error {
	if itemID == "" {
		return fmt.Errorf("%w: empty item reference", ErrItemNotFound)
	}
	if len(c.inventory) >= c.rules.InventoryCapacity {
		return fmt.Errorf("%w: capacity %d", ErrInventoryFull, c.rules.InventoryCapacity)
	}
	c.inventory = append(c.inventory, itemID)
	return nil
}

// RemoveItem removes the first copy of itemID from the inventory.
func (c *Character) RemoveItem(itemID string) error {
	idx := slices.Index(c.inventory, itemID)
	if idx < 0 {
		return fmt.Errorf("%w: %q not in inventory", ErrItemNotFound, itemID)
	}
	c.inventory = slices.Delete(c.inventory, idx, idx+1)
	if len(c.inventory) == 0 {
		c.inventory = nil
	}
	return nil
}

// UseItem consumes one carried copy of item and applies its restore.
// Returns the amount actually restored. Buffs are left to the caller.
func (c *Character) UseItem(item *Item) (int, error) {
	if item == nil {
		return 0, fmt.Errorf("%w: nil item", ErrItemNotFound)
	}
	if !c.HasItem(item.ID) {
		return 0, fmt.Errorf("%w: %q not in inventory", ErrItemNotFound, item.ID)
	}
	if !item.Usable() {
		return 0, fmt.Errorf("%w: %s %q has no effect", ErrItemNotUsable, item.Type, item.ID)
	}
	if err := c.RemoveItem(item.ID); err != nil {
		return 0, err
	}
	return c.Restore(item.RestorePool, item.RestoreAmount), nil
}

// Equip moves item from the inventory into its slot. A previously equipped
// item goes back into the inventory. Returns the ID that was swapped out.
func (c *Character) Equip(item *Item) (string, error) {
	if item == nil {
		return "", fmt.Errorf("%w: nil item", ErrItemNotFound)
	}
	slot, ok := item.Slot()
	if !ok {
		return "", fmt.Errorf("%w: %s %q has no equipment slot", ErrEquipmentSlot, item.Type, item.ID)
	}
	if item.LevelRequirement > c.level {
		return "", fmt.Errorf("%w: %q requires level %d, character is %d",
			ErrEquipmentSlot, item.ID, item.LevelRequirement, c.level)
	}

	idx := slices.Index(c.inventory, item.ID)
	if idx < 0 {
		return "", fmt.Errorf("%w: %q not in inventory", ErrItemNotFound, item.ID)
	}

	next := slices.Delete(slices.Clone(c.inventory), idx, idx+1)
	previous := c.equipment.Get(slot)
	if previous != "" {
		if len(next) >= c.rules.InventoryCapacity {
			return "", fmt.Errorf("%w: no room for unequipped %q", ErrInventoryFull, previous)
		}
		next = append(next, previous)
	}

	if len(next) == 0 {
		next = nil
	}
	c.inventory = next
	c.equipment.set(slot, item.ID)
	return previous, nil
}

// Unequip moves the item in slot back into the inventory and returns its ID.
func (c *Character) Unequip(slot Slot) (string, error) {
	if slot < SlotWeapon || slot >= slotCount {
		return "", fmt.Errorf("%w: unknown slot %d", ErrEquipmentSlot, int32(slot))
	}
	itemID := c.equipment.Get(slot)
	if itemID == "" {
		return "", fmt.Errorf("%w: nothing equipped in %s slot", ErrItemNotFound, slot)
	}
	if len(c.inventory) >= c.rules.InventoryCapacity {
		return "", fmt.Errorf("%w: capacity %d", ErrInventoryFull, c.rules.InventoryCapacity)
	}
	c.inventory = append(c.inventory, itemID)
	c.equipment.set(slot, "")
	return itemID, nil
}
