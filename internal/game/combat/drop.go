package combat

import (
	"errors"
	"log/slog"

	"github.com/udisondev/shire/internal/model"
)

// Rewards is what a victory granted. Items that did not fit into the
// inventory are listed in Overflow and were not added.
type Rewards struct {
	Experience   int64
	Gold         int64
	Items        []string
	Overflow     []string
	LevelsGained []int
}

// grantLoot adds looted items to the inventory in order. Items that do not
// fit are returned as overflow.
func grantLoot(c *model.Character, items []string) (added, overflow []string) {
	for _, id := range items {
		err := c.AddItem(id)
		switch {
		case err == nil:
			added = append(added, id)
		case errors.Is(err, model.ErrInventoryFull):
			overflow = append(overflow, id)
		default:
			slog.Warn("loot item rejected",
				"character", c.Name(),
				"item", id,
				"error", err)
			overflow = append(overflow, id)
		}
	}
	return added, overflow
}
