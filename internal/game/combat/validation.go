package combat

import (
	"errors"
	"fmt"

	"github.com/udisondev/shire/internal/model"
)

var (
	ErrInvalidAction    = errors.New("invalid action")
	ErrEncounterOver    = errors.New("encounter is over")
	ErrEncounterActive  = errors.New("another encounter is active")
	ErrUnknownEncounter = errors.New("unknown encounter")
)

// validateAction checks a player action against the current encounter
// without touching any state. For UseItem it returns the resolved item.
func (enc *Encounter) validateAction(a Action) (*model.Item, error) {
	switch enc.state {
	case StatePlayerTurn:
	case StateVictory, StateDefeat, StateFled:
		return nil, ErrEncounterOver
	default:
		return nil, fmt.Errorf("%w: not the player's turn (%s)", ErrInvalidAction, enc.state)
	}

	switch a.Kind {
	case ActionAttack, ActionDefend:
		return nil, nil

	case ActionFlee:
		if enc.enemy.Rank().BlocksFlee() {
			return nil, fmt.Errorf("%w: cannot flee from %s rank enemy", ErrInvalidAction, enc.enemy.Rank())
		}
		return nil, nil

	case ActionUseItem:
		if !enc.character.HasItem(a.ItemID) {
			return nil, fmt.Errorf("%w: %w: %q not in inventory", ErrInvalidAction, model.ErrItemNotFound, a.ItemID)
		}
		var (
			item *model.Item
			ok   bool
		)
		if enc.items != nil {
			item, ok = enc.items.Lookup(a.ItemID)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %w: %q not in catalog", ErrInvalidAction, model.ErrItemNotFound, a.ItemID)
		}
		if !item.Usable() {
			return nil, fmt.Errorf("%w: %w: %s %q", ErrInvalidAction, model.ErrItemNotUsable, item.Type, item.ID)
		}
		return item, nil

	default:
		return nil, fmt.Errorf("%w: unknown action kind %d", ErrInvalidAction, int32(a.Kind))
	}
}
