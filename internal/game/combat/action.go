package combat

// ActionKind is the closed set of player actions.
type ActionKind int32

const (
	ActionAttack ActionKind = iota
	ActionDefend
	ActionUseItem
	ActionFlee
)

// String returns lower-case action name.
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionUseItem:
		return "use_item"
	case ActionFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// Action is one player input. ItemID is set for ActionUseItem only.
type Action struct {
	Kind   ActionKind
	ItemID string
}

func Attack() Action               { return Action{Kind: ActionAttack} }
func Defend() Action               { return Action{Kind: ActionDefend} }
func Flee() Action                 { return Action{Kind: ActionFlee} }
func UseItem(itemID string) Action { return Action{Kind: ActionUseItem, ItemID: itemID} }
