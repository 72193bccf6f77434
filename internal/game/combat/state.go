package combat

// State is a node of the encounter state machine:
// Start -> (PlayerTurn <-> EnemyTurn) -> Resolution -> {Victory, Defeat, Fled}.
type State int32

const (
	StateStart State = iota
	StatePlayerTurn
	StateEnemyTurn
	StateResolution
	StateVictory
	StateDefeat
	StateFled
)

// String returns state name.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePlayerTurn:
		return "player_turn"
	case StateEnemyTurn:
		return "enemy_turn"
	case StateResolution:
		return "resolution"
	case StateVictory:
		return "victory"
	case StateDefeat:
		return "defeat"
	case StateFled:
		return "fled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the encounter has ended.
func (s State) Terminal() bool {
	return s == StateVictory || s == StateDefeat || s == StateFled
}
