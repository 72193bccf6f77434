package model

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Rank is the ordered enemy tier.
type Rank int32

const (
	RankMinion Rank = iota
	RankNormal
	RankElite
	RankBoss
	RankLegendary
)

var rankMultipliers = [...]float64{
	RankMinion:    0.5,
	RankNormal:    1.0,
	RankElite:     1.5,
	RankBoss:      2.5,
	RankLegendary: 5.0,
}

// Multiplier returns the stat multiplier applied to enemies of this rank.
func (r Rank) Multiplier() float64 {
	if r < RankMinion || r > RankLegendary {
		return 1
	}
	return rankMultipliers[r]
}

// BlocksFlee reports whether the player is denied escape from this rank.
func (r Rank) BlocksFlee() bool {
	return r >= RankBoss
}

// String returns lower-case rank name.
func (r Rank) String() string {
	switch r {
	case RankMinion:
		return "minion"
	case RankNormal:
		return "normal"
	case RankElite:
		return "elite"
	case RankBoss:
		return "boss"
	case RankLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// ParseRank resolves a rank by name (case-insensitive).
func ParseRank(name string) (Rank, error) {
	for r := RankMinion; r <= RankLegendary; r++ {
		if strings.EqualFold(name, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", name)
}

// Behavior selects the enemy's decision policy.
type Behavior int32

const (
	BehaviorAggressive Behavior = iota
	BehaviorDefensive
	BehaviorBerserker
	BehaviorCunning
)

// String returns lower-case behavior name.
func (b Behavior) String() string {
	switch b {
	case BehaviorAggressive:
		return "aggressive"
	case BehaviorDefensive:
		return "defensive"
	case BehaviorBerserker:
		return "berserker"
	case BehaviorCunning:
		return "cunning"
	default:
		return "unknown"
	}
}

// ParseBehavior resolves a behavior by name (case-insensitive).
func ParseBehavior(name string) (Behavior, error) {
	for b := BehaviorAggressive; b <= BehaviorCunning; b++ {
		if strings.EqualFold(name, b.String()) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown behavior %q", name)
}

// AbilityEffect is what an ability does when used.
type AbilityEffect int32

const (
	// EffectDamage hits the opponent for base damage times Multiplier.
	EffectDamage AbilityEffect = iota
	// EffectEnrage permanently raises the user's damage for the encounter.
	EffectEnrage
)

// Ability is a special move with a cooldown measured in enemy turns.
type Ability struct {
	ID         string
	Name       string
	Effect     AbilityEffect
	Multiplier float64
	Cooldown   int
}

// AbilityStatus is an ability together with its remaining cooldown.
type AbilityStatus struct {
	Ability
	Remaining int
}

// Ready reports whether the ability can be used this turn.
func (a AbilityStatus) Ready() bool {
	return a.Remaining == 0
}

// EnemySpec carries the already scaled values an Enemy is built from.
type EnemySpec struct {
	TypeID      string
	Name        string
	Rank        Rank
	Level       int
	Behavior    Behavior
	Health      int
	Damage      int
	Defense     int
	XPReward    int64
	GoldReward  int64
	Abilities   []Ability
	Loot        LootTable
	Ambush      bool
	EnrageBonus float64
}

// Enemy is a combat opponent. It lives for one encounter and is never
// persisted.
type Enemy struct {
	typeID   string
	name     string
	rank     Rank
	level    int
	behavior Behavior

	health  Pool
	damage  int
	defense int

	xpReward   int64
	goldReward int64

	abilities []AbilityStatus
	loot      LootTable
	ambush    bool

	enrageBonus float64
	enraged     bool
	defending   bool
}

// NewEnemy builds an enemy at full health with every ability ready.
func NewEnemy(spec EnemySpec) (*Enemy, error) {
	switch {
	case spec.TypeID == "":
		return nil, fmt.Errorf("%w: empty type id", ErrInvalidEnemy)
	case spec.Level < 1:
		return nil, fmt.Errorf("%w: %s level %d", ErrInvalidEnemy, spec.TypeID, spec.Level)
	case spec.Health <= 0:
		return nil, fmt.Errorf("%w: %s health %d", ErrInvalidEnemy, spec.TypeID, spec.Health)
	case spec.Damage < 0 || spec.Defense < 0:
		return nil, fmt.Errorf("%w: %s negative damage or defense", ErrInvalidEnemy, spec.TypeID)
	case spec.XPReward < 0 || spec.GoldReward < 0:
		return nil, fmt.Errorf("%w: %s negative reward", ErrInvalidEnemy, spec.TypeID)
	}

	abilities := make([]AbilityStatus, 0, len(spec.Abilities))
	seen := make(map[string]struct{}, len(spec.Abilities))
	for _, a := range spec.Abilities {
		if a.ID == "" || a.Cooldown < 0 {
			return nil, fmt.Errorf("%w: %s ability %q malformed", ErrInvalidEnemy, spec.TypeID, a.ID)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("%w: %s duplicate ability %q", ErrInvalidEnemy, spec.TypeID, a.ID)
		}
		seen[a.ID] = struct{}{}
		abilities = append(abilities, AbilityStatus{Ability: a})
	}
	for _, e := range spec.Loot {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidEnemy, spec.TypeID, err)
		}
	}

	name := spec.Name
	if name == "" {
		name = spec.TypeID
	}

	return &Enemy{
		typeID:      spec.TypeID,
		name:        name,
		rank:        spec.Rank,
		level:       spec.Level,
		behavior:    spec.Behavior,
		health:      NewPool(spec.Health),
		damage:      spec.Damage,
		defense:     spec.Defense,
		xpReward:    spec.XPReward,
		goldReward:  spec.GoldReward,
		abilities:   abilities,
		loot:        slices.Clone(spec.Loot),
		ambush:      spec.Ambush,
		enrageBonus: spec.EnrageBonus,
	}, nil
}

func (e *Enemy) TypeID() string          { return e.typeID }
func (e *Enemy) Name() string            { return e.name }
func (e *Enemy) Rank() Rank              { return e.rank }
func (e *Enemy) Level() int              { return e.level }
func (e *Enemy) Behavior() Behavior      { return e.behavior }
func (e *Enemy) Health() Pool            { return e.health }
func (e *Enemy) XPReward() int64         { return e.xpReward }
func (e *Enemy) GoldReward() int64       { return e.goldReward }
func (e *Enemy) Loot() LootTable         { return slices.Clone(e.loot) }
func (e *Enemy) Ambush() bool            { return e.ambush }
func (e *Enemy) Enraged() bool           { return e.enraged }
func (e *Enemy) Defending() bool         { return e.defending }
func (e *Enemy) IsAlive() bool           { return e.health.Current > 0 }
func (e *Enemy) HealthFraction() float64 { return e.health.Fraction() }

// Damage returns base damage including the enrage bonus.
func (e *Enemy) Damage() int {
	if !e.enraged {
		return e.damage
	}
	return int(math.Round(float64(e.damage) * (1 + e.enrageBonus)))
}

// Defense returns defense, doubled while defending.
func (e *Enemy) Defense() int {
	if e.defending {
		return e.defense * 2
	}
	return e.defense
}

// Abilities returns a copy of the abilities with their cooldowns.
func (e *Enemy) Abilities() []AbilityStatus {
	return slices.Clone(e.abilities)
}

// Ability returns the ability with the given ID.
func (e *Enemy) Ability(id string) (AbilityStatus, bool) {
	for _, a := range e.abilities {
		if a.ID == id {
			return a, true
		}
	}
	return AbilityStatus{}, false
}

// UseAbility puts the ability on cooldown and applies self effects.
func (e *Enemy) UseAbility(id string) (Ability, error) {
	for i := range e.abilities {
		a := &e.abilities[i]
		if a.ID != id {
			continue
		}
		if !a.Ready() {
			return Ability{}, fmt.Errorf("%w: %s has %d turns left", ErrAbilityOnCooldown, id, a.Remaining)
		}
		a.Remaining = a.Cooldown
		if a.Effect == EffectEnrage {
			e.enraged = true
		}
		return a.Ability, nil
	}
	return Ability{}, fmt.Errorf("%w: %q", ErrUnknownAbility, id)
}

// TickCooldowns decrements every cooldown by one, floored at zero.
func (e *Enemy) TickCooldowns() {
	for i := range e.abilities {
		if e.abilities[i].Remaining > 0 {
			e.abilities[i].Remaining--
		}
	}
}

// SetDefending raises or drops the enemy's guard.
func (e *Enemy) SetDefending(v bool) {
	e.defending = v
}

// ResetTransient clears per-encounter modifiers.
func (e *Enemy) ResetTransient() {
	e.defending = false
	e.enraged = false
}

// TakeDamage reduces health by max(0, amount), never below zero.
func (e *Enemy) TakeDamage(amount int) (int, bool) {
	if amount < 0 {
		amount = 0
	}
	taken := -e.health.add(-amount)
	return taken, e.health.Empty()
}

// EnemyState is a read-only view of an enemy for results and logs.
type EnemyState struct {
	TypeID    string
	Name      string
	Rank      Rank
	Level     int
	Health    Pool
	Defending bool
	Enraged   bool
}

// State returns a snapshot of the enemy.
func (e *Enemy) State() EnemyState {
	return EnemyState{
		TypeID:    e.typeID,
		Name:      e.name,
		Rank:      e.rank,
		Level:     e.level,
		Health:    e.health,
		Defending: e.defending,
		Enraged:   e.enraged,
	}
}
