package ai

import "github.com/udisondev/shire/internal/model"

// Kind is the action an enemy chose.
type Kind int32

const (
	KindAttack Kind = iota
	KindUseAbility
	KindDefend
)

// String returns lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindAttack:
		return "attack"
	case KindUseAbility:
		return "ability"
	case KindDefend:
		return "defend"
	default:
		return "unknown"
	}
}

// Target is who the chosen action affects.
type Target int32

const (
	TargetOpponent Target = iota
	TargetSelf
)

// Decision is the outcome of one AI evaluation.
// Multiplier scales the enemy's damage output on top of any ability
// multiplier; it is 1 unless the policy says otherwise.
type Decision struct {
	Kind       Kind
	AbilityID  string
	Target     Target
	Multiplier float64
}

// Opponent is what the enemy can see of the player.
type Opponent struct {
	Health    model.Pool
	Defending bool
}

func attack(mult float64) Decision {
	return Decision{Kind: KindAttack, Target: TargetOpponent, Multiplier: mult}
}

func defend() Decision {
	return Decision{Kind: KindDefend, Target: TargetSelf, Multiplier: 1}
}

func useAbility(a model.AbilityStatus, mult float64) Decision {
	target := TargetOpponent
	if a.Effect != model.EffectDamage {
		target = TargetSelf
	}
	return Decision{Kind: KindUseAbility, AbilityID: a.ID, Target: target, Multiplier: mult}
}

// strongestReady returns the ready damaging ability with the highest
// multiplier. Ties keep ability order.
func strongestReady(e *model.Enemy) (model.AbilityStatus, bool) {
	var (
		best  model.AbilityStatus
		found bool
	)
	for _, a := range e.Abilities() {
		if !a.Ready() || a.Effect != model.EffectDamage {
			continue
		}
		if !found || a.Multiplier > best.Multiplier {
			best, found = a, true
		}
	}
	return best, found
}
