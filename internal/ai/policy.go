package ai

import (
	"log/slog"

	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/model"
)

// Policy picks an action from the enemy's current state. Policies never
// mutate the enemy; the caller applies the decision.
type Policy func(e *model.Enemy, opp Opponent, rules config.Enemy) Decision

var policies = map[model.Behavior]Policy{
	model.BehaviorAggressive: aggressive,
	model.BehaviorDefensive:  defensive,
	model.BehaviorBerserker:  berserker,
	model.BehaviorCunning:    cunning,
}

// PolicyFor returns the policy registered for a behavior.
func PolicyFor(b model.Behavior) (Policy, bool) {
	p, ok := policies[b]
	return p, ok
}

// Decide evaluates the enemy's policy. Unknown behaviors fall back to a
// plain attack.
func Decide(e *model.Enemy, opp Opponent, rules config.Enemy) Decision {
	d := attack(1)
	if p, ok := policies[e.Behavior()]; ok {
		d = p(e, opp, rules)
	}

	if IsDebugEnabled() {
		slog.Debug("enemy decision",
			"enemy", e.Name(),
			"behavior", e.Behavior(),
			"health", e.Health().Current,
			"kind", d.Kind,
			"ability", d.AbilityID,
			"multiplier", d.Multiplier)
	}
	return d
}

// aggressive always goes for the hardest hit available.
func aggressive(e *model.Enemy, _ Opponent, _ config.Enemy) Decision {
	if a, ok := strongestReady(e); ok && a.Multiplier > 1 {
		return useAbility(a, 1)
	}
	return attack(1)
}

// defensive guards while below DefendThreshold health.
func defensive(e *model.Enemy, _ Opponent, rules config.Enemy) Decision {
	if e.HealthFraction() < rules.DefendThreshold {
		return defend()
	}
	return attack(1)
}

// berserker hits harder the more hurt it is and never defends. Below
// BerserkerAbilityThreshold it spends its strongest ready ability.
func berserker(e *model.Enemy, _ Opponent, rules config.Enemy) Decision {
	frac := e.HealthFraction()
	mult := 1 + (1-frac)*rules.BerserkerMaxBonus

	if frac < rules.BerserkerAbilityThreshold {
		if a, ok := strongestReady(e); ok {
			return useAbility(a, mult)
		}
	}
	return attack(mult)
}

// cunning uses the first ready ability in order and attacks only when
// everything is on cooldown.
func cunning(e *model.Enemy, _ Opponent, _ config.Enemy) Decision {
	for _, a := range e.Abilities() {
		if a.Ready() {
			return useAbility(a, 1)
		}
	}
	return attack(1)
}
