package combat

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/shire/internal/ai"
	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/model"
)

// Rules bundles the configuration an encounter runs with.
type Rules struct {
	Combat config.Combat
	Enemy  config.Enemy
}

// RulesFrom extracts encounter rules from the game config.
func RulesFrom(cfg config.Game) Rules {
	return Rules{Combat: cfg.Combat, Enemy: cfg.Enemy}
}

// Result is the final outcome of a finished encounter.
type Result struct {
	Outcome   State
	Rewards   Rewards
	Character model.CharacterState
	Enemy     model.EnemyState
	Stats     Stats
}

// StepResult is what the caller sees after starting or acting.
// Result is set once the encounter reaches a terminal state.
type StepResult struct {
	State        State
	Events       []Event
	PlayerHealth model.Pool
	Enemy        model.EnemyState
	Result       *Result
}

type activeBuff struct {
	itemID    string
	damage    int
	defense   int
	remaining int
}

// Encounter is one fight between a character and an enemy.
// It mutates both combatants in place and is not safe for concurrent use.
type Encounter struct {
	rules     Rules
	character *model.Character
	enemy     *model.Enemy
	items     ItemLookup
	rng       model.Rand

	state           State
	playerDefending bool
	buffs           []activeBuff

	log    *Log
	stats  Stats
	step   []Event
	result *Result
}

// NewEncounter prepares an encounter in StateStart. Both combatants must be
// alive.
func NewEncounter(rules Rules, c *model.Character, e *model.Enemy, items ItemLookup, rng model.Rand) (*Encounter, error) {
	switch {
	case c == nil || e == nil:
		return nil, fmt.Errorf("%w: missing combatant", ErrInvalidAction)
	case rng == nil:
		return nil, errors.New("combat: nil random source")
	case !c.IsAlive():
		return nil, fmt.Errorf("%w: %s has no health left", ErrInvalidAction, c.Name())
	case !e.IsAlive():
		return nil, fmt.Errorf("%w: %s is already defeated", ErrInvalidAction, e.Name())
	}

	return &Encounter{
		rules:     rules,
		character: c,
		enemy:     e,
		items:     items,
		rng:       rng,
		state:     StateStart,
		log:       NewLog(rules.Combat.LogSize),
	}, nil
}

func (enc *Encounter) State() State                { return enc.state }
func (enc *Encounter) Character() *model.Character { return enc.character }
func (enc *Encounter) Enemy() *model.Enemy         { return enc.enemy }
func (enc *Encounter) Stats() Stats                { return enc.stats }
func (enc *Encounter) Log() []Event                { return enc.log.Events() }
func (enc *Encounter) PlayerDefending() bool       { return enc.playerDefending }

// Result returns the final outcome once the encounter is terminal.
func (enc *Encounter) Result() (*Result, bool) {
	return enc.result, enc.result != nil
}

// Start clears transient modifiers and hands the first turn to the player,
// or to the enemy when it has the ambush trait.
func (enc *Encounter) Start() (StepResult, error) {
	if enc.state != StateStart {
		enc.step = nil
		return enc.snapshot(), fmt.Errorf("%w: encounter already started", ErrInvalidAction)
	}

	enc.step = nil
	enc.enemy.ResetTransient()
	enc.playerDefending = false
	enc.buffs = nil

	enc.addEvent(Event{
		Actor:   ActorSystem,
		Action:  "start",
		Message: fmt.Sprintf("%s encounters %s (level %d %s)", enc.character.Name(), enc.enemy.Name(), enc.enemy.Level(), enc.enemy.Rank()),
	})

	slog.Info("encounter started",
		"character", enc.character.Name(),
		"enemy", enc.enemy.TypeID(),
		"rank", enc.enemy.Rank(),
		"level", enc.enemy.Level(),
		"ambush", enc.enemy.Ambush())

	if enc.enemy.Ambush() {
		enc.addEvent(Event{Actor: ActorEnemy, Action: "ambush", Message: enc.enemy.Name() + " strikes first"})
		enc.state = StateEnemyTurn
		enc.enemyTurn()
		if enc.state.Terminal() {
			return enc.snapshot(), nil
		}
	}

	enc.state = StatePlayerTurn
	return enc.snapshot(), nil
}

// Submit applies one player action. Rejected actions return an error and
// leave the encounter and both combatants untouched.
func (enc *Encounter) Submit(a Action) (StepResult, error) {
	item, err := enc.validateAction(a)
	if err != nil {
		enc.step = nil
		return enc.snapshot(), err
	}

	enc.step = nil
	enc.stats.Turns++

	switch a.Kind {
	case ActionAttack:
		enc.playerAttack()

	case ActionDefend:
		enc.playerDefending = true
		enc.addEvent(Event{Actor: ActorPlayer, Action: "defend", Message: enc.character.Name() + " raises their guard"})

	case ActionUseItem:
		if err := enc.useItem(item); err != nil {
			return enc.snapshot(), err
		}
		if item.Instant {
			return enc.snapshot(), nil
		}

	case ActionFlee:
		enc.addEvent(Event{Actor: ActorPlayer, Action: "flee", Message: enc.character.Name() + " flees"})
		enc.finish(StateFled)
		return enc.snapshot(), nil
	}

	if !enc.enemy.IsAlive() {
		enc.resolve()
		return enc.snapshot(), nil
	}

	enc.state = StateEnemyTurn
	enc.enemyTurn()
	if !enc.state.Terminal() {
		enc.state = StatePlayerTurn
	}
	return enc.snapshot(), nil
}

// IsTerminal reports whether the encounter has ended.
func (enc *Encounter) IsTerminal() bool {
	return enc.state.Terminal()
}

func (enc *Encounter) playerAttack() {
	base := BaseAttackDamage(
		WeaponDamage(enc.rules.Combat, enc.character, enc.items),
		enc.character.Stats().Strength,
		enc.buffDamage(),
		enc.enemy.Defense(),
	)
	hit := RollPlayerAttack(enc.rules.Combat, base, enc.character.Stats().Luck, enc.rng)

	// The enemy's guard only covers one hit.
	enc.enemy.SetDefending(false)
	dealt, _ := enc.enemy.TakeDamage(hit.Damage)

	enc.stats.DamageDealt += dealt
	if hit.Critical {
		enc.stats.Crits++
	}
	enc.addEvent(Event{
		Actor:    ActorPlayer,
		Action:   "attack",
		Damage:   dealt,
		Critical: hit.Critical,
	})
}

func (enc *Encounter) useItem(item *model.Item) error {
	restored, err := enc.character.UseItem(item)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}
	if item.Buff.Active() {
		enc.buffs = append(enc.buffs, activeBuff{
			itemID:    item.ID,
			damage:    item.Buff.Damage,
			defense:   item.Buff.Defense,
			remaining: item.Buff.Turns,
		})
	}

	enc.stats.ItemsUsed++
	enc.addEvent(Event{
		Actor:    ActorPlayer,
		Action:   "use_item",
		Restored: restored,
		Message:  fmt.Sprintf("%s uses %s", enc.character.Name(), item.Name),
	})
	return nil
}

func (enc *Encounter) enemyTurn() {
	// The enemy's own guard lasts until its next turn.
	enc.enemy.SetDefending(false)
	enc.enemy.TickCooldowns()

	d := ai.Decide(enc.enemy, ai.Opponent{
		Health:    enc.character.Health(),
		Defending: enc.playerDefending,
	}, enc.rules.Enemy)

	switch d.Kind {
	case ai.KindDefend:
		enc.enemy.SetDefending(true)
		enc.addEvent(Event{Actor: ActorEnemy, Action: "defend", Message: enc.enemy.Name() + " takes a defensive stance"})

	case ai.KindUseAbility:
		ab, err := enc.enemy.UseAbility(d.AbilityID)
		if err != nil {
			slog.Warn("enemy ability rejected, falling back to attack",
				"enemy", enc.enemy.Name(),
				"ability", d.AbilityID,
				"error", err)
			enc.enemyHit(d.Multiplier, "attack")
			break
		}
		enc.stats.AbilitiesFaced++
		if ab.Effect == model.EffectEnrage {
			enc.addEvent(Event{Actor: ActorEnemy, Action: ab.ID, Message: enc.enemy.Name() + " becomes enraged"})
			break
		}
		enc.enemyHit(ab.Multiplier*d.Multiplier, ab.ID)

	default:
		enc.enemyHit(d.Multiplier, "attack")
	}

	enc.tickBuffs()

	if !enc.character.IsAlive() {
		enc.resolve()
	}
}

func (enc *Encounter) enemyHit(mult float64, action string) {
	raw := float64(enc.enemy.Damage()) * mult
	defense := PlayerDefense(enc.character, enc.items, enc.buffDefense())
	hit := RollEnemyAttack(enc.rules.Combat, raw, defense, enc.character.Stats().Agility, enc.playerDefending, enc.rng)

	// A pending Defend is spent on this action, dodged or not.
	enc.playerDefending = false
	taken, _ := enc.character.TakeDamage(hit.Damage)

	enc.stats.DamageTaken += taken
	if hit.Dodged {
		enc.stats.Dodges++
	}
	enc.addEvent(Event{
		Actor:   ActorEnemy,
		Action:  action,
		Damage:  taken,
		Dodged:  hit.Dodged,
		Blocked: hit.Blocked,
	})
}

func (enc *Encounter) buffDamage() int {
	total := 0
	for _, b := range enc.buffs {
		total += b.damage
	}
	return total
}

func (enc *Encounter) buffDefense() int {
	total := 0
	for _, b := range enc.buffs {
		total += b.defense
	}
	return total
}

func (enc *Encounter) tickBuffs() {
	kept := enc.buffs[:0]
	for _, b := range enc.buffs {
		b.remaining--
		if b.remaining > 0 {
			kept = append(kept, b)
		}
	}
	enc.buffs = kept
}

// outcome decides the terminal state from who is still standing. The
// player wins ties.
func outcome(playerAlive, enemyAlive bool) (State, bool) {
	switch {
	case !enemyAlive:
		return StateVictory, true
	case !playerAlive:
		return StateDefeat, true
	default:
		return 0, false
	}
}

func (enc *Encounter) resolve() {
	state, ok := outcome(enc.character.IsAlive(), enc.enemy.IsAlive())
	if !ok {
		return
	}
	enc.state = StateResolution
	enc.finish(state)
}

func (enc *Encounter) finish(state State) {
	var rewards Rewards
	if state == StateVictory {
		rewards = rewardVictory(enc.character, enc.enemy, enc.rng)
	}

	enc.playerDefending = false
	enc.buffs = nil
	enc.state = state

	enc.addEvent(Event{Actor: ActorSystem, Action: state.String()})
	enc.result = &Result{
		Outcome:   state,
		Rewards:   rewards,
		Character: enc.character.State(),
		Enemy:     enc.enemy.State(),
		Stats:     enc.stats,
	}

	slog.Info("encounter finished",
		"character", enc.character.Name(),
		"enemy", enc.enemy.TypeID(),
		"outcome", state,
		"turns", enc.stats.Turns,
		"damage_dealt", enc.stats.DamageDealt,
		"damage_taken", enc.stats.DamageTaken)
}

func (enc *Encounter) addEvent(e Event) {
	e.Turn = enc.stats.Turns
	enc.log.Add(e)
	enc.step = append(enc.step, e)

	if ai.IsDebugEnabled() {
		slog.Debug("combat event",
			"turn", e.Turn,
			"actor", e.Actor,
			"action", e.Action,
			"damage", e.Damage,
			"crit", e.Critical,
			"dodged", e.Dodged)
	}
}

func (enc *Encounter) snapshot() StepResult {
	return StepResult{
		State:        enc.state,
		Events:       append([]Event(nil), enc.step...),
		PlayerHealth: enc.character.Health(),
		Enemy:        enc.enemy.State(),
		Result:       enc.result,
	}
}
