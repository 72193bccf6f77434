package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/shire/internal/config"
	"github.com/udisondev/shire/internal/data"
	"github.com/udisondev/shire/internal/game/combat"
	"github.com/udisondev/shire/internal/model"
	"github.com/udisondev/shire/internal/save"
)

// healBelow is the health fraction under which the autopilot drinks.
const healBelow = 0.35

type session struct {
	cfg     config.Game
	opts    options
	catalog *data.Catalog
	saves   *save.Manager
	rng     *rand.Rand
	hero    *model.Character
	fights  *combat.Manager
}

// play runs the configured number of encounters, resting and saving after
// every victory. It stops early on defeat or cancellation.
func (s *session) play(ctx context.Context) error {
	for i := range s.opts.fights {
		if err := ctx.Err(); err != nil {
			return err
		}

		enemy, err := s.nextEnemy()
		if err != nil {
			return err
		}
		fmt.Printf("\n-- Encounter %d: %s (level %d %s, %d hp) --\n",
			i+1, enemy.Name(), enemy.Level(), enemy.Rank(), enemy.Health().Max)

		res, err := s.fight(ctx, enemy)
		if err != nil {
			return err
		}

		switch res.Outcome {
		case combat.StateVictory:
			s.report(res.Rewards)
			s.spendStatPoints()
			if s.opts.rest {
				s.hero.FullRestore()
				fmt.Println("You rest and recover.")
			}
			if _, err := s.saves.Save(ctx, s.hero, s.opts.slot); err != nil {
				return fmt.Errorf("saving: %w", err)
			}
		case combat.StateFled:
			fmt.Println("You escaped.")
		case combat.StateDefeat:
			fmt.Printf("%s has fallen.\n", s.hero.Name())
			return nil
		}
	}
	return nil
}

func (s *session) nextEnemy() (*model.Enemy, error) {
	level := s.opts.level
	if level <= 0 {
		level = s.hero.Level()
	}
	if s.opts.enemy != "" {
		return data.SpawnEnemy(s.cfg.Enemy, s.opts.enemy, level)
	}
	return data.RandomEnemy(s.rng, s.cfg.Enemy, max(1, level-1), level+1)
}

func (s *session) fight(ctx context.Context, enemy *model.Enemy) (*combat.Result, error) {
	h, step, err := s.fights.Start(s.hero, enemy)
	if err != nil {
		return nil, err
	}
	printEvents(step.Events)

	for !step.State.Terminal() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step, err = s.fights.Submit(h, s.choose())
		if err != nil {
			return nil, err
		}
		printEvents(step.Events)
		fmt.Printf("   you %d/%d hp | %s %d/%d hp\n",
			step.PlayerHealth.Current, step.PlayerHealth.Max,
			step.Enemy.Name, step.Enemy.Health.Current, step.Enemy.Health.Max)
	}
	return step.Result, nil
}

// choose drinks the first healing item when health is low, otherwise
// attacks.
func (s *session) choose() combat.Action {
	if s.hero.Health().Fraction() < healBelow {
		for _, id := range s.hero.Inventory() {
			item, ok := s.catalog.Lookup(id)
			if ok && item.RestorePool == model.PoolHealth && item.RestoreAmount > 0 {
				return combat.UseItem(id)
			}
		}
	}
	return combat.Attack()
}

// spendStatPoints puts every unallocated point into the class primary stat.
func (s *session) spendStatPoints() {
	stat := s.hero.Class().PrimaryStat()
	for s.hero.StatPoints() > 0 {
		if err := s.hero.AllocateStatPoint(stat); err != nil {
			slog.Warn("allocating stat point", "stat", stat, "error", err)
			return
		}
	}
}

func (s *session) report(r combat.Rewards) {
	fmt.Printf("Victory! +%d xp, +%d gold\n", r.Experience, r.Gold)
	for _, id := range r.Items {
		fmt.Printf("   looted %s\n", s.itemName(id))
	}
	for _, id := range r.Overflow {
		fmt.Printf("   no room for %s\n", s.itemName(id))
	}
	for _, lvl := range r.LevelsGained {
		fmt.Printf("   reached level %d\n", lvl)
	}
	fmt.Printf("   level %d, %.0f%% of the way to the next\n", s.hero.Level(), s.hero.XPProgress()*100)
}

func (s *session) itemName(id string) string {
	if item, ok := s.catalog.Lookup(id); ok {
		return item.Name
	}
	return id
}

func printEvents(events []combat.Event) {
	for _, e := range events {
		switch {
		case e.Message != "":
			fmt.Printf("   %s\n", e.Message)
		case e.Dodged:
			fmt.Printf("   %s %s: dodged\n", e.Actor, e.Action)
		case e.Critical:
			fmt.Printf("   %s %s: %d damage (critical)\n", e.Actor, e.Action, e.Damage)
		case e.Damage > 0 || e.Action == "attack":
			fmt.Printf("   %s %s: %d damage\n", e.Actor, e.Action, e.Damage)
		}
	}
}
