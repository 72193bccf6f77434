package model

import (
	"fmt"
	"math"

	"github.com/udisondev/shire/internal/config"
)

// Threshold returns the XP needed to advance from level to level+1:
// round(BaseXP * XPScaling^(level-1)). Strictly increasing for any rules
// accepted by config.Validate.
func Threshold(rules config.Character, level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(math.Round(float64(rules.BaseXP) * math.Pow(rules.XPScaling, float64(level-1))))
}

// XPToNextLevel returns the threshold for the current level.
func (c *Character) XPToNextLevel() int64 {
	return Threshold(c.rules, c.level)
}

// XPProgress returns experience as a fraction of the current threshold.
func (c *Character) XPProgress() float64 {
	return float64(c.experience) / float64(c.XPToNextLevel())
}

// GainExperience adds XP and levels up as many times as the total allows,
// carrying surplus XP over. Returns the levels reached, in order.
func (c *Character) GainExperience(amount int64) []int {
	if amount <= 0 {
		return nil
	}

	c.experience += amount

	var gained []int
	for c.level < c.rules.MaxLevel && c.experience >= c.XPToNextLevel() {
		c.experience -= c.XPToNextLevel()
		c.levelUp()
		gained = append(gained, c.level)
	}
	return gained
}

func (c *Character) levelUp() {
	c.level++
	c.statPoints += c.rules.StatPointsPerLevel
	c.health.grow(c.rules.HealthPerLevel)
	c.mana.grow(c.rules.ManaPerLevel)
	c.stamina.grow(c.rules.StaminaPerLevel)
}

// AllocateStatPoint spends one unallocated point on stat.
func (c *Character) AllocateStatPoint(stat Stat) error {
	p := c.stats.ptr(stat)
	if p == nil {
		return fmt.Errorf("%w: %d", ErrUnknownStat, int32(stat))
	}
	if c.statPoints <= 0 {
		return fmt.Errorf("%w: no stat points to allocate", ErrInsufficientResource)
	}
	*p++
	c.statPoints--
	return nil
}
