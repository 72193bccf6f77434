package model

import (
	"fmt"
	"strings"
)

// Class is the fixed archetype chosen at character creation.
type Class int32

const (
	ClassWarrior Class = iota
	ClassMage
	ClassRogue
	ClassRanger
)

// ClassBonus is the additive bonus a class grants on top of the base rules.
type ClassBonus struct {
	Health       int
	Mana         int
	Stamina      int
	Strength     int
	Agility      int
	Intelligence int
}

var classBonuses = [...]ClassBonus{
	ClassWarrior: {Health: 30, Mana: 0, Stamina: 20, Strength: 5, Agility: 2, Intelligence: 1},
	ClassMage:    {Health: 0, Mana: 50, Stamina: 10, Strength: 1, Agility: 2, Intelligence: 5},
	ClassRogue:   {Health: 10, Mana: 20, Stamina: 30, Strength: 2, Agility: 5, Intelligence: 2},
	ClassRanger:  {Health: 15, Mana: 25, Stamina: 25, Strength: 3, Agility: 4, Intelligence: 3},
}

// Bonus returns the class bonus table entry.
func (c Class) Bonus() ClassBonus {
	if !c.Valid() {
		return ClassBonus{}
	}
	return classBonuses[c]
}

// PrimaryStat returns the stat the class favours most.
func (c Class) PrimaryStat() Stat {
	switch c {
	case ClassMage:
		return StatIntelligence
	case ClassRogue, ClassRanger:
		return StatAgility
	default:
		return StatStrength
	}
}

// Valid reports whether c is one of the known classes.
func (c Class) Valid() bool {
	return c >= ClassWarrior && c <= ClassRanger
}

// String returns human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassWarrior:
		return "Warrior"
	case ClassMage:
		return "Mage"
	case ClassRogue:
		return "Rogue"
	case ClassRanger:
		return "Ranger"
	default:
		return "Unknown"
	}
}

// ParseClass resolves a class by name (case-insensitive).
func ParseClass(name string) (Class, error) {
	for c := ClassWarrior; c <= ClassRanger; c++ {
		if strings.EqualFold(name, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown class %q", name)
}

// MarshalText encodes the class by name.
func (c Class) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown class %d", int32(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a class name.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
