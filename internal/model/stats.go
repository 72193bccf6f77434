package model

import (
	"fmt"
	"strings"
)

// Stats is the primary attribute block of a character.
type Stats struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
	Vitality     int `json:"vitality"`
	Luck         int `json:"luck"`
}

// Stat names a single attribute of Stats.
type Stat int32

const (
	StatStrength Stat = iota
	StatAgility
	StatIntelligence
	StatVitality
	StatLuck
)

// String returns lower-case stat name.
func (s Stat) String() string {
	switch s {
	case StatStrength:
		return "strength"
	case StatAgility:
		return "agility"
	case StatIntelligence:
		return "intelligence"
	case StatVitality:
		return "vitality"
	case StatLuck:
		return "luck"
	default:
		return "unknown"
	}
}

// ParseStat resolves a stat by name (case-insensitive).
func ParseStat(name string) (Stat, error) {
	for s := StatStrength; s <= StatLuck; s++ {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStat, name)
}

func (s *Stats) ptr(stat Stat) *int {
	switch stat {
	case StatStrength:
		return &s.Strength
	case StatAgility:
		return &s.Agility
	case StatIntelligence:
		return &s.Intelligence
	case StatVitality:
		return &s.Vitality
	case StatLuck:
		return &s.Luck
	default:
		return nil
	}
}

// Get returns the value of a single stat (0 for unknown stats).
func (s Stats) Get(stat Stat) int {
	if p := s.ptr(stat); p != nil {
		return *p
	}
	return 0
}

// Pool is a (current, max) resource pair. Current always stays in [0, Max].
type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// NewPool returns a full pool.
func NewPool(max int) Pool {
	if max < 0 {
		max = 0
	}
	return Pool{Current: max, Max: max}
}

// Fraction returns Current/Max in [0, 1]. An empty pool reports 0.
func (p Pool) Fraction() float64 {
	if p.Max <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Max)
}

// Empty reports whether the pool is depleted.
func (p Pool) Empty() bool {
	return p.Current <= 0
}

// Full reports whether the pool is at max.
func (p Pool) Full() bool {
	return p.Current >= p.Max
}

// add applies delta with clamping and returns the change actually applied.
func (p *Pool) add(delta int) int {
	before := p.Current
	p.Current = min(max(p.Current+delta, 0), p.Max)
	return p.Current - before
}

// grow raises Max by delta and refills to the new max.
func (p *Pool) grow(delta int) {
	p.Max += delta
	p.Current = p.Max
}

func (p Pool) valid() bool {
	return p.Max >= 0 && p.Current >= 0 && p.Current <= p.Max
}

// PoolKind names one of the character resource pools.
type PoolKind int32

const (
	PoolHealth PoolKind = iota
	PoolMana
	PoolStamina
)

// String returns lower-case pool name.
func (k PoolKind) String() string {
	switch k {
	case PoolHealth:
		return "health"
	case PoolMana:
		return "mana"
	case PoolStamina:
		return "stamina"
	default:
		return "unknown"
	}
}

// ParsePoolKind resolves a pool by name (case-insensitive).
func ParsePoolKind(name string) (PoolKind, error) {
	for k := PoolHealth; k <= PoolStamina; k++ {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown resource pool %q", name)
}
