package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned by Validate for any out-of-range value.
var ErrInvalidConfig = errors.New("invalid config")

// Character holds progression and resource rules for player characters.
type Character struct {
	BaseHealth  int `yaml:"base_health"`
	BaseMana    int `yaml:"base_mana"`
	BaseStamina int `yaml:"base_stamina"`

	// threshold(level) = round(BaseXP * XPScaling^(level-1))
	BaseXP    int64   `yaml:"base_xp"`
	XPScaling float64 `yaml:"xp_scaling"`
	MaxLevel  int     `yaml:"max_level"`

	StatPointsPerLevel int `yaml:"stat_points_per_level"`
	HealthPerLevel     int `yaml:"health_per_level"`
	ManaPerLevel       int `yaml:"mana_per_level"`
	StaminaPerLevel    int `yaml:"stamina_per_level"`

	InventoryCapacity int `yaml:"inventory_capacity" env:"SHIRE_INVENTORY_CAPACITY"`
}

// DefaultCharacter returns the stock progression rules.
func DefaultCharacter() Character {
	return Character{
		BaseHealth:         100,
		BaseMana:           50,
		BaseStamina:        100,
		BaseXP:             100,
		XPScaling:          1.5,
		MaxLevel:           60,
		StatPointsPerLevel: 5,
		HealthPerLevel:     10,
		ManaPerLevel:       5,
		StaminaPerLevel:    5,
		InventoryCapacity:  50,
	}
}

// Combat holds hit, crit and dodge arithmetic parameters.
type Combat struct {
	BaseCritChance  float64 `yaml:"base_crit_chance"`
	CritMultiplier  float64 `yaml:"crit_multiplier"`
	DodgeBaseChance float64 `yaml:"dodge_base_chance"`
	MaxDodgeChance  float64 `yaml:"max_dodge_chance"`
	UnarmedDamage   int     `yaml:"unarmed_damage"`
	DefendReduction float64 `yaml:"defend_reduction"` // fraction of incoming damage kept while defending
	LogSize         int     `yaml:"log_size"`
}

// DefaultCombat returns the stock combat parameters.
func DefaultCombat() Combat {
	return Combat{
		BaseCritChance:  0.05,
		CritMultiplier:  2.0,
		DodgeBaseChance: 0.10,
		MaxDodgeChance:  0.75,
		UnarmedDamage:   5,
		DefendReduction: 0.5,
		LogSize:         50,
	}
}

// Enemy holds enemy scaling and AI thresholds.
type Enemy struct {
	Difficulty   string  `yaml:"difficulty" env:"SHIRE_DIFFICULTY"` // easy, normal, hard, nightmare
	LevelScaling float64 `yaml:"level_scaling"`                     // per-level stat growth

	DefendThreshold           float64 `yaml:"defend_threshold"`
	BerserkerMaxBonus         float64 `yaml:"berserker_max_bonus"`
	BerserkerAbilityThreshold float64 `yaml:"berserker_ability_threshold"`
	EnrageBonus               float64 `yaml:"enrage_bonus"`
}

// DefaultEnemy returns the stock enemy rules.
func DefaultEnemy() Enemy {
	return Enemy{
		Difficulty:                "normal",
		LevelScaling:              0.1,
		DefendThreshold:           0.4,
		BerserkerMaxBonus:         1.0,
		BerserkerAbilityThreshold: 0.3,
		EnrageBonus:               0.3,
	}
}

// DifficultyMultiplier maps the configured difficulty to a stat multiplier.
func (e Enemy) DifficultyMultiplier() (float64, error) {
	switch e.Difficulty {
	case "easy":
		return 0.5, nil
	case "", "normal":
		return 1.0, nil
	case "hard":
		return 1.5, nil
	case "nightmare":
		return 2.0, nil
	default:
		return 0, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, e.Difficulty)
	}
}

// Save holds persistence settings.
type Save struct {
	Backend    string `yaml:"backend" env:"SHIRE_SAVE_BACKEND"` // file, sqlite, postgres
	Dir        string `yaml:"dir" env:"SHIRE_SAVE_DIR"`
	SQLitePath string `yaml:"sqlite_path" env:"SHIRE_SQLITE_PATH"`
	Slots      int    `yaml:"slots"`
	MaxBackups int    `yaml:"max_backups" env:"SHIRE_MAX_BACKUPS"`
}

// DefaultSave returns file-backed saves with ten slots and five backups each.
func DefaultSave() Save {
	return Save{
		Backend:    "file",
		Dir:        "saves",
		SQLitePath: "saves/shire.db",
		Slots:      10,
		MaxBackups: 5,
	}
}

// maxThreshold keeps XP arithmetic well inside int64.
const maxThreshold = float64(1 << 62)

// Validate checks every rule that the core relies on.
func (g Game) Validate() error {
	c := g.Character
	if c.BaseHealth < 1 || c.BaseMana < 0 || c.BaseStamina < 0 {
		return fmt.Errorf("%w: base resources must be non-negative (health >= 1)", ErrInvalidConfig)
	}
	if c.BaseXP < 1 || c.XPScaling <= 1 {
		return fmt.Errorf("%w: base_xp must be >= 1 and xp_scaling > 1", ErrInvalidConfig)
	}
	// Guarantees consecutive rounded thresholds differ by at least one.
	if float64(c.BaseXP)*(c.XPScaling-1) < 1 {
		return fmt.Errorf("%w: base_xp*(xp_scaling-1) must be >= 1", ErrInvalidConfig)
	}
	if c.MaxLevel < 1 {
		return fmt.Errorf("%w: max_level must be >= 1", ErrInvalidConfig)
	}
	if float64(c.BaseXP)*math.Pow(c.XPScaling, float64(c.MaxLevel-1)) > maxThreshold {
		return fmt.Errorf("%w: xp threshold at max_level %d overflows", ErrInvalidConfig, c.MaxLevel)
	}
	if c.StatPointsPerLevel < 0 || c.HealthPerLevel < 0 || c.ManaPerLevel < 0 || c.StaminaPerLevel < 0 {
		return fmt.Errorf("%w: per-level gains must be non-negative", ErrInvalidConfig)
	}
	if c.InventoryCapacity < 1 {
		return fmt.Errorf("%w: inventory_capacity must be >= 1", ErrInvalidConfig)
	}

	cb := g.Combat
	for name, p := range map[string]float64{
		"base_crit_chance":  cb.BaseCritChance,
		"dodge_base_chance": cb.DodgeBaseChance,
		"max_dodge_chance":  cb.MaxDodgeChance,
		"defend_reduction":  cb.DefendReduction,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrInvalidConfig, name, p)
		}
	}
	if cb.CritMultiplier < 1 {
		return fmt.Errorf("%w: crit_multiplier must be >= 1", ErrInvalidConfig)
	}
	if cb.UnarmedDamage < 0 || cb.LogSize < 1 {
		return fmt.Errorf("%w: unarmed_damage must be >= 0 and log_size >= 1", ErrInvalidConfig)
	}

	e := g.Enemy
	if _, err := e.DifficultyMultiplier(); err != nil {
		return err
	}
	if e.LevelScaling < 0 || e.BerserkerMaxBonus < 0 || e.EnrageBonus < 0 {
		return fmt.Errorf("%w: enemy scaling bonuses must be non-negative", ErrInvalidConfig)
	}
	if e.DefendThreshold < 0 || e.DefendThreshold > 1 || e.BerserkerAbilityThreshold < 0 || e.BerserkerAbilityThreshold > 1 {
		return fmt.Errorf("%w: enemy health thresholds must be in [0, 1]", ErrInvalidConfig)
	}

	s := g.Save
	switch s.Backend {
	case "file", "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown save backend %q", ErrInvalidConfig, s.Backend)
	}
	if s.Slots < 1 || s.Slots > 10 {
		return fmt.Errorf("%w: slots must be in [1, 10], got %d", ErrInvalidConfig, s.Slots)
	}
	if s.MaxBackups < 1 {
		return fmt.Errorf("%w: max_backups must be >= 1", ErrInvalidConfig)
	}

	return nil
}
