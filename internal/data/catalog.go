package data

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/shire/internal/model"
)

var (
	ErrUnknownItem    = errors.New("unknown item")
	ErrUnknownEnemy   = errors.New("unknown enemy type")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

//go:embed items.yaml
var defaultItems []byte

// itemRecord is the YAML shape of one catalog entry.
type itemRecord struct {
	ID               string         `yaml:"id"`
	Name             string         `yaml:"name"`
	Type             string         `yaml:"type"`
	Rarity           string         `yaml:"rarity"`
	Damage           int            `yaml:"damage"`
	Defense          int            `yaml:"defense"`
	Restore          *restoreRecord `yaml:"restore"`
	Buff             *buffRecord    `yaml:"buff"`
	Shield           bool           `yaml:"shield"`
	Instant          bool           `yaml:"instant"`
	LevelRequirement int            `yaml:"level_requirement"`
	Value            int            `yaml:"value"`
	Description      string         `yaml:"description"`
}

type restoreRecord struct {
	Pool   string `yaml:"pool"`
	Amount int    `yaml:"amount"`
}

type buffRecord struct {
	Damage  int `yaml:"damage"`
	Defense int `yaml:"defense"`
	Turns   int `yaml:"turns"`
}

// Catalog is the immutable item registry keyed by item ID.
type Catalog struct {
	items map[string]*model.Item
	order []string
}

// DefaultCatalog returns the catalog embedded into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultItems)
}

// LoadCatalog reads a YAML catalog from path. Empty path means the embedded one.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		cat, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		slog.Info("loaded item catalog", "source", "embedded", "count", cat.Len())
		return cat, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	cat, err := ParseCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	slog.Info("loaded item catalog", "source", path, "count", cat.Len())
	return cat, nil
}

// ParseCatalog decodes and validates YAML catalog data.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var records []itemRecord
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidCatalog)
	}

	cat := &Catalog{
		items: make(map[string]*model.Item, len(records)),
		order: make([]string, 0, len(records)),
	}
	for i := range records {
		item, err := records[i].toItem()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidCatalog, i, err)
		}
		if _, dup := cat.items[item.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, item.ID)
		}
		cat.items[item.ID] = item
		cat.order = append(cat.order, item.ID)
	}
	return cat, nil
}

func (r *itemRecord) toItem() (*model.Item, error) {
	if r.ID == "" {
		return nil, errors.New("missing id")
	}
	typ, err := model.ParseItemType(r.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.ID, err)
	}
	rarity, err := model.ParseRarity(r.Rarity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.ID, err)
	}
	if r.Damage < 0 || r.Defense < 0 || r.Value < 0 || r.LevelRequirement < 0 {
		return nil, fmt.Errorf("%s: negative modifier", r.ID)
	}

	name := r.Name
	if name == "" {
		name = r.ID
	}
	item := &model.Item{
		ID:               r.ID,
		Name:             name,
		Type:             typ,
		Rarity:           rarity,
		Description:      r.Description,
		Damage:           r.Damage,
		Defense:          r.Defense,
		Shield:           r.Shield,
		Instant:          r.Instant,
		LevelRequirement: r.LevelRequirement,
		Value:            r.Value,
	}

	if r.Restore != nil {
		pool, err := model.ParsePoolKind(r.Restore.Pool)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.ID, err)
		}
		if r.Restore.Amount <= 0 {
			return nil, fmt.Errorf("%s: restore amount must be positive", r.ID)
		}
		item.RestorePool = pool
		item.RestoreAmount = r.Restore.Amount
	}
	if r.Buff != nil {
		if r.Buff.Turns <= 0 {
			return nil, fmt.Errorf("%s: buff turns must be positive", r.ID)
		}
		item.Buff = model.Buff{Damage: r.Buff.Damage, Defense: r.Buff.Defense, Turns: r.Buff.Turns}
	}

	switch typ {
	case model.ItemTypePotion, model.ItemTypeConsumable:
		if !item.Usable() {
			return nil, fmt.Errorf("%s: %s has no effect", r.ID, typ)
		}
	case model.ItemTypeWeapon:
		if item.Damage == 0 {
			return nil, fmt.Errorf("%s: weapon without damage", r.ID)
		}
	}
	if item.Shield && typ != model.ItemTypeArmor {
		return nil, fmt.Errorf("%s: only armor can be a shield", r.ID)
	}
	return item, nil
}

// Lookup returns the item with the given ID.
func (c *Catalog) Lookup(id string) (*model.Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Item returns the item with the given ID or ErrUnknownItem.
func (c *Catalog) Item(id string) (*model.Item, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return item, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// IDs returns item IDs in file order.
func (c *Catalog) IDs() []string { return slices.Clone(c.order) }

// ByType returns items of the given type in file order.
func (c *Catalog) ByType(t model.ItemType) []*model.Item {
	var out []*model.Item
	for _, id := range c.order {
		if item := c.items[id]; item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

// CheckReferences returns ErrUnknownItem for the first ID not in the catalog.
func (c *Catalog) CheckReferences(ids ...string) error {
	for _, id := range ids {
		if _, ok := c.items[id]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownItem, id)
		}
	}
	return nil
}
