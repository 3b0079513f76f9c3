// Package catalog supplies the fixed monster roster. Presets are
// read-only; battles receive deep clones so in-battle mutation never
// corrupts a template.
package catalog

import (
	"fmt"

	"github.com/veilmon/veilmon-server/internal/game"
)

// Preset is a monster template. Stats are immutable once the catalog is
// built; the server config may replace individual presets wholesale.
type Preset struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	BaseMaxHP int         `json:"base_max_hp"`
	Attack    int         `json:"attack"`
	Defense   int         `json:"defense"`
	Speed     int         `json:"speed"`
	Moves     []game.Move `json:"moves"`
}

// Catalog holds the player and enemy rosters. Construct with NewCatalog
// (defaults) or NewCatalogWithOverrides; never mutate after creation.
type Catalog struct {
	players []Preset
	enemies []Preset
	byID    map[string]*Preset
}

// NewCatalog returns the built-in roster: 3 player monsters and 6
// enemy monsters, four moves each.
func NewCatalog() *Catalog {
	return build(defaultPlayerPresets(), defaultEnemyPresets())
}

// NewCatalogWithOverrides replaces built-in presets whose ID matches an
// override. Unknown override IDs are rejected so a config typo cannot
// silently leave the default stats in place.
func NewCatalogWithOverrides(overrides []Preset) (*Catalog, error) {
	players := defaultPlayerPresets()
	enemies := defaultEnemyPresets()
	for _, ov := range overrides {
		if err := validatePreset(ov); err != nil {
			return nil, err
		}
		applied := false
		for i := range players {
			if players[i].ID == ov.ID {
				players[i] = ov
				applied = true
			}
		}
		for i := range enemies {
			if enemies[i].ID == ov.ID {
				enemies[i] = ov
				applied = true
			}
		}
		if !applied {
			return nil, fmt.Errorf("catalog override references unknown preset %q", ov.ID)
		}
	}
	return build(players, enemies), nil
}

func build(players, enemies []Preset) *Catalog {
	c := &Catalog{players: players, enemies: enemies, byID: make(map[string]*Preset, len(players)+len(enemies))}
	for i := range c.players {
		c.byID[c.players[i].ID] = &c.players[i]
	}
	for i := range c.enemies {
		c.byID[c.enemies[i].ID] = &c.enemies[i]
	}
	return c
}

func validatePreset(p Preset) error {
	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("catalog preset missing id or name")
	}
	if p.BaseMaxHP <= 0 {
		return fmt.Errorf("catalog preset %q: base_max_hp must be positive", p.ID)
	}
	if len(p.Moves) != 4 {
		return fmt.Errorf("catalog preset %q: expected 4 moves, got %d", p.ID, len(p.Moves))
	}
	seen := make(map[string]struct{}, 4)
	for _, mv := range p.Moves {
		if mv.ID == "" {
			return fmt.Errorf("catalog preset %q: move missing id", p.ID)
		}
		if _, dup := seen[mv.ID]; dup {
			return fmt.Errorf("catalog preset %q: duplicate move id %q", p.ID, mv.ID)
		}
		seen[mv.ID] = struct{}{}
		switch mv.Kind {
		case game.MoveAttack, game.MoveStatus, game.MoveHeal:
		default:
			return fmt.Errorf("catalog preset %q: move %q has unknown kind %q", p.ID, mv.ID, mv.Kind)
		}
	}
	return nil
}

// PlayerPresets returns the player roster templates (read-only view).
func (c *Catalog) PlayerPresets() []Preset { return c.players }

// EnemyPresets returns the enemy roster templates (read-only view).
func (c *Catalog) EnemyPresets() []Preset { return c.enemies }

// PlayerTeam produces fresh full-HP clones of the player roster.
func (c *Catalog) PlayerTeam() []game.Monster { return cloneTeam(c.players, game.SidePlayer) }

// EnemyTeam produces fresh full-HP clones of the enemy roster.
func (c *Catalog) EnemyTeam() []game.Monster { return cloneTeam(c.enemies, game.SideEnemy) }

func cloneTeam(presets []Preset, side game.Side) []game.Monster {
	out := make([]game.Monster, 0, len(presets))
	for slot, p := range presets {
		out = append(out, cloneMonster(p, side, slot))
	}
	return out
}

func cloneMonster(p Preset, side game.Side, slot int) game.Monster {
	moves := make([]game.Move, len(p.Moves))
	copy(moves, p.Moves)
	return game.Monster{
		PresetID:  p.ID,
		Side:      side,
		Slot:      slot,
		Name:      p.Name,
		BaseMaxHP: p.BaseMaxHP,
		CurrentHP: p.BaseMaxHP,
		Attack:    p.Attack,
		Defense:   p.Defense,
		Speed:     p.Speed,
		Moves:     moves,
	}
}

// Rehydrate refills catalog-derived fields (moves and base stats) on a
// monster loaded from storage. Returns false when the preset is unknown.
func (c *Catalog) Rehydrate(m *game.Monster) bool {
	p, ok := c.byID[m.PresetID]
	if !ok {
		return false
	}
	m.Name = p.Name
	m.BaseMaxHP = p.BaseMaxHP
	m.Attack = p.Attack
	m.Defense = p.Defense
	m.Speed = p.Speed
	m.Moves = make([]game.Move, len(p.Moves))
	copy(m.Moves, p.Moves)
	if m.CurrentHP > m.BaseMaxHP {
		m.CurrentHP = m.BaseMaxHP
	}
	return true
}
