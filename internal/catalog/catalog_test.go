package catalog

import (
	"testing"

	"github.com/veilmon/veilmon-server/internal/game"
)

func TestNewCatalog_Rosters(t *testing.T) {
	cat := NewCatalog()
	if got := len(cat.PlayerPresets()); got != 3 {
		t.Fatalf("expected 3 player presets, got %d", got)
	}
	if got := len(cat.EnemyPresets()); got != 6 {
		t.Fatalf("expected 6 enemy presets, got %d", got)
	}
	for _, p := range append(cat.PlayerPresets(), cat.EnemyPresets()...) {
		if err := validatePreset(p); err != nil {
			t.Fatalf("built-in preset %q invalid: %v", p.ID, err)
		}
	}
}

func TestCloneTeam_FullHPAndSlots(t *testing.T) {
	cat := NewCatalog()
	team := cat.PlayerTeam()
	for i, m := range team {
		if m.Slot != i {
			t.Fatalf("monster %d has slot %d", i, m.Slot)
		}
		if m.CurrentHP != m.BaseMaxHP {
			t.Fatalf("%s not cloned at full HP", m.Name)
		}
		if m.Side != game.SidePlayer {
			t.Fatalf("%s cloned with side %q", m.Name, m.Side)
		}
	}
}

func TestCloneTeam_Independence(t *testing.T) {
	cat := NewCatalog()
	a := cat.PlayerTeam()
	a[0].CurrentHP = 1
	a[0].Moves[0].Power = 999

	b := cat.PlayerTeam()
	if b[0].CurrentHP != b[0].BaseMaxHP {
		t.Fatalf("clone shares HP with a previous clone")
	}
	if b[0].Moves[0].Power == 999 {
		t.Fatalf("clone shares move storage with a previous clone")
	}
}

func TestNewCatalogWithOverrides(t *testing.T) {
	ov := Preset{
		ID: "gloom", Name: "GLOOM+", BaseMaxHP: 10, Attack: 1, Defense: 1, Speed: 1,
		Moves: []game.Move{
			{ID: "m1", Name: "A", Kind: game.MoveAttack, Power: 1},
			{ID: "m2", Name: "B", Kind: game.MoveAttack, Power: 1},
			{ID: "m3", Name: "C", Kind: game.MoveAttack, Power: 1},
			{ID: "m4", Name: "D", Kind: game.MoveAttack, Power: 1},
		},
	}
	cat, err := NewCatalogWithOverrides([]Preset{ov})
	if err != nil {
		t.Fatalf("overrides rejected: %v", err)
	}
	team := cat.EnemyTeam()
	if team[0].Name != "GLOOM+" || team[0].BaseMaxHP != 10 {
		t.Fatalf("override not applied: %+v", team[0])
	}
	// The other enemies keep their defaults.
	if team[1].Name != "WRAITH" {
		t.Fatalf("override leaked into other presets")
	}
}

func TestNewCatalogWithOverrides_Rejections(t *testing.T) {
	valid := func(id string) Preset {
		return Preset{
			ID: id, Name: "X", BaseMaxHP: 10, Attack: 1, Defense: 1, Speed: 1,
			Moves: []game.Move{
				{ID: "m1", Name: "A", Kind: game.MoveAttack},
				{ID: "m2", Name: "B", Kind: game.MoveAttack},
				{ID: "m3", Name: "C", Kind: game.MoveAttack},
				{ID: "m4", Name: "D", Kind: game.MoveAttack},
			},
		}
	}

	if _, err := NewCatalogWithOverrides([]Preset{valid("no-such-monster")}); err == nil {
		t.Fatalf("unknown preset id accepted")
	}

	threeMoves := valid("gloom")
	threeMoves.Moves = threeMoves.Moves[:3]
	if _, err := NewCatalogWithOverrides([]Preset{threeMoves}); err == nil {
		t.Fatalf("preset with 3 moves accepted")
	}

	dup := valid("gloom")
	dup.Moves[1].ID = "m1"
	if _, err := NewCatalogWithOverrides([]Preset{dup}); err == nil {
		t.Fatalf("duplicate move ids accepted")
	}

	badKind := valid("gloom")
	badKind.Moves[0].Kind = "ultimate"
	if _, err := NewCatalogWithOverrides([]Preset{badKind}); err == nil {
		t.Fatalf("unknown move kind accepted")
	}
}

func TestRehydrate(t *testing.T) {
	cat := NewCatalog()
	m := game.Monster{PresetID: "night", Side: game.SidePlayer, CurrentHP: 500}
	if !cat.Rehydrate(&m) {
		t.Fatalf("known preset not rehydrated")
	}
	if m.Name != "NIGHT" || m.Attack != 60 || len(m.Moves) != 4 {
		t.Fatalf("rehydrate left incomplete monster: %+v", m)
	}
	if m.CurrentHP != m.BaseMaxHP {
		t.Fatalf("stored HP above base max not clamped: %d", m.CurrentHP)
	}

	unknown := game.Monster{PresetID: "ghost-of-nowhere"}
	if cat.Rehydrate(&unknown) {
		t.Fatalf("unknown preset rehydrated")
	}
}
