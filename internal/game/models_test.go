package game

import (
	"strconv"
	"testing"
)

func TestEffectivePower(t *testing.T) {
	if got := (Move{Power: 35}).EffectivePower(); got != 35 {
		t.Fatalf("declared power ignored: %d", got)
	}
	if got := (Move{}).EffectivePower(); got != DefaultMovePower {
		t.Fatalf("default power not applied: %d", got)
	}
}

func TestTeam_OrdersBySlot(t *testing.T) {
	b := &Battle{Monsters: []Monster{
		{Side: SidePlayer, Slot: 2, Name: "C"},
		{Side: SideEnemy, Slot: 0, Name: "X"},
		{Side: SidePlayer, Slot: 0, Name: "A"},
		{Side: SidePlayer, Slot: 1, Name: "B"},
	}}
	team := b.PlayerTeam()
	if len(team) != 3 {
		t.Fatalf("expected 3 player monsters, got %d", len(team))
	}
	for i, want := range []string{"A", "B", "C"} {
		if team[i].Name != want {
			t.Fatalf("slot %d holds %q, want %q", i, team[i].Name, want)
		}
	}
}

func TestTeam_ReturnsMutableView(t *testing.T) {
	b := &Battle{Monsters: []Monster{{Side: SidePlayer, Slot: 0, CurrentHP: 50}}}
	b.PlayerTeam()[0].CurrentHP = 10
	if b.Monsters[0].CurrentHP != 10 {
		t.Fatalf("team view does not alias battle storage")
	}
}

func TestActiveMonster_OutOfRange(t *testing.T) {
	b := &Battle{Monsters: []Monster{{Side: SideEnemy, Slot: 0}}}
	b.ActiveEnemyIndex = 1
	if b.ActiveEnemy() != nil {
		t.Fatalf("out-of-range index returned a monster")
	}
	if b.ActivePlayer() != nil {
		t.Fatalf("empty team returned a monster")
	}
}

func TestAppendLog_Capped(t *testing.T) {
	b := &Battle{}
	for i := 0; i < MaxLogLines+50; i++ {
		b.AppendLog("line " + strconv.Itoa(i))
	}
	if len(b.LastLog) != MaxLogLines {
		t.Fatalf("log grew to %d lines", len(b.LastLog))
	}
	if b.LastLog[len(b.LastLog)-1] != "line "+strconv.Itoa(MaxLogLines+49) {
		t.Fatalf("newest line dropped: %q", b.LastLog[len(b.LastLog)-1])
	}
	if b.LastLog[0] != "line 50" {
		t.Fatalf("oldest lines kept: %q", b.LastLog[0])
	}
}

func TestEffects_Lifecycle(t *testing.T) {
	m := Monster{}
	m.ActiveEffects = append(m.ActiveEffects, ActiveEffect{Kind: EffectShield, UntilTurn: 2})

	if !m.HasEffect(EffectShield, 1) || !m.HasEffect(EffectShield, 2) {
		t.Fatalf("shield should be live through its until-turn")
	}
	if m.HasEffect(EffectShield, 3) {
		t.Fatalf("shield live past its until-turn")
	}

	m.ExpireEffects(3)
	if len(m.ActiveEffects) != 0 {
		t.Fatalf("expired effect kept: %+v", m.ActiveEffects)
	}
}
