package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/veilmon/veilmon-server/internal/battle"
	"github.com/veilmon/veilmon-server/internal/catalog"
	"github.com/veilmon/veilmon-server/internal/game"
)

func newTestRepo(t *testing.T) (Repository, *catalog.Catalog) {
	t.Helper()
	cat := catalog.NewCatalog()
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "veilmon_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewSQLiteRepository(db, cat), cat
}

func TestCreateAndLoadBattle(t *testing.T) {
	repo, cat := newTestRepo(t)

	b := battle.NewBattle(cat)
	b.SessionCode = "TESTCODE"
	b.WalletAddress = "0xabc"
	if err := repo.CreateBattle(b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID == 0 {
		t.Fatalf("create did not assign an id")
	}

	loaded, err := repo.FindBattleBySessionCode("TESTCODE")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != b.ID || loaded.WalletAddress != "0xabc" {
		t.Fatalf("loaded wrong battle: %+v", loaded)
	}
	if len(loaded.Monsters) != len(b.Monsters) {
		t.Fatalf("expected %d monsters, got %d", len(b.Monsters), len(loaded.Monsters))
	}
	// Moves are not persisted; the catalog refills them on load.
	for _, m := range loaded.Monsters {
		if len(m.Moves) != 4 {
			t.Fatalf("%s rehydrated with %d moves", m.Name, len(m.Moves))
		}
	}

	byID, err := repo.GetBattleByID(b.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.SessionCode != "TESTCODE" {
		t.Fatalf("get by id returned %q", byID.SessionCode)
	}
}

func TestFindBattle_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.FindBattleBySessionCode("MISSING1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateBattle_ReplacesMonsterRows(t *testing.T) {
	repo, cat := newTestRepo(t)

	b := battle.NewBattle(cat)
	b.SessionCode = "TESTCODE"
	if err := repo.CreateBattle(b); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Simulate a resolved turn plus a reset: fresh monster clones with
	// zero primary keys and changed battle fields.
	b.Phase = game.PhaseBattle
	b.Turn = 3
	b.Monsters = append(cat.PlayerTeam(), cat.EnemyTeam()...)
	b.Monsters[0].CurrentHP = 77
	b.Monsters[0].ActiveEffects = []game.ActiveEffect{{Kind: game.EffectShield, UntilTurn: 4}}
	b.LastLog = []string{"Turn 1:", "NIGHT used Umbral Slash for 50 damage"}
	if err := repo.UpdateBattle(b); err != nil {
		t.Fatalf("update: %v", err)
	}
	// Updating again must not accumulate orphaned monster rows.
	if err := repo.UpdateBattle(b); err != nil {
		t.Fatalf("second update: %v", err)
	}

	loaded, err := repo.FindBattleBySessionCode("TESTCODE")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Phase != game.PhaseBattle || loaded.Turn != 3 {
		t.Fatalf("battle fields not updated: %s/%d", loaded.Phase, loaded.Turn)
	}
	if len(loaded.Monsters) != 9 {
		t.Fatalf("expected 9 monster rows after replacement, got %d", len(loaded.Monsters))
	}
	first := loaded.PlayerTeam()[0]
	if first.CurrentHP != 77 {
		t.Fatalf("monster HP not persisted: %d", first.CurrentHP)
	}
	if !first.HasEffect(game.EffectShield, 4) {
		t.Fatalf("active effects not persisted")
	}
	if len(loaded.LastLog) != 2 {
		t.Fatalf("log not persisted: %v", loaded.LastLog)
	}
}

func TestUpdateBattle_PersistsPendingCommitment(t *testing.T) {
	repo, cat := newTestRepo(t)

	b := battle.NewBattle(cat)
	b.SessionCode = "TESTCODE"
	if err := repo.CreateBattle(b); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A server may restart between commit and resolve; the payload and
	// opening must survive even though they are hidden from API JSON.
	b.Phase = game.PhaseBattle
	b.Turn = 1
	b.CommitmentScheme = "mimc"
	b.PlayerCommitment = &game.PendingCommitment{Token: "tok", Payload: "1|0|m1", Opening: "deadbeef"}
	if err := repo.UpdateBattle(b); err != nil {
		t.Fatalf("update: %v", err)
	}

	loaded, err := repo.FindBattleBySessionCode("TESTCODE")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pending := loaded.PlayerCommitment
	if pending == nil {
		t.Fatalf("pending commitment lost on reload")
	}
	if pending.Token != "tok" || pending.Payload != "1|0|m1" || pending.Opening != "deadbeef" {
		t.Fatalf("pending commitment reloaded incomplete: %+v", pending)
	}
	if loaded.EnemyCommitment != nil {
		t.Fatalf("enemy commitment fabricated on reload")
	}
}

func TestDeleteBattle(t *testing.T) {
	repo, cat := newTestRepo(t)
	b := battle.NewBattle(cat)
	b.SessionCode = "TESTCODE"
	if err := repo.CreateBattle(b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.DeleteBattle(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindBattleBySessionCode("TESTCODE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted battle still loads: %v", err)
	}
}

func TestFindStaleBattles(t *testing.T) {
	repo, cat := newTestRepo(t)
	now := time.Now()

	stale := battle.NewBattle(cat)
	stale.SessionCode = "STALE001"
	stale.Phase = game.PhaseBattle
	stale.StaleDeadline = now.Add(-time.Minute)
	if err := repo.CreateBattle(stale); err != nil {
		t.Fatalf("create stale: %v", err)
	}

	fresh := battle.NewBattle(cat)
	fresh.SessionCode = "FRESH001"
	fresh.Phase = game.PhaseBattle
	fresh.StaleDeadline = now.Add(time.Hour)
	if err := repo.CreateBattle(fresh); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	idle := battle.NewBattle(cat)
	idle.SessionCode = "IDLE0001"
	if err := repo.CreateBattle(idle); err != nil {
		t.Fatalf("create idle: %v", err)
	}

	got, err := repo.FindStaleBattles(now)
	if err != nil {
		t.Fatalf("find stale: %v", err)
	}
	if len(got) != 1 || got[0].SessionCode != "STALE001" {
		t.Fatalf("unexpected stale set: %+v", got)
	}
}
