// Package battle implements the turn-based battle state machine: a
// Store owns one Battle aggregate and exposes the operations the
// presentation layer drives (start, commit, resolve, switch, reset).
//
// Precondition violations (wrong phase, already resolving, invalid
// index) are silent no-ops. Errors are reserved for failures of the
// external commitment and proof collaborators, which propagate without
// any partial state mutation.
package battle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/veilmon/veilmon-server/internal/catalog"
	"github.com/veilmon/veilmon-server/internal/commitment"
	"github.com/veilmon/veilmon-server/internal/engine"
	"github.com/veilmon/veilmon-server/internal/game"
	"github.com/veilmon/veilmon-server/internal/zk"
)

var (
	// ErrInvalidProof is returned by ResolveTurn when proof checking is
	// strict and the proof does not verify.
	ErrInvalidProof = errors.New("battle: move proof did not verify")
	// ErrSchemeMismatch is returned when a pending commitment was made
	// under a different scheme than the store is configured with.
	ErrSchemeMismatch = errors.New("battle: pending commitment uses a different scheme")
)

// startPayloadMoveID marks the warm-up commitment issued by StartBattle.
const startPayloadMoveID = "start"

// defaultCollaboratorTimeout bounds every external call so a hung
// collaborator cannot stall the resolving guard.
const defaultCollaboratorTimeout = 10 * time.Second

// Options tune a Store. The zero value is usable.
type Options struct {
	// RequireValidProof aborts turn resolution when the proof service
	// rejects the player's proof. Default false: the result is advisory,
	// matching the original demo.
	RequireValidProof bool
	// CollaboratorTimeout bounds commitment and proof calls.
	CollaboratorTimeout time.Duration
	// StaleTTL pushes the battle's stale deadline forward on activity.
	StaleTTL time.Duration
	// Rand is the damage/enemy-move randomness source. Defaults to a
	// time-seeded source; tests inject a seeded one.
	Rand *rand.Rand
}

// Store drives a single battle. All operations are safe for concurrent
// use; IsResolving additionally rejects overlapping turn resolutions
// across the suspension points of the collaborator calls.
type Store struct {
	mu      sync.Mutex
	battle  *game.Battle
	catalog *catalog.Catalog
	scheme  commitment.Scheme
	proofs  zk.ProofService
	rng     *rand.Rand
	opts    Options
}

// NewBattle builds a fresh aggregate in the init phase with full-HP
// clones of the catalog rosters.
func NewBattle(cat *catalog.Catalog) *game.Battle {
	b := &game.Battle{Phase: game.PhaseInit, Turn: 0, LastLog: []string{}}
	b.Monsters = append(cat.PlayerTeam(), cat.EnemyTeam()...)
	return b
}

// NewStore wraps an existing aggregate. The store takes ownership: the
// caller must not mutate the battle while the store is live.
func NewStore(b *game.Battle, cat *catalog.Catalog, scheme commitment.Scheme, proofs zk.ProofService, opts Options) *Store {
	if opts.CollaboratorTimeout <= 0 {
		opts.CollaboratorTimeout = defaultCollaboratorTimeout
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{battle: b, catalog: cat, scheme: scheme, proofs: proofs, rng: rng, opts: opts}
}

// StartBattle transitions init -> battle. It performs a warm-up
// round-trip to the commitment collaborator first; a failure there
// propagates and leaves the battle in init.
func (s *Store) StartBattle(ctx context.Context) error {
	s.mu.Lock()
	if s.battle.Phase != game.PhaseInit {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	tctx, cancel := context.WithTimeout(ctx, s.opts.CollaboratorTimeout)
	defer cancel()
	if _, _, err := s.scheme.Commit(tctx, commitment.Payload{Turn: 0, Slot: 0, MoveID: startPayloadMoveID}); err != nil {
		return fmt.Errorf("battle: start commitment: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battle.Phase != game.PhaseInit {
		return nil
	}
	b := s.battle
	b.Monsters = append(s.catalog.PlayerTeam(), s.catalog.EnemyTeam()...)
	b.Phase = game.PhaseBattle
	b.Turn = 1
	b.Winner = game.WinnerNone
	b.ActivePlayerIndex = 0
	b.ActiveEnemyIndex = 0
	b.PlayerCommitment = nil
	b.EnemyCommitment = nil
	b.CommitmentScheme = s.scheme.Name()
	b.LastLog = []string{}
	b.AppendLog("Battle started. " + b.ActivePlayer().Name + " faces " + b.ActiveEnemy().Name + ".")
	s.touch(b)
	return nil
}

// CommitPlayerMove encodes (turn, active slot, moveID), sends it through
// the commitment scheme and stores the returned token. Calling it again
// before resolution overwrites the pending commitment.
func (s *Store) CommitPlayerMove(ctx context.Context, moveID string) error {
	s.mu.Lock()
	b := s.battle
	if b.Phase != game.PhaseBattle || b.IsResolving {
		s.mu.Unlock()
		return nil
	}
	active := b.ActivePlayer()
	if active == nil || active.MoveByID(moveID) == nil {
		s.mu.Unlock()
		return nil
	}
	payload := commitment.Payload{Turn: b.Turn, Slot: b.ActivePlayerIndex, MoveID: moveID}
	s.mu.Unlock()

	tctx, cancel := context.WithTimeout(ctx, s.opts.CollaboratorTimeout)
	defer cancel()
	token, opening, err := s.scheme.Commit(tctx, payload)
	if err != nil {
		return fmt.Errorf("battle: commit move: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check the guards: a resolve or reset may have slipped in while
	// the collaborator call was in flight.
	if b.Phase != game.PhaseBattle || b.IsResolving || b.Turn != payload.Turn {
		return nil
	}
	b.PlayerCommitment = &game.PendingCommitment{Token: token, Payload: payload.Encode(), Opening: opening}
	b.CommitmentScheme = s.scheme.Name()
	s.touch(b)
	return nil
}

// ResolveTurn converts the two committed moves into HP changes, faint
// checks and log entries. It is a no-op unless the battle is in
// progress, not already resolving, and a player commitment is pending.
// IsResolving is held across the collaborator calls and released on
// every exit path.
func (s *Store) ResolveTurn(ctx context.Context) error {
	s.mu.Lock()
	b := s.battle
	if b.Phase != game.PhaseBattle || b.IsResolving || b.PlayerCommitment == nil {
		s.mu.Unlock()
		return nil
	}
	if b.CommitmentScheme != "" && b.CommitmentScheme != s.scheme.Name() {
		s.mu.Unlock()
		return ErrSchemeMismatch
	}

	b.IsResolving = true
	pending := *b.PlayerCommitment
	turn := b.Turn
	enemy := b.ActiveEnemy()
	if enemy == nil {
		b.IsResolving = false
		s.mu.Unlock()
		return nil
	}
	enemyMove := enemy.Moves[s.rng.Intn(len(enemy.Moves))]
	enemyPayload := commitment.Payload{Turn: turn, Slot: b.ActiveEnemyIndex, MoveID: enemyMove.ID}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		b.IsResolving = false
		s.mu.Unlock()
	}()

	playerPayload, err := commitment.DecodePayload(pending.Payload)
	if err != nil {
		return err
	}
	if err := s.scheme.Verify(pending.Token, playerPayload, pending.Opening); err != nil {
		return fmt.Errorf("battle: reveal player commitment: %w", err)
	}

	tctx, cancel := context.WithTimeout(ctx, s.opts.CollaboratorTimeout)
	defer cancel()

	// Symmetric enemy commitment. Never actually concealed from the
	// engine since both sides run locally, but it keeps the protocol
	// shape identical for both actors.
	enemyToken, enemyOpening, err := s.scheme.Commit(tctx, enemyPayload)
	if err != nil {
		return fmt.Errorf("battle: enemy commitment: %w", err)
	}

	proof, err := s.proofs.Prove(tctx, playerPayload, pending.Opening, pending.Token)
	if err != nil {
		return fmt.Errorf("battle: prove move: %w", err)
	}
	valid, err := s.proofs.Verify(tctx, proof, []string{pending.Token, strconv.Itoa(playerPayload.Turn), strconv.Itoa(playerPayload.Slot)})
	if err != nil {
		return fmt.Errorf("battle: verify move proof: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !valid && s.opts.RequireValidProof {
		b.PlayerCommitment = nil
		b.AppendLog("Turn " + strconv.Itoa(turn) + ": move proof rejected; commit again.")
		return ErrInvalidProof
	}

	// The commitment binds the slot that was active when it was made; if
	// the active monster changed since, the committed move is void.
	if playerPayload.Slot != b.ActivePlayerIndex {
		b.PlayerCommitment = nil
		return nil
	}

	b.EnemyCommitment = &game.PendingCommitment{Token: enemyToken, Payload: enemyPayload.Encode(), Opening: enemyOpening}

	playerMove := b.ActivePlayer().MoveByID(playerPayload.MoveID)
	if playerMove == nil {
		// The committed move id no longer exists on the active monster.
		b.PlayerCommitment = nil
		b.EnemyCommitment = nil
		return nil
	}

	lines := []string{"Turn " + strconv.Itoa(turn) + ":"}
	if !valid {
		lines = append(lines, "(proof did not verify; continuing anyway)")
	}
	res := engine.ResolveTurn(b, *playerMove, enemyMove, s.rng)
	lines = append(lines, res.Lines...)

	b.PlayerCommitment = nil
	b.EnemyCommitment = nil
	b.Turn++
	b.AppendLog(lines...)
	s.touch(b)
	return nil
}

// SwitchPlayerMonster changes the active player monster. It is a no-op
// when the index is out of range, targets a fainted monster, equals the
// current index, or while a turn is resolving.
func (s *Store) SwitchPlayerMonster(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.battle
	if b.IsResolving {
		return
	}
	team := b.PlayerTeam()
	if index < 0 || index >= len(team) || index == b.ActivePlayerIndex {
		return
	}
	if team[index].Fainted() {
		return
	}
	b.ActivePlayerIndex = index
	if b.Phase == game.PhaseBattle {
		// The pending commitment binds the previous slot and cannot be
		// resolved for the new one.
		b.PlayerCommitment = nil
		b.AppendLog("You sent out " + team[index].Name + ".")
	}
	s.touch(b)
}

// ResetGame unconditionally restores the init phase with fresh clones
// of every monster, except while a turn is resolving.
func (s *Store) ResetGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.battle
	if b.IsResolving {
		return
	}
	b.Monsters = append(s.catalog.PlayerTeam(), s.catalog.EnemyTeam()...)
	b.Phase = game.PhaseInit
	b.Turn = 0
	b.Winner = game.WinnerNone
	b.ActivePlayerIndex = 0
	b.ActiveEnemyIndex = 0
	b.PlayerCommitment = nil
	b.EnemyCommitment = nil
	b.CommitmentScheme = ""
	b.LastLog = []string{}
	s.touch(b)
}

// Expire finishes an in-progress battle whose stale deadline has
// passed. Returns true when the battle was expired. A battle that is
// mid-resolve is left alone; the scanner will pick it up next tick.
func (s *Store) Expire(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.battle
	if b.Phase != game.PhaseBattle || b.IsResolving {
		return false
	}
	if b.StaleDeadline.IsZero() || b.StaleDeadline.After(now) {
		return false
	}
	b.Phase = game.PhaseFinished
	b.PlayerCommitment = nil
	b.EnemyCommitment = nil
	b.StaleDeadline = time.Time{}
	b.AppendLog("Battle expired due to inactivity.")
	return true
}

// Snapshot returns a deep copy of the battle for presentation.
func (s *Store) Snapshot() game.Battle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotBattle(s.battle)
}

// Battle exposes the owned aggregate for persistence. Callers must not
// retain the pointer past the current operation.
func (s *Store) Battle() *game.Battle { return s.battle }

func (s *Store) touch(b *game.Battle) {
	if s.opts.StaleTTL > 0 {
		b.StaleDeadline = time.Now().Add(s.opts.StaleTTL)
	}
}

func snapshotBattle(b *game.Battle) game.Battle {
	out := *b
	out.Monsters = make([]game.Monster, len(b.Monsters))
	copy(out.Monsters, b.Monsters)
	for i := range out.Monsters {
		moves := make([]game.Move, len(out.Monsters[i].Moves))
		copy(moves, out.Monsters[i].Moves)
		out.Monsters[i].Moves = moves
		effects := make([]game.ActiveEffect, len(out.Monsters[i].ActiveEffects))
		copy(effects, out.Monsters[i].ActiveEffects)
		out.Monsters[i].ActiveEffects = effects
	}
	out.LastLog = append([]string(nil), b.LastLog...)
	if b.PlayerCommitment != nil {
		pc := *b.PlayerCommitment
		out.PlayerCommitment = &pc
	}
	if b.EnemyCommitment != nil {
		ec := *b.EnemyCommitment
		out.EnemyCommitment = &ec
	}
	if b.StoredPlayerCommitment != nil {
		rc := *b.StoredPlayerCommitment
		out.StoredPlayerCommitment = &rc
	}
	if b.StoredEnemyCommitment != nil {
		rc := *b.StoredEnemyCommitment
		out.StoredEnemyCommitment = &rc
	}
	return out
}
