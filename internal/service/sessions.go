// Package service orchestrates battle sessions: it keeps the live
// battle stores in memory, loads them from storage on demand and
// persists every state change back through the repository.
package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/veilmon/veilmon-server/internal/battle"
	"github.com/veilmon/veilmon-server/internal/catalog"
	"github.com/veilmon/veilmon-server/internal/commitment"
	"github.com/veilmon/veilmon-server/internal/constants"
	"github.com/veilmon/veilmon-server/internal/game"
	"github.com/veilmon/veilmon-server/internal/logging"
	"github.com/veilmon/veilmon-server/internal/storage"
	"github.com/veilmon/veilmon-server/internal/zk"
)

var ErrBattleNotFound = errors.New("battle not found")

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 8
)

// Notifier receives a snapshot after every mutating operation; the API
// layer uses it to push state over WebSocket.
type Notifier func(sessionCode string, snapshot game.Battle)

// Sessions is the multi-battle front of the single-battle Store.
type Sessions struct {
	repo   storage.Repository
	cat    *catalog.Catalog
	scheme commitment.Scheme
	proofs zk.ProofService
	opts   battle.Options

	mu      sync.Mutex
	stores  map[string]*battle.Store
	codeRng *rand.Rand

	notify Notifier
}

// NewSessions wires a session manager. opts is passed through to every
// store it creates.
func NewSessions(repo storage.Repository, cat *catalog.Catalog, scheme commitment.Scheme, proofs zk.ProofService, opts battle.Options, codeSeed int64) *Sessions {
	return &Sessions{
		repo:    repo,
		cat:     cat,
		scheme:  scheme,
		proofs:  proofs,
		opts:    opts,
		stores:  make(map[string]*battle.Store),
		codeRng: rand.New(rand.NewSource(codeSeed)),
	}
}

// SetNotifier registers the snapshot push hook. Call before serving.
func (s *Sessions) SetNotifier(n Notifier) { s.notify = n }

// CreateBattle provisions a new session in the init phase.
func (s *Sessions) CreateBattle(walletAddress string) (game.Battle, error) {
	b := battle.NewBattle(s.cat)
	b.WalletAddress = walletAddress

	s.mu.Lock()
	b.SessionCode = s.newSessionCode()
	s.mu.Unlock()

	if err := s.repo.CreateBattle(b); err != nil {
		return game.Battle{}, err
	}
	st := battle.NewStore(b, s.cat, s.scheme, s.proofs, s.opts)
	s.mu.Lock()
	s.stores[b.SessionCode] = st
	s.mu.Unlock()

	logging.Info("battle session created", logging.Fields{
		constants.LogFieldBattleID: b.ID,
		constants.LogFieldSession:  b.SessionCode,
		constants.LogFieldScheme:   s.scheme.Name(),
	})
	return st.Snapshot(), nil
}

// GetBattle returns the current snapshot for a session.
func (s *Sessions) GetBattle(code string) (game.Battle, error) {
	st, err := s.store(code)
	if err != nil {
		return game.Battle{}, err
	}
	return st.Snapshot(), nil
}

// StartBattle transitions the session into the battle phase.
func (s *Sessions) StartBattle(ctx context.Context, code string) (game.Battle, error) {
	st, err := s.store(code)
	if err != nil {
		return game.Battle{}, err
	}
	if err := st.StartBattle(ctx); err != nil {
		return game.Battle{}, err
	}
	return s.persistAndNotify(code, st)
}

// CommitMove commits the player's move for the current turn.
func (s *Sessions) CommitMove(ctx context.Context, code, moveID string) (game.Battle, error) {
	st, err := s.store(code)
	if err != nil {
		return game.Battle{}, err
	}
	if err := st.CommitPlayerMove(ctx, moveID); err != nil {
		return game.Battle{}, err
	}
	return s.persistAndNotify(code, st)
}

// ResolveTurn resolves the pending turn.
func (s *Sessions) ResolveTurn(ctx context.Context, code string) (game.Battle, error) {
	st, err := s.store(code)
	if err != nil {
		return game.Battle{}, err
	}
	resolveErr := st.ResolveTurn(ctx)
	if resolveErr != nil && !errors.Is(resolveErr, battle.ErrInvalidProof) {
		return game.Battle{}, resolveErr
	}
	// A rejected proof still cleared the pending commitment; persist
	// that and surface the rejection to the caller.
	snap, err := s.persistAndNotify(code, st)
	if err != nil {
		return game.Battle{}, err
	}
	return snap, resolveErr
}

// SwitchMonster changes the active player monster.
func (s *Sessions) SwitchMonster(code string, index int) (game.Battle, error) {
	st, err := s.store(code)
	if err != nil {
		return game.Battle{}, err
	}
	st.SwitchPlayerMonster(index)
	return s.persistAndNotify(code, st)
}

// ResetBattle restores the session to the init phase.
func (s *Sessions) ResetBattle(code string) (game.Battle, error) {
	st, err := s.store(code)
	if err != nil {
		return game.Battle{}, err
	}
	st.ResetGame()
	return s.persistAndNotify(code, st)
}

func (s *Sessions) persistAndNotify(code string, st *battle.Store) (game.Battle, error) {
	snap := st.Snapshot()
	if err := s.repo.UpdateBattle(&snap); err != nil {
		return game.Battle{}, err
	}
	if s.notify != nil {
		s.notify(code, snap)
	}
	return snap, nil
}

func (s *Sessions) store(code string) (*battle.Store, error) {
	s.mu.Lock()
	if st, ok := s.stores[code]; ok {
		s.mu.Unlock()
		return st, nil
	}
	s.mu.Unlock()

	b, err := s.repo.FindBattleBySessionCode(code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBattleNotFound
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have loaded the session while we hit the DB.
	if st, ok := s.stores[code]; ok {
		return st, nil
	}
	st := battle.NewStore(b, s.cat, s.scheme, s.proofs, s.opts)
	s.stores[code] = st
	return st, nil
}

func (s *Sessions) newSessionCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[s.codeRng.Intn(len(codeCharset))]
	}
	return string(b)
}
