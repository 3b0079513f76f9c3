package game

import (
	"time"

	"gorm.io/gorm"
)

// Phase describes the battle lifecycle: init -> battle -> finished.
// finished is terminal except for an explicit reset which re-enters init.
type Phase string

const (
	PhaseInit     Phase = "init"
	PhaseBattle   Phase = "battle"
	PhaseFinished Phase = "finished"
)

// Side identifies which team a monster belongs to.
type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

// Winner is set only when Phase == PhaseFinished.
type Winner string

const (
	WinnerNone   Winner = ""
	WinnerPlayer Winner = "player"
	WinnerEnemy  Winner = "enemy"
)

// MoveKind classifies what a move does when it lands.
type MoveKind string

const (
	MoveAttack MoveKind = "attack"
	MoveStatus MoveKind = "status"
	MoveHeal   MoveKind = "heal"
)

// EffectKind tags the status effect a move applies. Effects last until
// the end of the turn after the one in which they were applied.
type EffectKind string

const (
	EffectNone    EffectKind = "none"
	EffectShield  EffectKind = "shield"  // incoming damage halved
	EffectBind    EffectKind = "bind"    // target skips its next action
	EffectNullify EffectKind = "nullify" // strips active effects, blocks new ones
	EffectBoost   EffectKind = "boost"   // +50% attack
)

// DefaultMovePower is used when a catalog move does not declare a power.
const DefaultMovePower = 20

// MaxLogLines caps lastLog growth (the original design was unbounded).
const MaxLogLines = 200

// Move is an immutable catalog entry. Moves are sourced from the preset
// catalog (optionally overridden by the server config) and are never
// persisted; monsters carry a PresetID and are rehydrated on load.
type Move struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Kind   MoveKind   `json:"kind"`
	Power  int        `json:"power,omitempty"`
	Effect EffectKind `json:"effect"`
}

// EffectivePower returns the move's power, falling back to the default.
func (m Move) EffectivePower() int {
	if m.Power > 0 {
		return m.Power
	}
	return DefaultMovePower
}

// ActiveEffect is a status effect currently applied to a monster.
// UntilTurn is inclusive: the effect is live while battle.Turn <= UntilTurn.
type ActiveEffect struct {
	Kind      EffectKind `json:"kind"`
	UntilTurn int        `json:"until_turn"`
}

// Monster is a battle participant. BaseMaxHP is immutable after cloning
// from the catalog; CurrentHP is the only HP field mutated during play.
// Invariant: 0 <= CurrentHP <= BaseMaxHP.
type Monster struct {
	gorm.Model
	BattleID uint   `json:"-"`
	PresetID string `json:"preset_id"`
	Side     Side   `json:"side"`
	// Slot is the monster's position within its team (0-based).
	Slot int `json:"slot"`

	Name      string `json:"name"`
	BaseMaxHP int    `json:"base_max_hp"`
	CurrentHP int    `json:"current_hp"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	Speed     int    `json:"speed"`

	// Moves come from the catalog (config is the source of truth) and are
	// rehydrated on every load, so GORM must not persist them.
	Moves []Move `json:"moves" gorm:"-"`

	ActiveEffects []ActiveEffect `json:"active_effects" gorm:"serializer:json"`
}

// Fainted reports whether the monster is out of the battle.
func (m *Monster) Fainted() bool { return m.CurrentHP <= 0 }

// MoveByID returns the monster's move with the given id, or nil.
func (m *Monster) MoveByID(id string) *Move {
	for i := range m.Moves {
		if m.Moves[i].ID == id {
			return &m.Moves[i]
		}
	}
	return nil
}

// HasEffect reports whether an effect of the given kind is live at turn.
func (m *Monster) HasEffect(kind EffectKind, turn int) bool {
	for _, e := range m.ActiveEffects {
		if e.Kind == kind && e.UntilTurn >= turn {
			return true
		}
	}
	return false
}

// ExpireEffects drops effects whose window closed before turn.
func (m *Monster) ExpireEffects(turn int) {
	kept := m.ActiveEffects[:0]
	for _, e := range m.ActiveEffects {
		if e.UntilTurn >= turn {
			kept = append(kept, e)
		}
	}
	m.ActiveEffects = kept
}

// PendingCommitment holds the opaque token returned by the commitment
// scheme together with the local opening needed to reveal it at
// resolution time. Payload and Opening never appear in API responses.
type PendingCommitment struct {
	Token   string `json:"token"`
	Payload string `json:"-"`
	Opening string `json:"-"`
}

// CommitmentRecord is the persisted form of a pending commitment. The
// API type hides Payload and Opening from JSON, and the gorm JSON
// serializer honors the same tags, so persistence needs its own
// representation or a reloaded session could never reveal its move.
type CommitmentRecord struct {
	Token   string `json:"token"`
	Payload string `json:"payload"`
	Opening string `json:"opening"`
}

func recordOf(p *PendingCommitment) *CommitmentRecord {
	if p == nil {
		return nil
	}
	return &CommitmentRecord{Token: p.Token, Payload: p.Payload, Opening: p.Opening}
}

func pendingOf(r *CommitmentRecord) *PendingCommitment {
	if r == nil {
		return nil
	}
	return &PendingCommitment{Token: r.Token, Payload: r.Payload, Opening: r.Opening}
}

// Battle is the aggregate root for one battle session.
type Battle struct {
	gorm.Model
	// SessionCode is the external identifier clients use to address the
	// battle (short alphanumeric, unique).
	SessionCode string `json:"session_code" gorm:"unique"`
	// WalletAddress is the opaque identity supplied by the external
	// wallet collaborator. The server never interprets it.
	WalletAddress string `json:"wallet_address"`

	Phase  Phase  `json:"phase"`
	Turn   int    `json:"turn"`
	Winner Winner `json:"winner,omitempty"`

	Monsters []Monster `json:"monsters" gorm:"foreignKey:BattleID"`

	ActivePlayerIndex int `json:"active_player_index"`
	ActiveEnemyIndex  int `json:"active_enemy_index"`

	PlayerCommitment *PendingCommitment `json:"player_commitment,omitempty" gorm:"-"`
	EnemyCommitment  *PendingCommitment `json:"enemy_commitment,omitempty" gorm:"-"`

	// Stored* mirror the pending commitments for persistence; the
	// BeforeSave/AfterFind hooks keep the two in sync.
	StoredPlayerCommitment *CommitmentRecord `json:"-" gorm:"column:player_commitment;serializer:json"`
	StoredEnemyCommitment  *CommitmentRecord `json:"-" gorm:"column:enemy_commitment;serializer:json"`

	// CommitmentScheme records which scheme produced the pending tokens so
	// a server restarted with a different scheme refuses to reveal them.
	CommitmentScheme string `json:"commitment_scheme"`

	LastLog []string `json:"last_log" gorm:"serializer:json"`

	// IsResolving is a runtime re-entrancy guard, never persisted.
	IsResolving bool `json:"is_resolving" gorm:"-"`

	// StaleDeadline is the time after which an idle in-progress battle is
	// expired by the background scanner.
	StaleDeadline time.Time `json:"-"`
}

func (Battle) TableName() string { return "battle_sessions" }

// BeforeSave copies the pending commitments into their persisted form.
func (b *Battle) BeforeSave(*gorm.DB) error {
	b.StoredPlayerCommitment = recordOf(b.PlayerCommitment)
	b.StoredEnemyCommitment = recordOf(b.EnemyCommitment)
	return nil
}

// AfterFind restores the pending commitments from their persisted form.
func (b *Battle) AfterFind(*gorm.DB) error {
	b.PlayerCommitment = pendingOf(b.StoredPlayerCommitment)
	b.EnemyCommitment = pendingOf(b.StoredEnemyCommitment)
	return nil
}

// Team returns the ordered monsters of one side as mutable pointers into
// the battle's Monsters slice.
func (b *Battle) Team(side Side) []*Monster {
	team := make([]*Monster, 0, len(b.Monsters))
	for i := range b.Monsters {
		if b.Monsters[i].Side == side {
			team = append(team, &b.Monsters[i])
		}
	}
	// Monsters are created in slot order; keep the view ordered even if a
	// load returns rows out of order.
	for i := 1; i < len(team); i++ {
		for j := i; j > 0 && team[j-1].Slot > team[j].Slot; j-- {
			team[j-1], team[j] = team[j], team[j-1]
		}
	}
	return team
}

// PlayerTeam returns the player's monsters in slot order.
func (b *Battle) PlayerTeam() []*Monster { return b.Team(SidePlayer) }

// EnemyTeam returns the enemy's monsters in slot order.
func (b *Battle) EnemyTeam() []*Monster { return b.Team(SideEnemy) }

// ActivePlayer returns the player's active monster, or nil when the
// index is out of range.
func (b *Battle) ActivePlayer() *Monster {
	team := b.PlayerTeam()
	if b.ActivePlayerIndex < 0 || b.ActivePlayerIndex >= len(team) {
		return nil
	}
	return team[b.ActivePlayerIndex]
}

// ActiveEnemy returns the enemy's active monster, or nil when the index
// is out of range (which happens transiently when the last enemy faints).
func (b *Battle) ActiveEnemy() *Monster {
	team := b.EnemyTeam()
	if b.ActiveEnemyIndex < 0 || b.ActiveEnemyIndex >= len(team) {
		return nil
	}
	return team[b.ActiveEnemyIndex]
}

// AppendLog adds narration lines, keeping at most MaxLogLines entries.
func (b *Battle) AppendLog(lines ...string) {
	b.LastLog = append(b.LastLog, lines...)
	if over := len(b.LastLog) - MaxLogLines; over > 0 {
		b.LastLog = append(b.LastLog[:0], b.LastLog[over:]...)
	}
}
