package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/veilmon/veilmon-server/internal/catalog"
	"github.com/veilmon/veilmon-server/internal/constants"
	"github.com/veilmon/veilmon-server/internal/game"
)

type moveEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Power  int    `json:"power"`
	Effect string `json:"effect"`
}

type monsterEntry struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	HitPoints int         `json:"hit_points"`
	Attack    int         `json:"attack"`
	Defense   int         `json:"defense"`
	Speed     int         `json:"speed"`
	Moves     []moveEntry `json:"moves"`
}

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	// CommitmentScheme selects "plaintext" or "mimc".
	CommitmentScheme string `json:"commitment_scheme"`
	// RequireValidProof aborts turn resolution on a rejected proof
	// instead of treating the verifier as advisory.
	RequireValidProof bool `json:"require_valid_proof"`
	// CollaboratorTimeoutSeconds bounds commitment/proof calls.
	CollaboratorTimeoutSeconds int `json:"collaborator_timeout_seconds"`
	// StaleBattleTTLSeconds is how long an idle in-progress battle
	// survives before the background scanner expires it.
	StaleBattleTTLSeconds int `json:"stale_battle_ttl_seconds"`
	// MonsterList optionally overrides built-in catalog presets by id.
	MonsterList []monsterEntry `json:"monster_list"`
}

// LoadedConfig is the validated server configuration.
type LoadedConfig struct {
	ServerAddress       string
	CommitmentScheme    string
	RequireValidProof   bool
	CollaboratorTimeout time.Duration
	StaleBattleTTL      time.Duration
	CatalogOverrides    []catalog.Preset
}

// Default returns the configuration used when no config file exists.
func Default() *LoadedConfig {
	return &LoadedConfig{
		ServerAddress:       ":8080",
		CommitmentScheme:    constants.SchemeMiMC,
		RequireValidProof:   false,
		CollaboratorTimeout: 10 * time.Second,
		StaleBattleTTL:      30 * time.Minute,
	}
}

// LoadConfig reads the configuration file at path. A missing file is an
// error; callers that want optional config should check with os.Stat.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	out := Default()
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if rc.CommitmentScheme != "" {
		scheme := strings.ToLower(strings.TrimSpace(rc.CommitmentScheme))
		if scheme != constants.SchemePlaintext && scheme != constants.SchemeMiMC {
			return nil, fmt.Errorf("config file %s: unknown commitment_scheme '%s'", path, rc.CommitmentScheme)
		}
		out.CommitmentScheme = scheme
	}
	out.RequireValidProof = rc.RequireValidProof
	if rc.CollaboratorTimeoutSeconds > 0 {
		out.CollaboratorTimeout = time.Duration(rc.CollaboratorTimeoutSeconds) * time.Second
	}
	if rc.StaleBattleTTLSeconds > 0 {
		out.StaleBattleTTL = time.Duration(rc.StaleBattleTTLSeconds) * time.Second
	}

	for _, m := range rc.MonsterList {
		preset, err := toPreset(m)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		out.CatalogOverrides = append(out.CatalogOverrides, preset)
	}
	return out, nil
}

func toPreset(m monsterEntry) (catalog.Preset, error) {
	if m.ID == "" || m.Name == "" {
		return catalog.Preset{}, fmt.Errorf("monster entry missing 'id' or 'name'")
	}
	if len(m.Moves) != 4 {
		return catalog.Preset{}, fmt.Errorf("monster '%s': exactly 4 moves required, got %d", m.ID, len(m.Moves))
	}
	moves := make([]game.Move, 0, len(m.Moves))
	for _, mv := range m.Moves {
		kind := game.MoveKind(strings.ToLower(strings.TrimSpace(mv.Kind)))
		switch kind {
		case game.MoveAttack, game.MoveStatus, game.MoveHeal:
		default:
			return catalog.Preset{}, fmt.Errorf("monster '%s': move '%s' has unknown kind '%s'", m.ID, mv.ID, mv.Kind)
		}
		effect := game.EffectNone
		if mv.Effect != "" {
			effect = game.EffectKind(strings.ToLower(strings.TrimSpace(mv.Effect)))
			switch effect {
			case game.EffectNone, game.EffectShield, game.EffectBind, game.EffectNullify, game.EffectBoost:
			default:
				return catalog.Preset{}, fmt.Errorf("monster '%s': move '%s' has unknown effect '%s'", m.ID, mv.ID, mv.Effect)
			}
		}
		moves = append(moves, game.Move{ID: mv.ID, Name: mv.Name, Kind: kind, Power: mv.Power, Effect: effect})
	}
	return catalog.Preset{
		ID:        m.ID,
		Name:      m.Name,
		BaseMaxHP: m.HitPoints,
		Attack:    m.Attack,
		Defense:   m.Defense,
		Speed:     m.Speed,
		Moves:     moves,
	}, nil
}
