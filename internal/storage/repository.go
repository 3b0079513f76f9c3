package storage

import (
	"time"

	"gorm.io/gorm"

	"github.com/veilmon/veilmon-server/internal/game"
)

// ErrNotFound is returned when a battle does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// Repository persists live battle sessions. Battle history is
// deliberately not stored; a finished or reset session simply keeps its
// final row until expired.
type Repository interface {
	CreateBattle(b *game.Battle) error
	GetBattleByID(id uint) (*game.Battle, error)
	// FindBattleBySessionCode resolves the external session identifier.
	FindBattleBySessionCode(code string) (*game.Battle, error)
	UpdateBattle(b *game.Battle) error
	DeleteBattle(id uint) error
	// FindStaleBattles returns in-progress battles whose stale deadline
	// is at or before now. The caller decides how to expire them.
	FindStaleBattles(now time.Time) ([]game.Battle, error)
}
