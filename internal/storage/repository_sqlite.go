package storage

import (
	"time"

	"gorm.io/gorm"

	"github.com/veilmon/veilmon-server/internal/catalog"
	"github.com/veilmon/veilmon-server/internal/game"
)

type sqliteRepository struct {
	db *gorm.DB
	// cat rehydrates catalog-derived monster fields on every load; the
	// catalog (config) is the source of truth for stats and moves.
	cat *catalog.Catalog
}

// NewSQLiteRepository builds a Repository over an opened gorm DB.
func NewSQLiteRepository(db *gorm.DB, cat *catalog.Catalog) Repository {
	return &sqliteRepository{db: db, cat: cat}
}

func (r *sqliteRepository) CreateBattle(b *game.Battle) error {
	return r.db.Create(b).Error
}

func (r *sqliteRepository) GetBattleByID(id uint) (*game.Battle, error) {
	var b game.Battle
	if err := r.db.Preload("Monsters").First(&b, id).Error; err != nil {
		return nil, err
	}
	r.rehydrate(&b)
	return &b, nil
}

func (r *sqliteRepository) FindBattleBySessionCode(code string) (*game.Battle, error) {
	var b game.Battle
	if err := r.db.Preload("Monsters").Where("session_code = ?", code).First(&b).Error; err != nil {
		return nil, err
	}
	r.rehydrate(&b)
	return &b, nil
}

// UpdateBattle replaces the battle row and all of its monster rows.
// Start and reset hand the battle fresh clones, so row replacement is
// simpler and safer than diffing the association.
func (r *sqliteRepository) UpdateBattle(b *game.Battle) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("battle_id = ?", b.ID).Delete(&game.Monster{}).Error; err != nil {
			return err
		}
		for i := range b.Monsters {
			b.Monsters[i].ID = 0
			b.Monsters[i].BattleID = b.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(b).Error
	})
}

func (r *sqliteRepository) DeleteBattle(id uint) error {
	if err := r.db.Unscoped().Where("battle_id = ?", id).Delete(&game.Monster{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&game.Battle{}, id).Error
}

func (r *sqliteRepository) FindStaleBattles(now time.Time) ([]game.Battle, error) {
	var battles []game.Battle
	err := r.db.Preload("Monsters").
		Where("phase = ? AND stale_deadline != ? AND stale_deadline <= ?", game.PhaseBattle, time.Time{}, now).
		Find(&battles).Error
	if err != nil {
		return nil, err
	}
	for i := range battles {
		r.rehydrate(&battles[i])
	}
	return battles, nil
}

func (r *sqliteRepository) rehydrate(b *game.Battle) {
	if r.cat == nil {
		return
	}
	for i := range b.Monsters {
		r.cat.Rehydrate(&b.Monsters[i])
	}
}
