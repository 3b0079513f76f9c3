package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veilmon/veilmon-server/internal/game"
)

// OpenAndMigrate opens the sqlite database at dataSourceName and keeps
// the schema updated via AutoMigrate.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.Battle{}, &game.Monster{}); err != nil {
		return nil, err
	}
	return db, nil
}
