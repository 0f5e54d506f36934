package catalog

import (
	"context"

	"gorm.io/gorm"
)

// Repo provides GORM-based persistence for catalog documents.
type Repo struct{ db *gorm.DB }

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&Game{}) }
func NewRepo(db *gorm.DB) *Repo     { return &Repo{db: db} }

// ReplaceAll swaps the stored catalog for games in one transaction.
func (r *Repo) ReplaceAll(ctx context.Context, games []*Game) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Game{}).Error; err != nil {
			return err
		}
		if len(games) == 0 {
			return nil
		}
		for i, g := range games {
			g.Position = i
		}
		return tx.CreateInBatches(games, 100).Error
	})
}

// List returns all rows in document order.
func (r *Repo) List(ctx context.Context) ([]*Game, error) {
	var arr []*Game
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&arr).Error; err != nil {
		return nil, err
	}
	return arr, nil
}
