package catalog

import "time"

// Game is the DB model for one catalog entry. Position keeps document order.
type Game struct {
	ID          string `gorm:"primaryKey;size:64"`
	Position    int    `gorm:"index;not null"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Thumbnail   string `gorm:"size:1024"`
	URL         string `gorm:"size:1024;not null"`
	CreatedAt   time.Time
}

func (Game) TableName() string { return "catalog_games" }
