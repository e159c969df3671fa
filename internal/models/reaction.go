package models

import "time"

// Reaction rows are hard-deleted so the unique triple index never collides
// with a previously removed reaction.
type Reaction struct {
	ID        uint   `gorm:"primaryKey"`
	MessageID uint   `gorm:"not null;uniqueIndex:idx_reactions_triple"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_reactions_triple"`
	Emoji     string `gorm:"size:16;not null;uniqueIndex:idx_reactions_triple"`
	CreatedAt time.Time

	// Relationships
	Message Message `gorm:"foreignKey:MessageID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
