package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session tracks one attendee browsing session for analytics. Keys are
// server-issued UUIDs rather than autoincrement ids.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    uint      `gorm:"not null;index"`
	StartedAt time.Time `gorm:"not null"`
	EndedAt   *time.Time

	// Relationships
	User   User           `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Events []SessionEvent `gorm:"foreignKey:SessionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type SessionEvent struct {
	ID         uint           `gorm:"primaryKey"`
	SessionID  string         `gorm:"not null;index;size:36"`
	Name       string         `gorm:"not null"`
	Properties datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time

	// Relationships
	Session Session `gorm:"foreignKey:SessionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
