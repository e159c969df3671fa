package models

import "gorm.io/gorm"

type Conversation struct {
	gorm.Model

	Name string `gorm:"not null"`
	Kind string `gorm:"not null"` // "group", "direct"

	// Relationships
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
