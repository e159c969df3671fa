package models

import "gorm.io/gorm"

type Message struct {
	gorm.Model

	ConversationID uint   `gorm:"not null;index"`
	SenderID       uint   `gorm:"not null;index"`
	Content        string `gorm:"not null"`

	// Relationships
	Conversation Conversation `gorm:"foreignKey:ConversationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Sender       User         `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reactions    []Reaction   `gorm:"foreignKey:MessageID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
