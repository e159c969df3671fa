package models

import "gorm.io/gorm"

type Question struct {
	gorm.Model

	UserID    uint   `gorm:"not null;index"`
	PanelName string `gorm:"not null"`
	Text      string `gorm:"not null"`
	Answered  bool   `gorm:"not null;default:false"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
