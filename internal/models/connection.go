package models

import "gorm.io/gorm"

const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection is directed at creation (requester vs addressee) but existence
// checks treat the pair as undirected.
type Connection struct {
	gorm.Model

	RequesterID uint   `gorm:"not null;index"`
	AddresseeID uint   `gorm:"not null;index"`
	Status      string `gorm:"not null;default:pending"`

	// Relationships
	Requester User `gorm:"foreignKey:RequesterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Addressee User `gorm:"foreignKey:AddresseeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
