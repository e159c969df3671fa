package models

import (
	"strings"
	"time"

	"github.com/glory-summit/summit/internal/types"
	"gorm.io/gorm"
)

const (
	RoleAttendee  = "attendee"
	RolePanelist  = "panelist"
	RoleModerator = "moderator"
	RoleGloryTeam = "glory_team"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string // empty for OAuth-provisioned accounts
	Role         string `gorm:"not null;default:attendee"`
	Online       bool   `gorm:"not null;default:false"`
	LastSeenAt   *time.Time
	AvatarURL    string
	Company      string
	Title        string
	LinkedInURL  string

	// Relationships
	Messages        []Message        `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reactions       []Reaction       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Questions       []Question       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	SurveyResponses []SurveyResponse `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Sessions        []Session        `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// BeforeCreate promotes accounts on the reserved team email domain to the
// glory_team role. Everyone else defaults to attendee.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleAttendee
	}

	if types.TeamDomain != "" && strings.HasSuffix(strings.ToLower(u.Email), "@"+types.TeamDomain) {
		u.Role = RoleGloryTeam
	}

	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleModerator || u.Role == RoleGloryTeam
}
