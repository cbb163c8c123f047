package models

import "time"

type OrganizationRole string

const (
	RoleAdmin  OrganizationRole = "admin"
	RoleMember OrganizationRole = "member"
)

type OrganizationMember struct {
	OrganizationID string           `gorm:"type:varchar(64);primarykey" json:"organization_id"`
	UserID         string           `gorm:"type:varchar(64);primarykey" json:"user_id"`
	Role           OrganizationRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt       time.Time        `json:"joined_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsAdmin reports whether the member manages the organization.
func (m OrganizationMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}
