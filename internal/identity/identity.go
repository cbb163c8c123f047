// Package identity answers who belongs to which organization, and with
// which role. Handlers and services only see the Directory interface, so
// the account store behind it can be swapped for a hosted identity provider.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/team-task-tracker/internal/models"
)

var (
	ErrNotMember   = errors.New("user is not a member of the organization")
	ErrUnknownUser = errors.New("user not found")
)

// Profile is the public part of a user account.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Member is a roster entry of an organization.
type Member struct {
	Profile
	Role     models.OrganizationRole `json:"role"`
	JoinedAt time.Time               `json:"joined_at"`
}

// Directory resolves organization rosters, roles and user profiles.
type Directory interface {
	// ListMembers returns the roster of an organization.
	ListMembers(ctx context.Context, orgID string) ([]Member, error)

	// MemberRole returns the user's role, or ErrNotMember.
	MemberRole(ctx context.Context, orgID, userID string) (models.OrganizationRole, error)

	// GetProfile returns a user's profile, or ErrUnknownUser.
	GetProfile(ctx context.Context, userID string) (Profile, error)
}

// ProfileOf converts a user record to its public profile.
func ProfileOf(user models.User) Profile {
	return Profile{
		ID:    user.ID,
		Name:  user.DisplayName(),
		Email: user.Email,
	}
}
