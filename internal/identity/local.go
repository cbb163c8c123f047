package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"gorm.io/gorm"
)

// LocalDirectory serves the Directory from this service's own account tables.
type LocalDirectory struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewLocalDirectory creates a Directory backed by the account repositories.
func NewLocalDirectory(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *LocalDirectory {
	return &LocalDirectory{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

func (d *LocalDirectory) ListMembers(ctx context.Context, orgID string) ([]Member, error) {
	memberships, err := d.orgRepo.ListMembers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization members: %w", err)
	}

	members := make([]Member, 0, len(memberships))
	for _, m := range memberships {
		profile := ProfileOf(m.User)
		if profile.ID == "" {
			// Membership row whose user was removed.
			profile.ID = m.UserID
		}
		members = append(members, Member{
			Profile:  profile,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	return members, nil
}

func (d *LocalDirectory) MemberRole(ctx context.Context, orgID, userID string) (models.OrganizationRole, error) {
	member, err := d.orgRepo.FindMember(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotMember
		}
		return "", fmt.Errorf("failed to look up membership: %w", err)
	}
	return member.Role, nil
}

func (d *LocalDirectory) GetProfile(ctx context.Context, userID string) (Profile, error) {
	user, err := d.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, ErrUnknownUser
		}
		return Profile{}, fmt.Errorf("failed to find user: %w", err)
	}
	return ProfileOf(*user), nil
}
