package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound       = apierrors.NewNotFoundError("organization not found")
	ErrInvalidOrganizationName    = apierrors.NewValidationError("organization name cannot be empty")
	ErrInvalidInviteCode          = apierrors.NewNotFoundError("invalid invite code")
	ErrAlreadyOrganizationMember  = apierrors.NewConflictError("user is already a member of this organization")
	ErrCannotRemoveYourself       = apierrors.NewValidationError("cannot remove yourself from the organization")
	ErrOrganizationMemberNotFound = apierrors.NewNotFoundError("organization member not found")
)

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	orgRepo   repository.OrganizationRepository
	directory identity.Directory
	now       func() time.Time
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, directory identity.Directory) *OrganizationService {
	return &OrganizationService{
		orgRepo:   orgRepo,
		directory: directory,
		now:       time.Now,
	}
}

// CreateOrganization creates a team with the creator as its admin.
func (s *OrganizationService) CreateOrganization(ctx context.Context, name, creatorID string) (*models.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidOrganizationName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, apierrors.Store("failed to generate invite code", err)
	}

	org := &models.Organization{
		Name:       name,
		InviteCode: inviteCode,
	}
	admin := &models.OrganizationMember{
		UserID:   creatorID,
		JoinedAt: s.now(),
	}

	if err := s.orgRepo.CreateWithAdmin(ctx, org, admin); err != nil {
		return nil, apierrors.Store("failed to create organization", err)
	}

	return org, nil
}

// ListOrganizationsForUser returns the user's memberships with their organization.
func (s *OrganizationService) ListOrganizationsForUser(ctx context.Context, userID string) ([]models.OrganizationMember, error) {
	memberships, err := s.orgRepo.ListMembersByUserID(ctx, userID)
	if err != nil {
		return nil, apierrors.Store("failed to list organizations", err)
	}
	return memberships, nil
}

// GetOrganization returns an organization.
func (s *OrganizationService) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, apierrors.Store("failed to find organization", err)
	}
	return org, nil
}

// ListMembers returns the organization's roster.
func (s *OrganizationService) ListMembers(ctx context.Context, orgID string) ([]identity.Member, error) {
	members, err := s.directory.ListMembers(ctx, orgID)
	if err != nil {
		return nil, apierrors.Provider("failed to list organization members", err)
	}
	return members, nil
}

// MemberRole returns the user's role in the organization.
func (s *OrganizationService) MemberRole(ctx context.Context, orgID, userID string) (models.OrganizationRole, error) {
	role, err := s.directory.MemberRole(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotMember) {
			return "", ErrOrganizationMemberNotFound
		}
		return "", apierrors.Provider("failed to look up role", err)
	}
	return role, nil
}

// JoinOrganizationByInvite adds a user to an organization via invite code.
func (s *OrganizationService) JoinOrganizationByInvite(ctx context.Context, userID, inviteCode string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByInviteCode(ctx, utils.NormalizeInviteCode(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, apierrors.Store("failed to find organization by invite code", err)
	}

	if _, err := s.orgRepo.FindMember(ctx, org.ID, userID); err == nil {
		return nil, ErrAlreadyOrganizationMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.Store("failed to verify membership", err)
	}

	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         userID,
		Role:           models.RoleMember,
		JoinedAt:       s.now(),
	}

	if err := s.orgRepo.AddMember(ctx, member); err != nil {
		return nil, apierrors.Store("failed to add member to organization", err)
	}

	return org, nil
}

// RegenerateInviteCode generates a new invite code for the organization.
func (s *OrganizationService) RegenerateInviteCode(ctx context.Context, orgID string) (*models.Organization, error) {
	org, err := s.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, apierrors.Store("failed to generate invite code", err)
	}

	org.InviteCode = code
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, apierrors.Store("failed to update invite code", err)
	}

	return org, nil
}

// RemoveMember removes a member from the organization.
func (s *OrganizationService) RemoveMember(ctx context.Context, orgID, actorID, targetID string) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.orgRepo.FindMember(ctx, orgID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationMemberNotFound
		}
		return apierrors.Store("failed to find organization member", err)
	}

	if err := s.orgRepo.RemoveMember(ctx, orgID, targetID); err != nil {
		return apierrors.Store("failed to remove member", err)
	}

	return nil
}
