package dto

import (
	"time"

	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
)

// OrganizationWithRoleDTO represents an organization with the user's role
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.OrganizationRole `json:"role"`
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	User     UserDTO                 `json:"user"`
	Role     models.OrganizationRole `json:"role"`
	JoinedAt time.Time               `json:"joined_at"`
}

// OrganizationDetailDTO represents detailed organization information
type OrganizationDetailDTO struct {
	OrganizationDTO
	Members  []OrganizationMemberDTO `json:"members"`
	YourRole models.OrganizationRole `json:"your_role"`
}

// MemberOverviewDTO is one member's row of the team overview
type MemberOverviewDTO struct {
	User         UserDTO                   `json:"user"`
	Role         models.OrganizationRole   `json:"role"`
	Tasks        []TaskDTO                 `json:"tasks"`
	StatusCounts map[models.TaskStatus]int `json:"status_counts"`
}

// TeamOverviewDTO is the team overview keyed by member ID
type TeamOverviewDTO struct {
	OrganizationID string                       `json:"organization_id"`
	Members        map[string]MemberOverviewDTO `json:"members"`
	Warnings       []string                     `json:"warnings"`
}

// ToOrganizationWithRoleDTO converts an organization member to DTO with role
func ToOrganizationWithRoleDTO(member models.OrganizationMember) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(member.Organization, false),
		Role:            member.Role,
	}
}

// ToOrganizationMemberDTO converts a directory member to DTO
func ToOrganizationMemberDTO(member identity.Member) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		User:     toProfileDTO(member.Profile),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToOrganizationMemberDTOs converts a roster
func ToOrganizationMemberDTOs(members []identity.Member) []OrganizationMemberDTO {
	dtos := make([]OrganizationMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToOrganizationMemberDTO(member)
	}
	return dtos
}

// ToOrganizationDetailDTO converts organization with members to detailed DTO.
// The invite code is only shown to admins.
func ToOrganizationDetailDTO(org models.Organization, members []identity.Member, yourRole models.OrganizationRole) OrganizationDetailDTO {
	return OrganizationDetailDTO{
		OrganizationDTO: ToOrganizationDTO(org, yourRole == models.RoleAdmin),
		Members:         ToOrganizationMemberDTOs(members),
		YourRole:        yourRole,
	}
}

// ToTeamOverviewDTO converts the service overview
func ToTeamOverviewDTO(overview *services.TeamOverview) TeamOverviewDTO {
	members := make(map[string]MemberOverviewDTO, len(overview.Members))
	for id, member := range overview.Members {
		members[id] = MemberOverviewDTO{
			User:         toProfileDTO(member.Profile),
			Role:         member.Role,
			Tasks:        ToTaskDTOs(member.Tasks),
			StatusCounts: member.StatusCounts,
		}
	}

	return TeamOverviewDTO{
		OrganizationID: overview.OrganizationID,
		Members:        members,
		Warnings:       overview.Warnings,
	}
}

func toProfileDTO(profile identity.Profile) UserDTO {
	return UserDTO{
		ID:    profile.ID,
		Email: profile.Email,
		Name:  profile.Name,
	}
}
