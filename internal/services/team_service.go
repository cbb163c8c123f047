package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/team-task-tracker/internal/constants"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StatusCounts maps every task status to the number of tasks in it.
type StatusCounts map[models.TaskStatus]int

// NewStatusCounts returns counts with every status present and zero.
func NewStatusCounts() StatusCounts {
	counts := make(StatusCounts, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		counts[status] = 0
	}
	return counts
}

// MemberOverview is one member's row of the team overview.
type MemberOverview struct {
	Profile      identity.Profile        `json:"profile"`
	Role         models.OrganizationRole `json:"role"`
	Tasks        []models.Task           `json:"tasks"`
	StatusCounts StatusCounts            `json:"status_counts"`
}

// TeamOverview groups a team's tasks by member.
type TeamOverview struct {
	OrganizationID string                     `json:"organization_id"`
	Members        map[string]*MemberOverview `json:"members"`
	Warnings       []string                   `json:"warnings"`
}

// TeamService builds the manager's view of a team.
type TeamService struct {
	taskRepo  repository.TaskRepository
	directory identity.Directory
	log       *zap.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(taskRepo repository.TaskRepository, directory identity.Directory, log *zap.Logger) *TeamService {
	return &TeamService{
		taskRepo:  taskRepo,
		directory: directory,
		log:       log,
	}
}

// Overview fetches the roster and each member's tasks in the team. A failed
// fetch for one member leaves that member with no tasks and a warning; the
// rest of the overview is still returned.
func (s *TeamService) Overview(ctx context.Context, orgID string) (*TeamOverview, error) {
	members, err := s.directory.ListMembers(ctx, orgID)
	if err != nil {
		return nil, apierrors.Provider("failed to fetch team roster", err)
	}

	results := make([]*MemberOverview, len(members))
	fetchErrs := make([]error, len(members))

	var g errgroup.Group
	g.SetLimit(constants.OverviewConcurrency)
	for i, member := range members {
		g.Go(func() error {
			tasks, err := s.taskRepo.ListForMember(ctx, orgID, member.ID)
			if err != nil {
				fetchErrs[i] = err
				tasks = []models.Task{}
			}
			results[i] = summarizeMember(member, tasks)
			return nil
		})
	}
	_ = g.Wait()

	overview := &TeamOverview{
		OrganizationID: orgID,
		Members:        make(map[string]*MemberOverview, len(members)),
		Warnings:       []string{},
	}
	for i, member := range members {
		overview.Members[member.ID] = results[i]
		if fetchErrs[i] != nil {
			s.log.Warn("failed to fetch member tasks",
				zap.String("organization_id", orgID),
				zap.String("user_id", member.ID),
				zap.Error(fetchErrs[i]),
			)
			overview.Warnings = append(overview.Warnings,
				fmt.Sprintf("tasks for %s could not be loaded", member.Name))
		}
	}

	return overview, nil
}

func summarizeMember(member identity.Member, tasks []models.Task) *MemberOverview {
	counts := NewStatusCounts()
	for _, task := range tasks {
		counts[task.Status]++
	}
	return &MemberOverview{
		Profile:      member.Profile,
		Role:         member.Role,
		Tasks:        tasks,
		StatusCounts: counts,
	}
}
