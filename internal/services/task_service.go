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
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = apierrors.NewNotFoundError("task not found")
	ErrTitleRequired     = apierrors.NewValidationError("title is required")
	ErrAssigneeRequired  = apierrors.NewValidationError("assigned_to is required")
	ErrTeamRequired      = apierrors.NewValidationError("team_id is required")
	ErrInvalidPriority   = apierrors.NewValidationError("priority must be one of High, Medium, Low")
	ErrAssigneeNotMember = apierrors.NewValidationError("assignee is not a member of the team")
	ErrNotTeamMember     = apierrors.NewAccessDeniedError(apierrors.ErrCodeForbidden, "you are not a member of this team")
	ErrTaskNotFinished   = apierrors.NewConflictError("task is not finished")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	directory identity.Directory
	log       *zap.Logger
	now       func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, directory identity.Directory, log *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		directory: directory,
		log:       log,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for default deadlines.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title      string
	AssignedTo string
	TeamID     string
	CreatedBy  string
	Priority   models.TaskPriority
	Deadline   *time.Time
}

// ListTasksInput represents filters for the caller's task list
type ListTasksInput struct {
	UserID   string
	TeamID   *string
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Page     int
	PageSize int
}

// CreateTask validates the input and inserts a pending task. The deadline
// defaults to the upcoming Friday.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	assignee := strings.TrimSpace(input.AssignedTo)
	if assignee == "" {
		return nil, ErrAssigneeRequired
	}
	if input.TeamID == "" {
		return nil, ErrTeamRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if _, err := s.directory.MemberRole(ctx, input.TeamID, input.CreatedBy); err != nil {
		if errors.Is(err, identity.ErrNotMember) {
			return nil, ErrNotTeamMember
		}
		return nil, apierrors.Provider("failed to verify membership", err)
	}
	if _, err := s.directory.MemberRole(ctx, input.TeamID, assignee); err != nil {
		if errors.Is(err, identity.ErrNotMember) {
			return nil, ErrAssigneeNotMember
		}
		return nil, apierrors.Provider("failed to verify assignee", err)
	}

	deadline := utils.NextFriday(s.now())
	if input.Deadline != nil {
		deadline = utils.StartOfDay(*input.Deadline)
	}

	task := &models.Task{
		Title:      title,
		AssignedTo: assignee,
		TeamID:     input.TeamID,
		CreatedBy:  input.CreatedBy,
		Status:     models.TaskStatusPending,
		Priority:   priority,
		Deadline:   deadline,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, apierrors.Store("failed to create task", err)
	}

	s.log.Info("task created",
		zap.Uint64("task_id", task.ID),
		zap.String("team_id", task.TeamID),
		zap.String("assigned_to", task.AssignedTo),
	)
	return task, nil
}

// GetTask returns a non-deleted task
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, apierrors.Store("failed to find task", err)
	}
	return task, nil
}

// ListTasks returns the tasks assigned to the user
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.ListByAssignee(ctx, repository.TaskFilter{
		AssignedTo: input.UserID,
		TeamID:     input.TeamID,
		Status:     input.Status,
		Priority:   input.Priority,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, apierrors.Store("failed to list tasks", err)
	}
	return tasks, total, nil
}

// SetStatus moves a task to next. Finishing requires details, which are
// written together with the status in one statement. A move that changes
// nothing is not written.
func (s *TaskService) SetStatus(ctx context.Context, taskID uint64, next models.TaskStatus, details *models.CompletionDetails) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	updates, err := task.Transition(next, details)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return task, nil
	}

	if err := s.applyUpdates(ctx, taskID, updates, s.taskRepo.UpdateColumns); err != nil {
		return nil, err
	}

	s.log.Info("task status changed",
		zap.Uint64("task_id", taskID),
		zap.String("from", string(task.Status)),
		zap.String("to", string(next)),
	)
	return s.GetTask(ctx, taskID)
}

// EditCompletedTask overwrites the completion details of a finished task.
func (s *TaskService) EditCompletedTask(ctx context.Context, taskID uint64, details *models.CompletionDetails) (*models.Task, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}

	err := s.applyUpdates(ctx, taskID, details.Columns(), s.taskRepo.UpdateFinishedColumns)
	if errors.Is(err, ErrTaskNotFound) {
		// Nothing matched: tell a missing task apart from an unfinished one.
		if _, getErr := s.GetTask(ctx, taskID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrTaskNotFinished
	}
	if err != nil {
		return nil, err
	}

	return s.GetTask(ctx, taskID)
}

// DeleteTask soft-deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	rows, err := s.taskRepo.SoftDelete(ctx, taskID)
	if err != nil {
		return apierrors.Store("failed to delete task", err)
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}

type updateFunc func(ctx context.Context, id uint64, updates map[string]interface{}) (int64, error)

func (s *TaskService) applyUpdates(ctx context.Context, taskID uint64, updates map[string]interface{}, update updateFunc) error {
	rows, err := update(ctx, taskID, updates)
	if err != nil {
		return apierrors.Store("failed to update task", err)
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}
