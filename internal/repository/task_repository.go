package repository

import (
	"context"

	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a non-deleted task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Scopes(database.ActiveTasks).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByAssignee retrieves a user's tasks with filtering and pagination.
// High priority first, then by nearest deadline.
func (r *GormTaskRepository) ListByAssignee(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(database.ActiveTasks, database.AssignedTo(filter.AssignedTo))

	if filter.TeamID != nil {
		query = query.Scopes(database.InTeam(*filter.TeamID))
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order(
		"CASE tasks.priority WHEN 'High' THEN 0 WHEN 'Medium' THEN 1 ELSE 2 END, tasks.deadline ASC, tasks.id ASC",
	)

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	var tasks []models.Task
	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListForMember lists one member's tasks inside one team
func (r *GormTaskRepository) ListForMember(ctx context.Context, teamID, assignee string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.ActiveTasks, database.InTeam(teamID), database.AssignedTo(assignee)).
		Order("tasks.id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateColumns writes updates to a non-deleted task in one UPDATE statement
func (r *GormTaskRepository) UpdateColumns(ctx context.Context, id uint64, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(database.ActiveTasks).
		Where("tasks.id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdateFinishedColumns writes updates only if the task is still finished
func (r *GormTaskRepository) UpdateFinishedColumns(ctx context.Context, id uint64, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(database.ActiveTasks).
		Where("tasks.id = ? AND tasks.status = ?", id, models.TaskStatusFinished).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// SoftDelete flags a task as deleted
func (r *GormTaskRepository) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	return r.UpdateColumns(ctx, id, map[string]interface{}{"is_deleted": true})
}
