package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/team-task-tracker/internal/utils"
)

// Paginate limits a query to one page window
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ActiveTasks excludes soft-deleted tasks.
func ActiveTasks(db *gorm.DB) *gorm.DB {
	return db.Where("tasks.is_deleted = ?", false)
}

// AssignedTo restricts tasks to one assignee.
func AssignedTo(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.assigned_to = ?", userID)
	}
}

// InTeam restricts tasks to one team.
func InTeam(teamID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.team_id = ?", teamID)
	}
}
