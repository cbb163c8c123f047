package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusFinished TaskStatus = "finished"
	TaskStatusRoll     TaskStatus = "roll"
	TaskStatusCancel   TaskStatus = "cancel"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{
	TaskStatusFinished,
	TaskStatusPending,
	TaskStatusRoll,
	TaskStatusCancel,
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusFinished, TaskStatusRoll, TaskStatusCancel:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID              uint64       `gorm:"primarykey" json:"id"`
	Title           string       `gorm:"not null" json:"title"`
	AssignedTo      string       `gorm:"type:varchar(64);not null;index" json:"assigned_to"`
	TeamID          string       `gorm:"type:varchar(64);not null;index" json:"team_id"`
	CreatedBy       string       `gorm:"type:varchar(64);not null" json:"created_by"`
	Status          TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority        TaskPriority `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	Deadline        time.Time    `gorm:"type:date;not null" json:"deadline"`
	DateCompleted   *time.Time   `gorm:"type:date" json:"date_completed"`
	Notes           string       `gorm:"type:text" json:"notes"`
	TimeConsumption int          `gorm:"not null;default:0" json:"time_consumption"`
	Difficulty      int          `gorm:"not null;default:0" json:"difficulty"`
	IsDeleted       bool         `gorm:"not null;default:false;index" json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// IsFinished reports whether the task is in its terminal state.
func (t Task) IsFinished() bool {
	return t.Status == TaskStatusFinished
}
