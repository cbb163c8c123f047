package models

import "time"

// LogEntry is a free-form daily work log written by a user.
type LogEntry struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
