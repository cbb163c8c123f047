package repository

import (
	"context"

	"github.com/yukikurage/team-task-tracker/internal/models"
	"gorm.io/gorm"
)

type GormLogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) LogRepository {
	return &GormLogRepository{db: db}
}

func (r *GormLogRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
