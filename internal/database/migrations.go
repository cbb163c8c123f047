package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// queryIndexes are the composite indexes behind the dashboard, overview and
// access-gate queries.
var queryIndexes = []struct {
	table   string
	name    string
	columns string
}{
	// Dashboard: my non-deleted tasks
	{"tasks", "idx_tasks_assignee_deleted", "assigned_to, is_deleted"},
	// Team overview: one member's tasks inside one team
	{"tasks", "idx_tasks_team_assignee", "team_id, assigned_to"},

	// Access gate
	{"subscriptions", "idx_subscriptions_user_active", "user_id, active"},

	// Roster lookups
	{"organization_members", "idx_org_members_user_id", "user_id"},

	// Work log listing
	{"log_entries", "idx_log_entries_user_created", "user_id, created_at"},
}

// AddIndexes creates the query indexes that do not exist yet.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()

	for _, idx := range queryIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}
