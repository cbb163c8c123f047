// Package testutil provides shared database fixtures for package tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database that is closed when
// the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// NewMockDB returns a GORM handle on the postgres dialector backed by sqlmock.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

// CreateUser inserts a user with the given email.
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Name:         email,
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateOrganization inserts an organization with a unique invite code.
func CreateOrganization(t *testing.T, db *gorm.DB, name string) *models.Organization {
	t.Helper()

	org := &models.Organization{
		Name:       name,
		InviteCode: strings.ToUpper("code-" + name + "-" + time.Now().Format("150405.000000000")),
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

// AddMember adds the user to the organization with the given role.
func AddMember(t *testing.T, db *gorm.DB, orgID, userID string, role models.OrganizationRole) *models.OrganizationMember {
	t.Helper()

	member := &models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now(),
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

// CreateTask inserts a task in the given status, due next week.
func CreateTask(t *testing.T, db *gorm.DB, title, teamID, assignee string, status models.TaskStatus) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:      title,
		AssignedTo: assignee,
		TeamID:     teamID,
		CreatedBy:  assignee,
		Status:     status,
		Priority:   models.PriorityMedium,
		Deadline:   time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour),
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
