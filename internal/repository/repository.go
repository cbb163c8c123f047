package repository

import (
	"context"

	"github.com/yukikurage/team-task-tracker/internal/models"
)

// TaskRepository defines the interface for task data access.
// Every read excludes soft-deleted tasks.
type TaskRepository interface {
	// Create inserts a new task; the store assigns the ID
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a non-deleted task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// ListByAssignee lists a user's tasks with filtering and pagination
	ListByAssignee(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// ListForMember lists one member's tasks inside one team in store order
	ListForMember(ctx context.Context, teamID, assignee string) ([]models.Task, error)

	// UpdateColumns writes the given columns in a single statement and
	// returns the number of rows affected
	UpdateColumns(ctx context.Context, id uint64, updates map[string]interface{}) (int64, error)

	// UpdateFinishedColumns is UpdateColumns restricted to finished tasks
	UpdateFinishedColumns(ctx context.Context, id uint64, updates map[string]interface{}) (int64, error)

	// SoftDelete flags a task as deleted
	SoftDelete(ctx context.Context, id uint64) (int64, error)
}

// TaskFilter holds filtering options for listing a user's tasks
type TaskFilter struct {
	AssignedTo string
	TeamID     *string
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	Page       int
	PageSize   int
}

// SubscriptionRepository defines the interface for subscription and
// billing customer data access
type SubscriptionRepository interface {
	// CountActive counts the user's subscriptions with active = true
	CountActive(ctx context.Context, userID string) (int64, error)

	// FindByUserID finds the user's subscription row
	FindByUserID(ctx context.Context, userID string) (*models.Subscription, error)

	// Upsert inserts or replaces the subscription keyed by user ID
	Upsert(ctx context.Context, sub *models.Subscription) error

	// DeactivateBySubscriptionID clears the active flag of a provider subscription
	DeactivateBySubscriptionID(ctx context.Context, subscriptionID string) (int64, error)

	// UpsertCustomer inserts or replaces the billing customer keyed by user ID
	UpsertCustomer(ctx context.Context, customer *models.BillingCustomer) error

	// FindCustomer finds the billing customer of a user
	FindCustomer(ctx context.Context, userID string) (*models.BillingCustomer, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// CreateWithAdmin creates an organization and its first admin atomically
	CreateWithAdmin(ctx context.Context, org *models.Organization, admin *models.OrganizationMember) error

	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id string) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code
	FindByInviteCode(ctx context.Context, code string) (*models.Organization, error)

	// Update updates an organization
	Update(ctx context.Context, org *models.Organization) error

	// AddMember adds a member to an organization
	AddMember(ctx context.Context, member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(ctx context.Context, organizationID, userID string) error

	// FindMember finds a specific organization member
	FindMember(ctx context.Context, organizationID, userID string) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(ctx context.Context, userID string) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization with their user
	ListMembers(ctx context.Context, organizationID string) ([]models.OrganizationMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// EmailExists reports whether an account already uses email
	EmailExists(ctx context.Context, email string) (bool, error)
}

// LogRepository defines the interface for work log data access
type LogRepository interface {
	// Create inserts a log entry
	Create(ctx context.Context, entry *models.LogEntry) error

	// ListByUser lists a user's entries, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]models.LogEntry, error)
}
