package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yukikurage/team-task-tracker/internal/billing"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
)

var (
	_ repository.TaskRepository         = (*MockTaskRepository)(nil)
	_ repository.SubscriptionRepository = (*MockSubscriptionRepository)(nil)
	_ identity.Directory                = (*MockDirectory)(nil)
	_ billing.Provider                  = (*MockBillingProvider)(nil)
)

// MockTaskRepository is a testify mock of repository.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *MockTaskRepository) ListByAssignee(ctx context.Context, filter repository.TaskFilter) ([]models.Task, int64, error) {
	args := m.Called(ctx, filter)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) ListForMember(ctx context.Context, teamID, assignee string) ([]models.Task, error) {
	args := m.Called(ctx, teamID, assignee)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskRepository) UpdateColumns(ctx context.Context, id uint64, updates map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, updates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) UpdateFinishedColumns(ctx context.Context, id uint64, updates map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, updates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) SoftDelete(ctx context.Context, id uint64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockSubscriptionRepository is a testify mock of repository.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) CountActive(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func (m *MockSubscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) DeactivateBySubscriptionID(ctx context.Context, subscriptionID string) (int64, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) UpsertCustomer(ctx context.Context, customer *models.BillingCustomer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) FindCustomer(ctx context.Context, userID string) (*models.BillingCustomer, error) {
	args := m.Called(ctx, userID)
	customer, _ := args.Get(0).(*models.BillingCustomer)
	return customer, args.Error(1)
}

// MockDirectory is a testify mock of identity.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) ListMembers(ctx context.Context, orgID string) ([]identity.Member, error) {
	args := m.Called(ctx, orgID)
	members, _ := args.Get(0).([]identity.Member)
	return members, args.Error(1)
}

func (m *MockDirectory) MemberRole(ctx context.Context, orgID, userID string) (models.OrganizationRole, error) {
	args := m.Called(ctx, orgID, userID)
	return args.Get(0).(models.OrganizationRole), args.Error(1)
}

func (m *MockDirectory) GetProfile(ctx context.Context, userID string) (identity.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(identity.Profile), args.Error(1)
}

// MockBillingProvider is a testify mock of billing.Provider
type MockBillingProvider struct {
	mock.Mock
}

func (m *MockBillingProvider) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockBillingProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

func (m *MockBillingProvider) ParseWebhook(payload []byte, signatureHeader string) (billing.Event, error) {
	args := m.Called(payload, signatureHeader)
	return args.Get(0).(billing.Event), args.Error(1)
}
