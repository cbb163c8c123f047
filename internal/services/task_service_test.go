package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 2024-01-10 is a Wednesday.
var wednesday = time.Date(2024, time.January, 10, 14, 0, 0, 0, time.UTC)

type TaskServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	taskRepo repository.TaskRepository
	service  *TaskService
	org      *models.Organization
	admin    *models.User
	member   *models.User
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())

	s.taskRepo = repository.NewTaskRepository(s.db)
	directory := identity.NewLocalDirectory(
		repository.NewOrganizationRepository(s.db),
		repository.NewUserRepository(s.db),
	)
	s.service = NewTaskService(s.taskRepo, directory, zap.NewNop()).
		WithClock(func() time.Time { return wednesday })

	s.org = testutil.CreateOrganization(s.T(), s.db, "Team")
	s.admin = testutil.CreateUser(s.T(), s.db, "admin@example.com")
	s.member = testutil.CreateUser(s.T(), s.db, "member@example.com")
	testutil.AddMember(s.T(), s.db, s.org.ID, s.admin.ID, models.RoleAdmin)
	testutil.AddMember(s.T(), s.db, s.org.ID, s.member.ID, models.RoleMember)
}

func (s *TaskServiceTestSuite) createTask(title string) *models.Task {
	task, err := s.service.CreateTask(s.ctx, CreateTaskInput{
		Title:      title,
		AssignedTo: s.member.ID,
		TeamID:     s.org.ID,
		CreatedBy:  s.admin.ID,
		Priority:   models.PriorityHigh,
	})
	s.Require().NoError(err)
	return task
}

func (s *TaskServiceTestSuite) finishDetails() *models.CompletionDetails {
	date := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	return &models.CompletionDetails{
		DateCompleted:   &date,
		Notes:           "done",
		TimeConsumption: 3,
		Difficulty:      7,
	}
}

func (s *TaskServiceTestSuite) TestCreateTask_DefaultsToPendingDueFriday() {
	task := s.createTask("Write report")

	stored, err := s.service.GetTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusPending, stored.Status)
	s.Equal(models.PriorityHigh, stored.Priority)
	s.Equal(s.member.ID, stored.AssignedTo)
	s.Equal(s.org.ID, stored.TeamID)
	s.Equal("2024-01-12", stored.Deadline.Format(constants.DateLayout))
	s.Equal(time.Friday, stored.Deadline.Weekday())
	s.Nil(stored.DateCompleted)
}

func (s *TaskServiceTestSuite) TestCreateTask_DeadlineWithinAWeekFromEveryWeekday() {
	for offset := 0; offset < 7; offset++ {
		now := wednesday.AddDate(0, 0, offset)
		s.service.WithClock(func() time.Time { return now })

		task := s.createTask("Task")

		days := task.Deadline.Sub(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)).Hours() / 24
		s.Equal(time.Friday, task.Deadline.Weekday())
		s.GreaterOrEqual(days, 1.0)
		s.LessOrEqual(days, 7.0)
	}
}

func (s *TaskServiceTestSuite) TestCreateTask_ExplicitDeadlineAndDefaultPriority() {
	deadline := time.Date(2024, time.February, 1, 17, 0, 0, 0, time.UTC)

	task, err := s.service.CreateTask(s.ctx, CreateTaskInput{
		Title:      "Plan sprint",
		AssignedTo: s.admin.ID,
		TeamID:     s.org.ID,
		CreatedBy:  s.admin.ID,
		Deadline:   &deadline,
	})

	s.Require().NoError(err)
	s.Equal(models.PriorityMedium, task.Priority)
	s.Equal("2024-02-01", task.Deadline.Format(constants.DateLayout))
}

func (s *TaskServiceTestSuite) TestCreateTask_ValidationErrors() {
	outsider := testutil.CreateUser(s.T(), s.db, "outsider@example.com")

	tests := []struct {
		name  string
		input CreateTaskInput
		want  error
	}{
		{"empty title", CreateTaskInput{Title: "  ", AssignedTo: s.member.ID, TeamID: s.org.ID, CreatedBy: s.admin.ID}, ErrTitleRequired},
		{"empty assignee", CreateTaskInput{Title: "T", AssignedTo: "", TeamID: s.org.ID, CreatedBy: s.admin.ID}, ErrAssigneeRequired},
		{"empty team", CreateTaskInput{Title: "T", AssignedTo: s.member.ID, CreatedBy: s.admin.ID}, ErrTeamRequired},
		{"bad priority", CreateTaskInput{Title: "T", AssignedTo: s.member.ID, TeamID: s.org.ID, CreatedBy: s.admin.ID, Priority: "Urgent"}, ErrInvalidPriority},
		{"assignee outside team", CreateTaskInput{Title: "T", AssignedTo: outsider.ID, TeamID: s.org.ID, CreatedBy: s.admin.ID}, ErrAssigneeNotMember},
		{"creator outside team", CreateTaskInput{Title: "T", AssignedTo: s.member.ID, TeamID: s.org.ID, CreatedBy: outsider.ID}, ErrNotTeamMember},
	}

	for _, tt := range tests {
		_, err := s.service.CreateTask(s.ctx, tt.input)
		s.ErrorIs(err, tt.want, tt.name)
	}

	var count int64
	s.db.Model(&models.Task{}).Count(&count)
	s.Zero(count)
}

func (s *TaskServiceTestSuite) TestSetStatus_FinishWithoutDetailsLeavesStatusUnchanged() {
	task := s.createTask("Write report")

	_, err := s.service.SetStatus(s.ctx, task.ID, models.TaskStatusFinished, nil)
	s.ErrorIs(err, models.ErrCompletionRequired)
	s.Equal(apierrors.KindValidation, apierrors.KindOf(err))

	partial := s.finishDetails()
	partial.Notes = ""
	_, err = s.service.SetStatus(s.ctx, task.ID, models.TaskStatusFinished, partial)
	s.ErrorIs(err, models.ErrNotesRequired)

	stored, err := s.service.GetTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusPending, stored.Status)
	s.Nil(stored.DateCompleted)
	s.Empty(stored.Notes)
	s.Zero(stored.TimeConsumption)
	s.Zero(stored.Difficulty)
}

func (s *TaskServiceTestSuite) TestSetStatus_FinishStoresDetailsExactly() {
	task := s.createTask("Write report")

	finished, err := s.service.SetStatus(s.ctx, task.ID, models.TaskStatusFinished, s.finishDetails())

	s.Require().NoError(err)
	s.Equal(models.TaskStatusFinished, finished.Status)
	s.Require().NotNil(finished.DateCompleted)
	s.Equal("2024-01-10", finished.DateCompleted.Format(constants.DateLayout))
	s.Equal("done", finished.Notes)
	s.Equal(3, finished.TimeConsumption)
	s.Equal(7, finished.Difficulty)
}

func (s *TaskServiceTestSuite) TestSetStatus_CancelTwiceIsIdempotent() {
	task := s.createTask("Write report")

	first, err := s.service.SetStatus(s.ctx, task.ID, models.TaskStatusCancel, nil)
	s.Require().NoError(err)
	second, err := s.service.SetStatus(s.ctx, task.ID, models.TaskStatusCancel, nil)
	s.Require().NoError(err)

	s.Equal(models.TaskStatusCancel, second.Status)
	s.Equal(first.Title, second.Title)
	s.Equal(first.Deadline.Format(constants.DateLayout), second.Deadline.Format(constants.DateLayout))
	s.True(first.UpdatedAt.Equal(second.UpdatedAt))
	s.Nil(second.DateCompleted)
}

func (s *TaskServiceTestSuite) TestSetStatus_MovesFreelyBetweenOpenStatuses() {
	task := s.createTask("Write report")

	for _, status := range []models.TaskStatus{models.TaskStatusRoll, models.TaskStatusCancel, models.TaskStatusPending} {
		updated, err := s.service.SetStatus(s.ctx, task.ID, status, nil)
		s.Require().NoError(err)
		s.Equal(status, updated.Status)
	}

	_, err := s.service.SetStatus(s.ctx, task.ID, models.TaskStatusFinished, s.finishDetails())
	s.Require().NoError(err)
	reopened, err := s.service.SetStatus(s.ctx, task.ID, models.TaskStatusRoll, nil)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusRoll, reopened.Status)
}

func (s *TaskServiceTestSuite) TestSetStatus_InvalidStatus() {
	task := s.createTask("Write report")

	_, err := s.service.SetStatus(s.ctx, task.ID, models.TaskStatus("done"), nil)

	s.ErrorIs(err, models.ErrInvalidStatus)
}

func (s *TaskServiceTestSuite) TestEditCompletedTask_OverwritesDetails() {
	task := s.createTask("Write report")
	_, err := s.service.SetStatus(s.ctx, task.ID, models.TaskStatusFinished, s.finishDetails())
	s.Require().NoError(err)

	date := time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)
	edited, err := s.service.EditCompletedTask(s.ctx, task.ID, &models.CompletionDetails{
		DateCompleted:   &date,
		Notes:           "done, with review",
		TimeConsumption: 5,
		Difficulty:      4,
	})

	s.Require().NoError(err)
	s.Equal(models.TaskStatusFinished, edited.Status)
	s.Equal("2024-01-11", edited.DateCompleted.Format(constants.DateLayout))
	s.Equal("done, with review", edited.Notes)
	s.Equal(5, edited.TimeConsumption)
	s.Equal(4, edited.Difficulty)
}

func (s *TaskServiceTestSuite) TestEditCompletedTask_RequiresFinishedTask() {
	task := s.createTask("Write report")

	_, err := s.service.EditCompletedTask(s.ctx, task.ID, s.finishDetails())

	s.ErrorIs(err, ErrTaskNotFinished)
	stored, getErr := s.service.GetTask(s.ctx, task.ID)
	s.Require().NoError(getErr)
	s.Equal(models.TaskStatusPending, stored.Status)
	s.Empty(stored.Notes)
}

func (s *TaskServiceTestSuite) TestEditCompletedTask_MissingTask() {
	_, err := s.service.EditCompletedTask(s.ctx, 999, s.finishDetails())

	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestDeleteTask_HidesTaskFromReads() {
	task := s.createTask("Write report")

	s.Require().NoError(s.service.DeleteTask(s.ctx, task.ID))

	_, err := s.service.GetTask(s.ctx, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.service.SetStatus(s.ctx, task.ID, models.TaskStatusCancel, nil)
	s.ErrorIs(err, ErrTaskNotFound)

	tasks, total, err := s.service.ListTasks(s.ctx, ListTasksInput{UserID: s.member.ID, Page: 1, PageSize: 20})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(tasks)

	s.ErrorIs(s.service.DeleteTask(s.ctx, task.ID), ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestListTasks_OrdersByPriorityThenDeadline() {
	low := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []struct {
		title    string
		priority models.TaskPriority
	}{
		{"low", models.PriorityLow},
		{"high", models.PriorityHigh},
		{"medium", models.PriorityMedium},
	} {
		_, err := s.service.CreateTask(s.ctx, CreateTaskInput{
			Title:      in.title,
			AssignedTo: s.member.ID,
			TeamID:     s.org.ID,
			CreatedBy:  s.admin.ID,
			Priority:   in.priority,
			Deadline:   &low,
		})
		s.Require().NoError(err)
	}

	tasks, total, err := s.service.ListTasks(s.ctx, ListTasksInput{UserID: s.member.ID, Page: 1, PageSize: 20})

	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(tasks, 3)
	s.Equal("high", tasks[0].Title)
	s.Equal("medium", tasks[1].Title)
	s.Equal("low", tasks[2].Title)

	status := models.TaskStatusFinished
	tasks, total, err = s.service.ListTasks(s.ctx, ListTasksInput{UserID: s.member.ID, Status: &status, Page: 1, PageSize: 20})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(tasks)
}

// mockedService returns a service over testify mocks with both users seated
// in the team.
func (s *TaskServiceTestSuite) mockedService() (*TaskService, *testutil.MockTaskRepository) {
	taskRepo := new(testutil.MockTaskRepository)
	directory := new(testutil.MockDirectory)
	directory.On("MemberRole", mock.Anything, s.org.ID, mock.Anything).Return(models.RoleMember, nil)

	service := NewTaskService(taskRepo, directory, zap.NewNop()).
		WithClock(func() time.Time { return wednesday })
	return service, taskRepo
}

func (s *TaskServiceTestSuite) TestCreateTask_StoreFailure() {
	service, taskRepo := s.mockedService()
	taskRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Task")).Return(errors.New("conn reset"))

	task, err := service.CreateTask(s.ctx, CreateTaskInput{
		Title:      "Write report",
		AssignedTo: s.member.ID,
		TeamID:     s.org.ID,
		CreatedBy:  s.admin.ID,
	})

	s.Nil(task)
	s.Equal(apierrors.KindStore, apierrors.KindOf(err))
	taskRepo.AssertExpectations(s.T())
}

func (s *TaskServiceTestSuite) TestSetStatus_StoreFailureOnFinish() {
	service, taskRepo := s.mockedService()
	pending := &models.Task{ID: 7, TeamID: s.org.ID, AssignedTo: s.member.ID, Status: models.TaskStatusPending}
	taskRepo.On("FindByID", mock.Anything, uint64(7)).Return(pending, nil).Once()
	taskRepo.On("UpdateColumns", mock.Anything, uint64(7), mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["status"] == models.TaskStatusFinished && len(updates) == 5
	})).Return(int64(0), errors.New("conn reset")).Once()

	task, err := service.SetStatus(s.ctx, 7, models.TaskStatusFinished, s.finishDetails())

	s.Nil(task)
	s.Equal(apierrors.KindStore, apierrors.KindOf(err))
	taskRepo.AssertExpectations(s.T())
	// The failed write is not followed by a re-read.
	taskRepo.AssertNumberOfCalls(s.T(), "FindByID", 1)
}

func (s *TaskServiceTestSuite) TestSetStatus_RefinishWithSameDetailsSkipsWrite() {
	service, taskRepo := s.mockedService()
	details := s.finishDetails()
	finished := &models.Task{
		ID:              7,
		TeamID:          s.org.ID,
		Status:          models.TaskStatusFinished,
		DateCompleted:   details.DateCompleted,
		Notes:           details.Notes,
		TimeConsumption: details.TimeConsumption,
		Difficulty:      details.Difficulty,
	}
	taskRepo.On("FindByID", mock.Anything, uint64(7)).Return(finished, nil).Once()

	task, err := service.SetStatus(s.ctx, 7, models.TaskStatusFinished, details)

	s.Require().NoError(err)
	s.Equal(finished, task)
	taskRepo.AssertNotCalled(s.T(), "UpdateColumns", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TaskServiceTestSuite) TestEditCompletedTask_StoreFailure() {
	service, taskRepo := s.mockedService()
	taskRepo.On("UpdateFinishedColumns", mock.Anything, uint64(7), mock.Anything).Return(int64(0), errors.New("conn reset")).Once()

	_, err := service.EditCompletedTask(s.ctx, 7, s.finishDetails())

	s.Equal(apierrors.KindStore, apierrors.KindOf(err))
	taskRepo.AssertNotCalled(s.T(), "FindByID", mock.Anything, mock.Anything)
}

func (s *TaskServiceTestSuite) TestDeleteTask_StoreFailure() {
	service, taskRepo := s.mockedService()
	taskRepo.On("SoftDelete", mock.Anything, uint64(7)).Return(int64(0), errors.New("conn reset")).Once()

	err := service.DeleteTask(s.ctx, 7)

	s.Equal(apierrors.KindStore, apierrors.KindOf(err))
	taskRepo.AssertExpectations(s.T())
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
