package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"gorm.io/gorm"
)

var errTaskNotFound = apierrors.NewNotFoundError("Task not found")

// RequireTaskAccess checks if the user has access to a task.
// User must be a member of the task's team.
func RequireTaskAccess(taskRepo repository.TaskRepository, directory identity.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.Respond(c, apierrors.NewValidationError("Invalid task ID"))
			c.Abort()
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Respond(c, apierrors.NewAuthError("Authentication required"))
			c.Abort()
			return
		}

		task, err := taskRepo.FindByID(c.Request.Context(), taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Respond(c, errTaskNotFound)
			} else {
				apierrors.Respond(c, apierrors.Store("failed to find task", err))
			}
			c.Abort()
			return
		}

		role, err := directory.MemberRole(c.Request.Context(), task.TeamID, userID)
		if err != nil {
			if errors.Is(err, identity.ErrNotMember) {
				// Return 404 instead of 403 to avoid leaking task existence
				apierrors.Respond(c, errTaskNotFound)
			} else {
				apierrors.Respond(c, apierrors.Provider("failed to look up membership", err))
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Set(constants.ContextKeyOrgRole, role)
		c.Next()
	}
}

// RequireTaskEditor lets the assignee or a team admin through.
// Must run after RequireTaskAccess.
func RequireTaskEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		task, ok := GetTask(c)
		userID, _ := GetUserID(c)
		role, _ := GetOrganizationRole(c)

		if !ok || (task.AssignedTo != userID && role != models.RoleAdmin) {
			apierrors.Respond(c, apierrors.NewAccessDeniedError(apierrors.ErrCodeForbidden, "Only the assignee or a team admin can modify this task"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetTask returns the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	value, ok := c.Get(constants.ContextKeyTask)
	if !ok {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}
