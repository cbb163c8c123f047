package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/middleware"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"github.com/yukikurage/team-task-tracker/internal/utils"
)

var errInvalidDate = apierrors.NewValidationError("dates must use the YYYY-MM-DD format")

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// completionRequest carries the details collected when a task is finished.
type completionRequest struct {
	DateCompleted   string `json:"date_completed"`
	Notes           string `json:"notes"`
	TimeConsumption int    `json:"time_consumption"`
	Difficulty      int    `json:"difficulty"`
}

func (r completionRequest) empty() bool {
	return r.DateCompleted == "" && r.Notes == "" && r.TimeConsumption == 0 && r.Difficulty == 0
}

// details converts the request; an empty request yields nil details.
func (r completionRequest) details() (*models.CompletionDetails, error) {
	if r.empty() {
		return nil, nil
	}

	details := &models.CompletionDetails{
		Notes:           r.Notes,
		TimeConsumption: r.TimeConsumption,
		Difficulty:      r.Difficulty,
	}
	if r.DateCompleted != "" {
		date, err := utils.ParseDate(r.DateCompleted)
		if err != nil {
			return nil, errInvalidDate
		}
		details.DateCompleted = &date
	}
	return details, nil
}

// ListTasks returns the caller's tasks, optionally filtered by team_id,
// status and priority
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		UserID:   userID,
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if teamID := c.Query("team_id"); teamID != "" {
		input.TeamID = &teamID
	}
	if value := c.Query("status"); value != "" {
		status := models.TaskStatus(value)
		if !status.Valid() {
			apierrors.Respond(c, models.ErrInvalidStatus)
			return
		}
		input.Status = &status
	}
	if value := c.Query("priority"); value != "" {
		priority := models.TaskPriority(value)
		if !priority.Valid() {
			apierrors.Respond(c, services.ErrInvalidPriority)
			return
		}
		input.Priority = &priority
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns the task loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a pending task in one of the caller's teams
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title      string              `json:"title"`
		AssignedTo string              `json:"assigned_to"`
		TeamID     string              `json:"team_id"`
		Priority   models.TaskPriority `json:"priority"`
		Deadline   string              `json:"deadline"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		TeamID:     strings.TrimSpace(req.TeamID),
		CreatedBy:  userID,
		Priority:   req.Priority,
	}
	if req.Deadline != "" {
		deadline, err := utils.ParseDate(req.Deadline)
		if err != nil {
			apierrors.Respond(c, errInvalidDate)
			return
		}
		input.Deadline = &deadline
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateStatus moves a task to another status. Finishing a task requires
// the completion details in the same request.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
		completionRequest
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var details *models.CompletionDetails
	if req.Status == models.TaskStatusFinished {
		var err error
		if details, err = req.details(); err != nil {
			apierrors.Respond(c, err)
			return
		}
	}

	updated, err := h.taskService.SetStatus(c.Request.Context(), task.ID, req.Status, details)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// UpdateCompletion overwrites the completion details of a finished task
func (h *TaskHandler) UpdateCompletion(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	details, err := req.details()
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	updated, err := h.taskService.EditCompletedTask(c.Request.Context(), task.ID, details)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask soft-deletes a task (team admins only)
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task.ID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}
