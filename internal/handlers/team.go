package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/middleware"
	"github.com/yukikurage/team-task-tracker/internal/services"
)

// TeamHandler serves the admin views of a team: overview and reports.
type TeamHandler struct {
	teamService   *services.TeamService
	reportService *services.ReportService
}

func NewTeamHandler(teamService *services.TeamService, reportService *services.ReportService) *TeamHandler {
	return &TeamHandler{
		teamService:   teamService,
		reportService: reportService,
	}
}

// Overview returns every member's tasks and status counts
func (h *TeamHandler) Overview(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	overview, err := h.teamService.Overview(c.Request.Context(), org.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamOverviewDTO(overview))
}

// DownloadReport streams the PDF productivity report of the team
func (h *TeamHandler) DownloadReport(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	report, err := h.reportService.DownloadReport(c.Request.Context(), org.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", constants.ReportFilename))
	c.Data(http.StatusOK, report.ContentType, report.Body)
}

// Summary returns an AI-written productivity summary of the team
func (h *TeamHandler) Summary(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	summary, err := h.reportService.Summarize(c.Request.Context(), org.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organization_id": org.ID,
		"summary":         summary,
	})
}
