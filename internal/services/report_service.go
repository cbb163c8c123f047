package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxReportBytes = 20 << 20

var (
	ErrReportServiceNotConfigured = apierrors.NewUnavailableError("report service is not configured")
	ErrAIServiceNotConfigured     = apierrors.NewUnavailableError("AI service is not configured")
)

// Report is a generated document ready to be sent to the browser.
type Report struct {
	ContentType string
	Body        []byte
}

// ReportService produces team productivity reports: the PDF rendered by the
// external report service and a written summary from the AI service.
type ReportService struct {
	httpClient *http.Client
	serviceURL string
	team       *TeamService
	orgRepo    repository.OrganizationRepository
	ai         *AIService
	log        *zap.Logger
}

// NewReportService creates a new ReportService. serviceURL and ai may be
// empty or nil; the matching operation then reports the service unavailable.
func NewReportService(serviceURL string, team *TeamService, orgRepo repository.OrganizationRepository, ai *AIService, log *zap.Logger) *ReportService {
	return &ReportService{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		serviceURL: serviceURL,
		team:       team,
		orgRepo:    orgRepo,
		ai:         ai,
		log:        log,
	}
}

// DownloadReport asks the report service to render the organization's PDF.
func (s *ReportService) DownloadReport(ctx context.Context, orgID string) (*Report, error) {
	if s.serviceURL == "" {
		return nil, ErrReportServiceNotConfigured
	}

	payload, err := json.Marshal(map[string]string{"org_id": orgID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode report request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serviceURL, bytes.NewReader(payload))
	if err != nil {
		return nil, apierrors.Provider("failed to build report request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.Provider("report service request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.Provider("report service request failed",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBytes))
	if err != nil {
		return nil, apierrors.Provider("failed to read report", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	s.log.Info("report generated",
		zap.String("organization_id", orgID),
		zap.Int("bytes", len(body)),
	)
	return &Report{ContentType: contentType, Body: body}, nil
}

// Summarize writes a plain-text productivity summary of the organization.
func (s *ReportService) Summarize(ctx context.Context, orgID string) (string, error) {
	if s.ai == nil {
		return "", ErrAIServiceNotConfigured
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOrganizationNotFound
		}
		return "", apierrors.Store("failed to find organization", err)
	}

	overview, err := s.team.Overview(ctx, orgID)
	if err != nil {
		return "", err
	}

	summary, err := s.ai.SummarizeProductivity(ctx, org.Name, ProductivityStats(overview))
	if err != nil {
		return "", apierrors.Provider("failed to generate summary", err)
	}
	return summary, nil
}

// ProductivityStats reduces an overview to per-member counts and the
// average completion metrics of finished tasks.
func ProductivityStats(overview *TeamOverview) []MemberProductivity {
	stats := make([]MemberProductivity, 0, len(overview.Members))
	for _, member := range overview.Members {
		row := MemberProductivity{
			Name:     member.Profile.Name,
			Finished: member.StatusCounts[models.TaskStatusFinished],
			Pending:  member.StatusCounts[models.TaskStatusPending],
			Roll:     member.StatusCounts[models.TaskStatusRoll],
			Cancel:   member.StatusCounts[models.TaskStatusCancel],
		}

		var timeTotal, difficultyTotal int
		for _, task := range member.Tasks {
			if task.IsFinished() {
				timeTotal += task.TimeConsumption
				difficultyTotal += task.Difficulty
			}
		}
		if row.Finished > 0 {
			row.AvgTimeConsumption = float64(timeTotal) / float64(row.Finished)
			row.AvgDifficulty = float64(difficultyTotal) / float64(row.Finished)
		}

		stats = append(stats, row)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}
