package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

// WelcomeMessage greets every signed-in user on the dashboard.
const WelcomeMessage = "Welcome to ARQON Study Dashboard"

type dashboardCourseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type dashboardSummaryProvider interface {
	Summary(ctx context.Context) (models.Summary, error)
}

// DashboardService composes the landing payload for a session.
type DashboardService struct {
	courses     dashboardCourseLister
	assignments dashboardSummaryProvider
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(courses dashboardCourseLister, assignments dashboardSummaryProvider, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{courses: courses, assignments: assignments, logger: logger}
}

// Build returns the dashboard for the session's user.
func (s *DashboardService) Build(ctx context.Context, session models.Session) (*models.Dashboard, error) {
	if session.Username == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "no active session")
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.assignments.Summary(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("dashboard built", zap.String("username", session.Username), zap.Int("assignments", summary.Count))
	return &models.Dashboard{
		Username:       session.Username,
		WelcomeMessage: WelcomeMessage,
		Courses:        len(courses),
		Summary:        summary,
	}, nil
}
