package http

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	apierrors "cnhpulse/internal/errors"
	"cnhpulse/internal/services"
	"cnhpulse/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Overview(ctx context.Context) (*domain.OverviewView, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OverviewView), args.Error(1)
}

func (m *MockDashboardService) HeavyPanel(ctx context.Context, q services.HeavyQuery) (*domain.HeavyPanelView, error) {
	args := m.Called(q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HeavyPanelView), args.Error(1)
}

func (m *MockDashboardService) Demographics(ctx context.Context) (*domain.DemographicsView, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemographicsView), args.Error(1)
}

func (m *MockDashboardService) Blackout(ctx context.Context, cities []string) (*domain.BlackoutView, error) {
	args := m.Called(cities)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlackoutView), args.Error(1)
}

func (m *MockDashboardService) Diversity(ctx context.Context) (*domain.DiversityView, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiversityView), args.Error(1)
}

func (m *MockDashboardService) About(ctx context.Context, rows int) (*domain.AboutView, error) {
	args := m.Called(rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AboutView), args.Error(1)
}

// Export returns the content type given as the third Return value, if any
func (m *MockDashboardService) Export(ctx context.Context, format string, w io.Writer) (string, error) {
	args := m.Called(format)
	if body := args.String(1); body != "" {
		io.WriteString(w, body)
	}
	contentType := services.ContentType(format, "")
	if len(args) > 2 {
		contentType = args.String(2)
	}
	return contentType, args.Error(0)
}

func (m *MockDashboardService) Chart(ctx context.Context, name string, w io.Writer) error {
	args := m.Called(name)
	if body := args.String(1); body != "" {
		io.WriteString(w, body)
	}
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(testLogger(), false)
}
