package http

import (
	"context"
	"io"

	"cnhpulse/internal/services"
	"cnhpulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations served over HTTP
type DashboardServiceInterface interface {
	Overview(ctx context.Context) (*domain.OverviewView, error)
	HeavyPanel(ctx context.Context, q services.HeavyQuery) (*domain.HeavyPanelView, error)
	Demographics(ctx context.Context) (*domain.DemographicsView, error)
	Blackout(ctx context.Context, cities []string) (*domain.BlackoutView, error)
	Diversity(ctx context.Context) (*domain.DiversityView, error)
	About(ctx context.Context, rows int) (*domain.AboutView, error)

	// Binary outputs
	Export(ctx context.Context, format string, w io.Writer) (string, error)
	Chart(ctx context.Context, name string, w io.Writer) error
}

// HealthServiceInterface defines the health operations served over HTTP
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
	GetDetailedHealth(ctx context.Context) map[string]interface{}
}
