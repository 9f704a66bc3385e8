package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcloughlin/geohash"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cnhpulse/internal/config"
	"cnhpulse/internal/dataprocessing"
	apperrors "cnhpulse/internal/errors"
	"cnhpulse/pkg/contracts/domain"
)

// View outcomes reported to the ViewRecorder
const (
	OutcomeOK     = "ok"
	OutcomeNoData = "no_data"
	OutcomeError  = "error"
)

// geohashPrecision gives cells of roughly 5km, enough to tell municipalities apart
const geohashPrecision = 5

// TableSource returns the parsed driver table for a source path
type TableSource interface {
	Get(ctx context.Context, path string) (*dataprocessing.Table, error)
}

// ViewRecorder receives one observation per computed view
type ViewRecorder interface {
	RecordView(ctx context.Context, view, outcome string, d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordView(context.Context, string, string, time.Duration) {}

// DashboardSettings holds the tunable thresholds of the dashboard views
type DashboardSettings struct {
	PreviewRows    int
	MaxPreviewRows int
	MapMinDrivers  int64
	CityRiskTopN   int
	ReserveTopN    int
	ExportBOM      bool
	Midpoints      dataprocessing.MidpointTable
}

// DefaultDashboardSettings returns the settings used by the dashboard
func DefaultDashboardSettings() DashboardSettings {
	return DashboardSettings{
		PreviewRows:    config.DefaultPreviewRows,
		MaxPreviewRows: config.MaxPreviewRows,
		MapMinDrivers:  config.MinHeavyDriversForMap,
		CityRiskTopN:   config.CityRiskTopN,
		ReserveTopN:    config.ReserveTopN,
		Midpoints:      dataprocessing.DefaultMidpoints,
	}
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithSettings overrides the default view thresholds
func WithSettings(settings DashboardSettings) DashboardOption {
	return func(s *DashboardService) {
		if settings.Midpoints == nil {
			settings.Midpoints = dataprocessing.DefaultMidpoints
		}
		s.settings = settings
	}
}

// WithRecorder reports view timings to r
func WithRecorder(r ViewRecorder) DashboardOption {
	return func(s *DashboardService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithTracer sets the tracer used for view spans
func WithTracer(t trace.Tracer) DashboardOption {
	return func(s *DashboardService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// DashboardService computes the dashboard views from the configured source
type DashboardService struct {
	source   TableSource
	path     string
	settings DashboardSettings
	recorder ViewRecorder
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDashboardService creates a dashboard service reading path through source
func NewDashboardService(source TableSource, path string, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &DashboardService{
		source:   source,
		path:     path,
		settings: DefaultDashboardSettings(),
		recorder: noopRecorder{},
		tracer:   otel.Tracer("cnhpulse/services"),
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("DashboardService initialized",
		slog.String("source", path),
		slog.Int("preview_rows", s.settings.PreviewRows))

	return s
}

// Source returns the configured source path
func (s *DashboardService) Source() string {
	return s.path
}

// table loads the current driver table
func (s *DashboardService) table(ctx context.Context) (*dataprocessing.Table, error) {
	if s.source == nil || s.path == "" {
		return nil, fmt.Errorf("%w: %w", ErrNoSource, apperrors.ErrDataUnavailable)
	}
	return s.source.Get(ctx, s.path)
}

// heavyTable loads the table restricted to heavy categories
func (s *DashboardService) heavyTable(ctx context.Context) (*dataprocessing.Table, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	return heavyOf(t)
}

// heavyOf restricts t to heavy categories
func heavyOf(t *dataprocessing.Table) (*dataprocessing.Table, error) {
	heavy := t.Filter(dataprocessing.Heavy())
	if heavy.Empty() {
		return nil, &apperrors.EmptyGroupError{Selection: "heavy categories"}
	}
	return heavy, nil
}

// observe wraps a view computation in a span and reports its outcome
func (s *DashboardService) observe(ctx context.Context, view string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := s.tracer.Start(ctx, "dashboard."+view,
		trace.WithAttributes(append([]attribute.KeyValue{attribute.String("view", view)}, attrs...)...))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	outcome := OutcomeOK
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case apperrors.IsEmptyGroup(err):
		outcome = OutcomeNoData
		span.SetAttributes(attribute.Bool("no_data", true))
	default:
		outcome = OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !errors.Is(err, context.Canceled) {
			logViewError(ctx, view, "view computation failed",
				slog.String("error", err.Error()),
				slog.Duration("duration", elapsed))
		}
	}

	s.recorder.RecordView(ctx, view, outcome, elapsed)
	return err
}

// mapPoint places a municipality on a map. ok is false when the source has
// no coordinates for it.
func mapPoint(coords map[string][2]float64, municipality string, count int64) (domain.MapPoint, bool) {
	c, ok := coords[municipality]
	if !ok {
		return domain.MapPoint{}, false
	}
	return domain.MapPoint{
		Municipality: municipality,
		Lat:          c[0],
		Lon:          c[1],
		Geohash:      geohash.EncodeWithPrecision(c[0], c[1], geohashPrecision),
		Count:        count,
	}, true
}

// labeled converts group totals to labeled counts with a share of whole
func labeled(groups []dataprocessing.GroupTotal, whole int64) []domain.LabeledCount {
	out := make([]domain.LabeledCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.LabeledCount{
			Label:   g.Key(),
			Count:   g.Count,
			Percent: dataprocessing.Percent(g.Count, whole),
		})
	}
	return out
}

// paidSplits turns a paid-activity pivot into one split per row
func paidSplits(p *dataprocessing.PivotTable) []domain.PaidSplit {
	out := make([]domain.PaidSplit, 0, len(p.Rows))
	for i, row := range p.Rows {
		out = append(out, newPaidSplit(row.Key(),
			p.Cell(i, string(domain.PaidActivityYes)),
			p.Cell(i, string(domain.PaidActivityNo))))
	}
	return out
}

// groupSplits is paidSplits over category groups, zero-filled in display order
func groupSplits(p *dataprocessing.PivotTable) []domain.PaidSplit {
	byGroup := make(map[string]domain.PaidSplit, len(p.Rows))
	for _, split := range paidSplits(p) {
		byGroup[split.Label] = split
	}

	out := make([]domain.PaidSplit, 0, len(domain.HeavyGroups))
	for _, g := range domain.HeavyGroups {
		split, ok := byGroup[string(g)]
		if !ok {
			split = newPaidSplit(string(g), 0, 0)
		}
		out = append(out, split)
	}
	return out
}

func newPaidSplit(label string, paid, notPaid int64) domain.PaidSplit {
	total := paid + notPaid
	return domain.PaidSplit{
		Label:       label,
		Paid:        paid,
		NotPaid:     notPaid,
		Total:       total,
		PaidPercent: dataprocessing.Percent(paid, total),
	}
}

// paidColumns are the pivot columns of every paid-activity breakdown
var paidColumns = []string{string(domain.PaidActivityYes), string(domain.PaidActivityNo)}
