package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"cnhpulse/internal/dataprocessing"
	"cnhpulse/pkg/contracts/domain"
)

var (
	recife = [2]float64{-8.0476, -34.8770}
	olinda = [2]float64{-8.0089, -34.8553}
)

func driver(municipality string, coords *[2]float64, category, band string, paid domain.PaidActivity, gender string, count int64) domain.DriverCountRecord {
	r := domain.DriverCountRecord{
		Municipality: municipality,
		Category:     category,
		AgeBand:      band,
		PaidActivity: paid,
		Gender:       gender,
		Count:        count,
	}
	if coords != nil {
		r.Latitude, r.Longitude, r.HasCoordinates = coords[0], coords[1], true
	}
	return r
}

// fixtureTable holds 278 drivers, 148 of them on heavy categories.
// CARUARU has no coordinates.
func fixtureTable() *dataprocessing.Table {
	const (
		yes = domain.PaidActivityYes
		no  = domain.PaidActivityNo
		f   = domain.GenderFemale
		m   = domain.GenderMale
	)
	return dataprocessing.NewTable("fixture.csv", []domain.DriverCountRecord{
		driver("RECIFE", &recife, "AE", dataprocessing.Band51To60, yes, m, 40),
		driver("RECIFE", &recife, "AE", dataprocessing.Band51To60, no, m, 10),
		driver("RECIFE", &recife, "AE", dataprocessing.Band18To21, yes, f, 6),
		driver("RECIFE", &recife, "D", dataprocessing.Band61To70, yes, m, 20),
		driver("RECIFE", &recife, "C", dataprocessing.Band26To30, no, f, 4),
		driver("RECIFE", &recife, "B", dataprocessing.Band18To21, yes, f, 100),
		driver("OLINDA", &olinda, "AD", dataprocessing.Band22To25, yes, f, 5),
		driver("OLINDA", &olinda, "C", dataprocessing.Band91To100, no, m, 2),
		driver("OLINDA", &olinda, "AB", dataprocessing.Band31To40, yes, m, 30),
		driver("CARUARU", nil, "E", dataprocessing.Band41To50, yes, m, 60),
		driver("CARUARU", nil, "C", dataprocessing.BandOver100, no, m, 1),
	})
}

// stubSource serves a fixed table or error
type stubSource struct {
	mu    sync.Mutex
	table *dataprocessing.Table
	err   error
	paths []string
}

func (s *stubSource) Get(_ context.Context, path string) (*dataprocessing.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

// mockRecorder records view observations
type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordView(ctx context.Context, view, outcome string, d time.Duration) {
	m.Called(view, outcome)
}

func newFixtureService(opts ...DashboardOption) (*DashboardService, *stubSource) {
	src := &stubSource{table: fixtureTable()}
	return NewDashboardService(src, "fixture.csv", nil, opts...), src
}
