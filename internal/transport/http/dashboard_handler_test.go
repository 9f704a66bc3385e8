package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "cnhpulse/internal/errors"
	"cnhpulse/internal/services"
	"cnhpulse/pkg/contracts/domain"
)

func serveViews(t *testing.T, svc *MockDashboardService, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewDashboardHandler(svc, testLogger(), testErrorHandler())
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestDashboardHandler_GetOverview(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockDashboardService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful overview",
			setupMock: func(m *MockDashboardService) {
				m.On("Overview").Return(&domain.OverviewView{
					Status:       domain.ViewStatusOK,
					TotalDrivers: 278,
					HeavyDrivers: 148,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_drivers":278`,
		},
		{
			name: "empty selection renders no_data",
			setupMock: func(m *MockDashboardService) {
				m.On("Overview").Return(nil, &apierrors.EmptyGroupError{Selection: "heavy categories"})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"no_data"`,
		},
		{
			name: "source cannot be loaded",
			setupMock: func(m *MockDashboardService) {
				m.On("Overview").Return(nil, apierrors.NewDataLoadError("data/missing.csv", "stat source file", errors.New("no such file")))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"Data Load Failed"`,
		},
		{
			name: "internal error",
			setupMock: func(m *MockDashboardService) {
				m.On("Overview").Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"Internal Server Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setupMock(svc)

			rec := serveViews(t, svc, "/overview")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_GetHeavyPanel(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		query          *services.HeavyQuery
		err            error
		expectedStatus int
	}{
		{
			name:           "no filters",
			target:         "/heavy",
			query:          &services.HeavyQuery{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "all filters",
			target:         "/heavy?age_band=51-60&search=recife&limit=5",
			query:          &services.HeavyQuery{AgeBand: "51-60", Search: "recife", Limit: 5},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "limit is not a number",
			target:         "/heavy?limit=many",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "limit too large",
			target:         "/heavy?limit=1000",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "search with control characters",
			target:         "/heavy?search=rec%00ife",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown band",
			target:         "/heavy?age_band=12-17",
			query:          &services.HeavyQuery{AgeBand: "12-17"},
			err:            &apierrors.UnknownBandError{Label: "12-17"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			if tt.query != nil {
				if tt.err != nil {
					svc.On("HeavyPanel", *tt.query).Return(nil, tt.err)
				} else {
					svc.On("HeavyPanel", *tt.query).Return(&domain.HeavyPanelView{Status: domain.ViewStatusOK}, nil)
				}
			}

			rec := serveViews(t, svc, tt.target)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			svc.AssertExpectations(t)
			if tt.query == nil {
				svc.AssertNotCalled(t, "HeavyPanel", mock.Anything)
			}
		})
	}
}

func TestDashboardHandler_GetBlackout(t *testing.T) {
	tests := []struct {
		name   string
		target string
		cities []string
	}{
		{name: "default selection", target: "/blackout"},
		{name: "repeated parameters", target: "/blackout?city=RECIFE&city=OLINDA", cities: []string{"RECIFE", "OLINDA"}},
		{name: "comma separated", target: "/blackout?cities=RECIFE,%20CARUARU", cities: []string{"RECIFE", "CARUARU"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			svc.On("Blackout", tt.cities).Return(&domain.BlackoutView{Status: domain.ViewStatusOK}, nil)

			rec := serveViews(t, svc, tt.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "ok", decodeBody(t, rec)["status"])
			svc.AssertExpectations(t)
		})
	}

	t.Run("unmatched cities", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("Blackout", []string{"BRASILIA"}).Return(nil, &apierrors.EmptyGroupError{Selection: "cities"})

		rec := serveViews(t, svc, "/blackout?city=BRASILIA")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "no_data", body["status"])
		assert.Equal(t, "cities", body["selection"])
	})
}

func TestDashboardHandler_SimpleViews(t *testing.T) {
	tests := []struct {
		target string
		method string
		view   interface{}
	}{
		{target: "/demographics", method: "Demographics", view: &domain.DemographicsView{Status: domain.ViewStatusOK}},
		{target: "/diversity", method: "Diversity", view: &domain.DiversityView{Status: domain.ViewStatusOK}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			svc := new(MockDashboardService)
			svc.On(tt.method).Return(tt.view, nil)

			rec := serveViews(t, svc, tt.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "ok", decodeBody(t, rec)["status"])
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_GetAbout(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		rows           int
		call           bool
		expectedStatus int
	}{
		{name: "default rows", target: "/about", rows: 0, call: true, expectedStatus: http.StatusOK},
		{name: "explicit rows", target: "/about?rows=10", rows: 10, call: true, expectedStatus: http.StatusOK},
		{name: "zero rows", target: "/about?rows=0", expectedStatus: http.StatusBadRequest},
		{name: "too many rows", target: "/about?rows=100000", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			if tt.call {
				svc.On("About", tt.rows).Return(&domain.AboutView{Rows: 11, Header: []string{"municipio"}}, nil)
			}

			rec := serveViews(t, svc, tt.target)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
