package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cnhpulse/internal/shared/testutil"
)

func TestNewErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		includeStack bool
	}{
		{name: "create handler with stack traces", includeStack: true},
		{name: "create handler without stack traces", includeStack: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)

			handler := NewErrorHandler(logger, tt.includeStack)

			assert.NotNil(t, handler)
			assert.Equal(t, tt.includeStack, handler.includeStack)
			assert.NotNil(t, handler.logger)
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	loadErr := NewRowError("data/condutores.csv", 7, "qtd_condutores", "count is not an integer", fmt.Errorf("strconv: invalid syntax"))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
	}{
		{
			name:       "handle context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantTitle:  "Request Timeout",
		},
		{
			name:       "handle data load error",
			err:        loadErr,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataLoadFailed,
			wantTitle:  "Data Load Failed",
		},
		{
			name:       "handle wrapped data load error",
			err:        fmt.Errorf("overview: %w", loadErr),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataLoadFailed,
			wantTitle:  "Data Load Failed",
		},
		{
			name:       "handle unknown band",
			err:        &UnknownBandError{Label: "12-17 ANOS"},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnknownBand,
			wantTitle:  "Unknown Age Band",
		},
		{
			name:       "handle APIError",
			err:        ErrValidation("rows", "must be at most 500"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Bad Request",
		},
		{
			name:       "handle generic error",
			err:        fmt.Errorf("something went wrong"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logHandler := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, true)

			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/api/views/overview", nil)
			r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "test-request-id"))

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))

			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantTitle, body["title"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "test-request-id", body["trace_id"])
			assert.Contains(t, body, "stack")

			assert.True(t, logHandler.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/views/heavy", nil)

	handler.HandleError(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, 0, logHandler.Count())
}

func TestErrorHandler_HandleError_EmptyGroup(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/views/heavy?age_band=91-100", nil)

	handler.HandleError(w, r, fmt.Errorf("heavy panel: %w", &EmptyGroupError{Selection: "age_band=91-100 ANOS"}))

	assert.Equal(t, http.StatusOK, w.Code)

	var body NoDataResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "no_data", body.Status)
	assert.Equal(t, "age_band=91-100 ANOS", body.Selection)

	assert.False(t, logHandler.ContainsMessage("request failed"))
	assert.True(t, logHandler.ContainsMessage("selection matched no rows"))
}

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantExt    map[string]interface{}
	}{
		{
			name:       "load error carries location",
			err:        NewRowError("in.csv", 3, "faixa_etaria", "invalid age band", &UnknownBandError{Label: "ABC"}),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataLoadFailed,
			wantExt:    map[string]interface{}{"source": "in.csv", "row": 3, "column": "faixa_etaria", "age_band": "ABC"},
		},
		{
			name:       "file level load error has no row",
			err:        NewDataLoadError("missing.csv", "open source file", fmt.Errorf("no such file")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataLoadFailed,
			wantExt:    map[string]interface{}{"source": "missing.csv"},
		},
		{
			name:       "direct unknown band",
			err:        &UnknownBandError{Label: "X"},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnknownBand,
			wantExt:    map[string]interface{}{"age_band": "X"},
		},
		{
			name:       "api not found",
			err:        UnknownResource("chart", "pie", []string{"age-wall"}),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantExt:    map[string]interface{}{"error_code": "NOT_FOUND"},
		},
		{
			name:       "api data unavailable",
			err:        fmt.Errorf("overview: %w", ErrDataUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeServiceDown,
			wantExt:    map[string]interface{}{"error_code": "DATA_UNAVAILABLE"},
		},
		{
			name:       "app validation error",
			err:        NewAppValidationError("limit must be positive"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantExt:    map[string]interface{}{"error_type": "VALIDATION"},
		},
		{
			name:       "app storage error hides cause",
			err:        NewStorageError("write export", fmt.Errorf("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantExt:    map[string]interface{}{"error_type": "STORAGE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)
			r := httptest.NewRequest("GET", "/test", nil)

			problem := handler.ErrorToProblem(tt.err, r)

			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/test", problem.Instance)
			for k, v := range tt.wantExt {
				assert.Equal(t, v, problem.Extensions[k], "extension %s", k)
			}
		})
	}
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/charts/age-wall.png", nil)

	handler.HandlePanic(w, r, "boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, "boom", body["panic"])
	assert.True(t, logHandler.ContainsMessage("panic recovered"))
}

func TestErrorHandler_RecoveryMiddleware(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("view exploded")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/views/blackout", nil)

	assert.NotPanics(t, func() {
		handler.RecoveryMiddleware(panicking).ServeHTTP(w, r)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest("POST", "/api/views/overview", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "Method POST is not allowed")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusServiceUnavailable, TypeDataLoadFailed, "Data Load Failed", "", "/api/views/overview").
		WithExtension("source", "in.csv")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeDataLoadFailed, body["type"])
	assert.Equal(t, "in.csv", body["source"])
	assert.NotContains(t, body, "detail")
}
