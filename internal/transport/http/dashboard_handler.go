package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cnhpulse/internal/config"
	apierrors "cnhpulse/internal/errors"
	"cnhpulse/internal/middleware"
	"cnhpulse/internal/services"
)

// maxRankingLimit caps the per-group ranking size
const maxRankingLimit = 100

// HeavyParams are the query parameters of the heavy panel
type HeavyParams struct {
	AgeBand string `query:"age_band" validate:"max=32,printable"`
	Search  string `query:"search" validate:"max=100,printable"`
	Limit   int    `query:"limit" validate:"gte=0,lte=100"`
}

// BlackoutParams are the query parameters of the blackout view
type BlackoutParams struct {
	Cities []string `query:"cities" validate:"max=20,dive,min=1,max=100,printable"`
}

// DashboardHandler serves the dashboard views as JSON
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.RequestValidator
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    middleware.NewRequestValidator(logger),
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the view routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/overview", h.GetOverview)
	r.Get("/heavy", h.GetHeavyPanel)
	r.Get("/demographics", h.GetDemographics)
	r.Get("/blackout", h.GetBlackout)
	r.Get("/diversity", h.GetDiversity)
	r.Get("/about", h.GetAbout)

	return r
}

// GetOverview handles GET /api/views/overview
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Overview(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetHeavyPanel handles GET /api/views/heavy?age_band=&search=&limit=
func (h *DashboardHandler) GetHeavyPanel(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.query.ValidateInt(w, r, "limit", 0, maxRankingLimit, 0)
	if !ok {
		return
	}

	params := HeavyParams{
		AgeBand: strings.TrimSpace(r.URL.Query().Get("age_band")),
		Search:  strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:   limit,
	}
	if err := h.validator.ValidateStruct(params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.HeavyPanel(r.Context(), services.HeavyQuery{
		AgeBand: params.AgeBand,
		Search:  params.Search,
		Limit:   params.Limit,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetDemographics handles GET /api/views/demographics
func (h *DashboardHandler) GetDemographics(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Demographics(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetBlackout handles GET /api/views/blackout?cities=A,B
func (h *DashboardHandler) GetBlackout(w http.ResponseWriter, r *http.Request) {
	params := BlackoutParams{Cities: cityParams(r)}
	if err := h.validator.ValidateStruct(params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Blackout(r.Context(), params.Cities)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// cityParams accepts comma-separated lists in cities and repeated city parameters
func cityParams(r *http.Request) []string {
	query := r.URL.Query()
	var cities []string
	for _, value := range append(query["cities"], query["city"]...) {
		for _, city := range strings.Split(value, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cities = append(cities, city)
			}
		}
	}
	return cities
}

// GetDiversity handles GET /api/views/diversity
func (h *DashboardHandler) GetDiversity(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Diversity(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetAbout handles GET /api/views/about?rows=
func (h *DashboardHandler) GetAbout(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.query.ValidateInt(w, r, "rows", 1, config.MaxPreviewRows, 0)
	if !ok {
		return
	}

	view, err := h.service.About(r.Context(), rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}
