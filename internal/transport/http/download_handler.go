package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cnhpulse/internal/errors"
	"cnhpulse/internal/services"
)

// ExportBaseName is the file name offered for enriched table downloads
const ExportBaseName = "condutores_enriquecido"

// DownloadHandler serves the binary outputs: enriched exports and chart images.
// Output is buffered so a failure midway still yields a clean error response.
type DownloadHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DownloadHandler {
	return &DownloadHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "download_handler")),
		errorHandler: errorHandler,
	}
}

// ExportRoutes returns the export routes
func (h *DownloadHandler) ExportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/enriched.{format}", h.Export)
	return r
}

// ChartRoutes returns the chart routes
func (h *DownloadHandler) ChartRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCharts)
	r.Get("/{chart}.png", h.Chart)
	return r
}

// Export handles GET /api/export/enriched.{csv|xlsx}
func (h *DownloadHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := services.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	contentType, err := h.service.Export(r.Context(), format, &buf)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s.%s", ExportBaseName, format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	h.write(w, r, buf.Bytes())
}

// ListCharts handles GET /api/charts
func (h *DownloadHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	names := services.ChartNames()
	links := make([]map[string]string, 0, len(names))
	for _, name := range names {
		links = append(links, map[string]string{
			"name": name,
			"href": strings.TrimSuffix(r.URL.Path, "/") + "/" + name + ".png",
		})
	}
	render.JSON(w, r, map[string]interface{}{"charts": links})
}

// Chart handles GET /api/charts/{chart}.png
func (h *DownloadHandler) Chart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "chart")

	var buf bytes.Buffer
	if err := h.service.Chart(r.Context(), name, &buf); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	h.write(w, r, buf.Bytes())
}

// handleError maps unknown resources to 404 before the shared error handler
func (h *DownloadHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownFormat):
		err = apierrors.UnknownResource("export format", chi.URLParam(r, "format"),
			[]string{services.FormatCSV, services.FormatXLSX})
	case errors.Is(err, services.ErrUnknownChart):
		err = apierrors.UnknownResource("chart", chi.URLParam(r, "chart"), services.ChartNames())
	}
	h.errorHandler.HandleError(w, r, err)
}

func (h *DownloadHandler) write(w http.ResponseWriter, r *http.Request, body []byte) {
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(r.Context(), "client went away during download",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
}
