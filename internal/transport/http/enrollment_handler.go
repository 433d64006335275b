package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"enrollstats/internal/config"
	"enrollstats/internal/enrollment"
	apierrors "enrollstats/internal/errors"
	appmiddleware "enrollstats/internal/middleware"
	"enrollstats/internal/report"
)

// medianRequest is the validated input of GET /schools/{school}/median
type medianRequest struct {
	School    string `query:"school" validate:"school"`
	Threshold int    `query:"threshold" validate:"min=0"`
}

// exportRequest is the validated input of GET /export
type exportRequest struct {
	Format string `query:"format" validate:"required,oneof=xlsx csv"`
}

// SchoolsResponse lists the school directory
type SchoolsResponse struct {
	Count   int                 `json:"count"`
	Schools []enrollment.School `json:"schools"`
}

// EnrollmentHandler serves the enrollment statistics API
type EnrollmentHandler struct {
	service      EnrollmentServiceInterface
	validator    *appmiddleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(service EnrollmentServiceInterface, validator *appmiddleware.RequestValidator,
	logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *EnrollmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = appmiddleware.NewRequestValidator(logger)
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}

	return &EnrollmentHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "enrollment_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the enrollment routes
func (h *EnrollmentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/dataset", h.GetDataset)
	r.Get("/schools", h.GetSchools)
	r.Route("/schools/{school}", func(r chi.Router) {
		r.Use(h.SchoolCtx)
		r.Get("/stats", h.GetSchoolStats)
		r.Get("/median", h.GetMedian)
	})
	r.Get("/stats/general", h.GetGeneralStats)
	r.Get("/export", h.Export)

	return r
}

type schoolKey struct{}

// SchoolCtx stores the decoded {school} parameter.
// chi matches against RawPath when it is set, so only then is the parameter still escaped.
func (h *EnrollmentHandler) SchoolCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		school := chi.URLParam(r, "school")
		if r.URL.RawPath != "" {
			decoded, err := url.PathUnescape(school)
			if err != nil {
				h.errorHandler.HandleError(w, r, apierrors.ErrValidation("school", "school must be a valid path segment"))
				return
			}
			school = decoded
		}

		ctx := context.WithValue(r.Context(), schoolKey{}, school)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func schoolFrom(ctx context.Context) string {
	school, _ := ctx.Value(schoolKey{}).(string)
	return school
}

// GetDataset handles GET /dataset
func (h *EnrollmentHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Info(r.Context()))
}

// GetSchools handles GET /schools
func (h *EnrollmentHandler) GetSchools(w http.ResponseWriter, r *http.Request) {
	schools := h.service.Schools(r.Context())
	render.JSON(w, r, SchoolsResponse{Count: len(schools), Schools: schools})
}

// GetSchoolStats handles GET /schools/{school}/stats
func (h *EnrollmentHandler) GetSchoolStats(w http.ResponseWriter, r *http.Request) {
	school := schoolFrom(r.Context())

	stats, err := h.service.SchoolStats(r.Context(), school)
	if err != nil {
		h.logger.InfoContext(r.Context(), "school stats query failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("school", school),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, stats)
}

// GetMedian handles GET /schools/{school}/median?threshold=N
func (h *EnrollmentHandler) GetMedian(w http.ResponseWriter, r *http.Request) {
	threshold, err := h.validator.QueryInt(r, "threshold", h.service.Threshold())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req := medianRequest{School: schoolFrom(r.Context()), Threshold: threshold}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Median(r.Context(), req.School, req.Threshold)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// GetGeneralStats handles GET /stats/general
func (h *EnrollmentHandler) GetGeneralStats(w http.ResponseWriter, r *http.Request) {
	gs, err := h.service.GeneralStats(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, gs)
}

// Export handles GET /export?format=xlsx|csv and streams the all-schools report as an attachment
func (h *EnrollmentHandler) Export(w http.ResponseWriter, r *http.Request) {
	req := exportRequest{Format: h.validator.QueryString(r, "format", report.FormatXLSX)}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Buffer so a failed export still gets a problem response
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, req.Format); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := config.ExportBaseName + "." + req.Format
	w.Header().Set("Content-Type", report.ContentType(req.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export response write failed",
			slog.String("format", req.Format),
			slog.String("error", err.Error()))
	}
}
