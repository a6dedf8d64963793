package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "branchscope/internal/errors"
	"branchscope/internal/operations"
	"branchscope/internal/report"
)

// ReportService is the service surface the handler depends on.
type ReportService interface {
	Submit(ctx context.Context, req *operations.ReportRequest) (*operations.Job, error)
	Job(id string) (*operations.Job, error)
	Document(id string) (*report.Document, error)
}

// ReportHandler handles report job HTTP requests
type ReportHandler struct {
	service  ReportService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportService, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With(slog.String("handler", "reports")),
	}
}

// CreateReport handles POST /api/reports: validates the request, creates a
// job, and returns 202 with the pending job.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req operations.ReportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		renderError(w, r, validationError(err))
		return
	}

	job, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		renderError(w, r, apierrors.FromDomain(err))
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, job)
}

// GetReport handles GET /api/reports/{id}: returns the job's current state.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.service.Job(id)
	if err != nil {
		renderError(w, r, apierrors.ErrJobNotFound)
		return
	}

	render.JSON(w, r, job)
}

// GetDocument handles GET /api/reports/{id}/document: returns the assembled
// document of a completed job.
func (h *ReportHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.service.Job(id)
	if err != nil {
		renderError(w, r, apierrors.ErrJobNotFound)
		return
	}
	if !job.Terminal() {
		renderError(w, r, apierrors.ErrJobNotReady)
		return
	}
	if job.Status == operations.JobStatusFailed {
		renderError(w, r, apierrors.NewWithDetails(http.StatusNotFound, "NO_DOCUMENT", "Report job failed", job.Error))
		return
	}

	doc, err := h.service.Document(id)
	if err != nil {
		renderError(w, r, apierrors.FromDomain(err))
		return
	}

	render.JSON(w, r, doc)
}

// validationError converts validator output into field-level API errors.
func validationError(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	fields := make([]apierrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierrors.FieldError{
			Field:   fe.Field(),
			Message: fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(fields)
}

func renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	_ = render.Render(w, r, apierrors.NewErrorResponse(apiErr))
}
