package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/architeacher/svc-trip-planner/internal/adapters/http/handlers"
	"github.com/architeacher/svc-trip-planner/internal/adapters/http/mappers"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/usecases"
	"github.com/architeacher/svc-trip-planner/internal/usecases/commands"
	"github.com/architeacher/svc-trip-planner/internal/usecases/queries"
)

var _ handlers.ServerInterface = (*RequestHandler)(nil)

type RequestHandler struct {
	app     *usecases.WebApplication
	logger  infrastructure.Logger
	version string
	now     func() time.Time
}

func NewRequestHandler(
	app *usecases.WebApplication,
	logger infrastructure.Logger,
	version string,
) *RequestHandler {
	return &RequestHandler{
		app:     app,
		logger:  logger,
		version: version,
		now:     time.Now,
	}
}

// SubmitTrip implements ServerInterface.SubmitTrip
func (h *RequestHandler) SubmitTrip(w http.ResponseWriter, r *http.Request, _ handlers.SubmitTripParams) {
	var req handlers.SubmitTripJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid request body", nil)

		return
	}

	cmd := commands.SubmitTripCommand{
		Origin:      req.Origin,
		Destination: req.Destination,
		Email:       string(req.Email),
	}

	if req.CallbackUrl != nil {
		cmd.CallbackURL = *req.CallbackUrl
	}

	job, err := h.app.Commands.SubmitTripCommandHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.writeDomainError(w, err)

		return
	}

	w.Header().Set("Location", "/v1/trips/"+job.ID.String())
	h.writeJSON(w, http.StatusAccepted, mappers.JobToResponse(job))
}

// GetTrip implements ServerInterface.GetTrip
func (h *RequestHandler) GetTrip(w http.ResponseWriter, r *http.Request, jobId openapi_types.UUID, _ handlers.GetTripParams) {
	job, err := h.app.Queries.FetchJobQueryHandler.Execute(
		r.Context(),
		queries.FetchJobQuery{JobID: jobId.String()},
	)
	if err != nil {
		h.writeDomainError(w, err)

		return
	}

	h.writeJSON(w, http.StatusOK, mappers.JobToResponse(job))
}

// HealthCheck implements ServerInterface.HealthCheck
func (h *RequestHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	healthResult, err := h.app.Queries.FetchHealthReportQueryHandler.Execute(
		r.Context(),
		queries.FetchHealthReportQuery{},
	)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "internal_server_error", "Failed to check health", nil)

		return
	}

	healthResp := mappers.HealthToResponse(healthResult)
	healthResp.Timestamp = h.now()
	healthResp.Version = h.version

	statusCode := http.StatusOK
	if healthResp.Status == handlers.HealthResponseStatusDOWN {
		statusCode = http.StatusServiceUnavailable
	}

	h.writeJSON(w, statusCode, healthResp)
}

// writeDomainError maps a use case failure onto its HTTP status. Anything that
// is not a domain error is reported as an internal error without its cause.
func (h *RequestHandler) writeDomainError(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		h.logger.Error().Err(err).Msg("request failed")
		h.writeErrorResponse(w, http.StatusInternalServerError, "internal_server_error", "Internal server error", nil)

		return
	}

	if domainErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("code", domainErr.Code).Msg("request failed")
	}

	h.writeErrorResponse(w, domainErr.StatusCode, domainErr.Code, domainErr.Message, domainErr.Details)
}

// writeErrorResponse writes a standardized error response
func (h *RequestHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, errorType, message string, details map[string]any) {
	errorResp := handlers.ErrorResponse{
		Error:      errorType,
		Message:    message,
		StatusCode: statusCode,
		Timestamp:  h.now(),
	}

	if len(details) > 0 {
		errorResp.Details = &details
	}

	h.writeJSON(w, statusCode, errorResp)
}

func (h *RequestHandler) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}
