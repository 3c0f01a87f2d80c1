// Package handlers holds the HTTP contract of the trip planner API: wire
// types, the server interface and its chi routing.
package handlers

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for DependencyCheckStatus.
const (
	DependencyCheckStatusDegraded  DependencyCheckStatus = "degraded"
	DependencyCheckStatusHealthy   DependencyCheckStatus = "healthy"
	DependencyCheckStatusUnhealthy DependencyCheckStatus = "unhealthy"
	DependencyCheckStatusUnknown   DependencyCheckStatus = "unknown"
)

// Defines values for HealthResponseStatus.
const (
	HealthResponseStatusDEGRADED HealthResponseStatus = "DEGRADED"
	HealthResponseStatusDOWN     HealthResponseStatus = "DOWN"
	HealthResponseStatusOK       HealthResponseStatus = "OK"
)

// Defines values for JobResponseStatus.
const (
	JobResponseStatusCompleted  JobResponseStatus = "completed"
	JobResponseStatusFailed     JobResponseStatus = "failed"
	JobResponseStatusInProgress JobResponseStatus = "in_progress"
	JobResponseStatusPending    JobResponseStatus = "pending"
)

// Defines values for StageStateStage.
const (
	StageStateStageEmail   StageStateStage = "email"
	StageStateStageGeocode StageStateStage = "geocode"
	StageStateStageMap     StageStateStage = "map"
	StageStateStageRoute   StageStateStage = "route"
	StageStateStageWeather StageStateStage = "weather"
)

// Defines values for StageStateStatus.
const (
	StageStateStatusFailed    StageStateStatus = "failed"
	StageStateStatusSucceeded StageStateStatus = "succeeded"
)

type (
	DependencyCheckStatus string
	HealthResponseStatus  string
	JobResponseStatus     string
	StageStateStage       string
	StageStateStatus      string

	DependencyCheck struct {
		Error        *string               `json:"error,omitempty"`
		LastChecked  *time.Time            `json:"last_checked,omitempty"`
		ResponseTime *float32              `json:"response_time,omitempty"`
		Status       DependencyCheckStatus `json:"status"`
	}

	ErrorResponse struct {
		Details    *map[string]interface{} `json:"details,omitempty"`
		Error      string                  `json:"error"`
		Message    string                  `json:"message"`
		StatusCode int                     `json:"status_code"`
		Timestamp  time.Time               `json:"timestamp"`
	}

	HealthResponse struct {
		Checks    HealthResponseChecks `json:"checks"`
		Status    HealthResponseStatus `json:"status"`
		Timestamp time.Time            `json:"timestamp"`
		Uptime    *float32             `json:"uptime,omitempty"`
		Version   string               `json:"version"`
	}

	HealthResponseChecks struct {
		Cache   DependencyCheck `json:"cache"`
		Queue   DependencyCheck `json:"queue"`
		Storage DependencyCheck `json:"storage"`
	}

	JobResponse struct {
		CompletedAt *time.Time         `json:"completed_at,omitempty"`
		CreatedAt   time.Time          `json:"created_at"`
		Destination string             `json:"destination"`
		Error       *string            `json:"error,omitempty"`
		JobId       openapi_types.UUID `json:"job_id"`
		Origin      string             `json:"origin"`
		Stages      []StageState       `json:"stages"`
		Status      JobResponseStatus  `json:"status"`
		UpdatedAt   time.Time          `json:"updated_at"`
	}

	StageState struct {
		Detail     *string          `json:"detail,omitempty"`
		ReportedAt time.Time        `json:"reported_at"`
		Stage      StageStateStage  `json:"stage"`
		Status     StageStateStatus `json:"status"`
	}

	SubmitTripRequest struct {
		CallbackUrl *string             `json:"callback_url,omitempty"`
		Destination string              `json:"destination"`
		Email       openapi_types.Email `json:"email"`
		Origin      string              `json:"origin"`
	}

	SubmitTripParams struct {
		Accept *string `json:"Accept,omitempty"`
	}

	GetTripParams struct {
		Accept *string `json:"Accept,omitempty"`
	}

	SubmitTripJSONRequestBody = SubmitTripRequest
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Report the health of the service and its dependencies
	// (GET /v1/health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Submit a trip planning job
	// (POST /v1/trips)
	SubmitTrip(w http.ResponseWriter, r *http.Request, params SubmitTripParams)
	// Fetch the status document of a trip planning job
	// (GET /v1/trips/{jobId})
	GetTrip(w http.ResponseWriter, r *http.Request, jobId openapi_types.UUID, params GetTripParams)
}

type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// HealthCheck operation middleware
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.HealthCheck(w, r)
	}))

	siw.serve(handler, w, r)
}

// SubmitTrip operation middleware
func (siw *ServerInterfaceWrapper) SubmitTrip(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithValue(r.Context(), BearerAuthScopes, []string{})
	r = r.WithContext(ctx)

	var (
		params SubmitTripParams
		err    error
	)

	params.Accept, err = bindAcceptHeader(r)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, err)

		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SubmitTrip(w, r, params)
	}))

	siw.serve(handler, w, r)
}

// GetTrip operation middleware
func (siw *ServerInterfaceWrapper) GetTrip(w http.ResponseWriter, r *http.Request) {
	var jobId openapi_types.UUID

	err := runtime.BindStyledParameterWithOptions("simple", "jobId", chi.URLParam(r, "jobId"), &jobId, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "jobId", Err: err})

		return
	}

	ctx := context.WithValue(r.Context(), BearerAuthScopes, []string{})
	r = r.WithContext(ctx)

	var params GetTripParams

	params.Accept, err = bindAcceptHeader(r)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, err)

		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetTrip(w, r, jobId, params)
	}))

	siw.serve(handler, w, r)
}

func (siw *ServerInterfaceWrapper) serve(handler http.Handler, w http.ResponseWriter, r *http.Request) {
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

func bindAcceptHeader(r *http.Request) (*string, error) {
	valueList, found := r.Header[http.CanonicalHeaderKey("Accept")]
	if !found {
		return nil, nil
	}

	if n := len(valueList); n != 1 {
		return nil, &TooManyValuesForParamError{ParamName: "Accept", Count: n}
	}

	var accept string

	err := runtime.BindStyledParameterWithOptions("simple", "Accept", valueList[0], &accept, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationHeader,
		Explode:       false,
		Required:      false,
	})
	if err != nil {
		return nil, &InvalidParamFormatError{ParamName: "Accept", Err: err}
	}

	return &accept, nil
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

type TooManyValuesForParamError struct {
	ParamName string
	Count     int
}

func (e *TooManyValuesForParamError) Error() string {
	return fmt.Sprintf("Expected one value for %s, got %d", e.ParamName, e.Count)
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/v1/health", wrapper.HealthCheck)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/v1/trips", wrapper.SubmitTrip)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/v1/trips/{jobId}", wrapper.GetTrip)
	})

	return r
}

//go:embed openapi.yaml
var swaggerSpec []byte

// GetSwagger returns the parsed API document the router is built from.
func GetSwagger() (*openapi3.T, error) {
	swagger, err := openapi3.NewLoader().LoadFromData(swaggerSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading Swagger: %w", err)
	}

	return swagger, nil
}
