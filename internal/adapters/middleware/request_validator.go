package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/architeacher/svc-trip-planner/internal/adapters/http/handlers"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
)

type (
	ErrorHandler func(w http.ResponseWriter, message string, statusCode int)

	RequestValidatorOptions struct {
		Options               openapi3filter.Options
		ErrorHandler          ErrorHandler
		SilenceServersWarning bool
	}
)

// OapiRequestValidatorWithOptions validates requests against the API document,
// including its security requirements, before they reach a handler.
func OapiRequestValidatorWithOptions(
	logger infrastructure.Logger,
	swagger *openapi3.T,
	options *RequestValidatorOptions,
) (handlers.MiddlewareFunc, error) {
	if len(swagger.Servers) != 0 && (options == nil || !options.SilenceServersWarning) {
		logger.Warn().Msg("API document declares servers; requests are matched against their host names")
	}

	router, err := gorillamux.NewRouter(swagger)
	if err != nil {
		return nil, err
	}

	if options == nil {
		options = &RequestValidatorOptions{}
	}

	if options.ErrorHandler == nil {
		options.ErrorHandler = RequestValidationErrHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if statusCode, err := validateRequest(r, router, &options.Options); err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Int("status_code", statusCode).Msg("request failed validation")
				options.ErrorHandler(w, validationMessage(err), statusCode)

				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func validateRequest(r *http.Request, router routers.Router, options *openapi3filter.Options) (int, error) {
	route, pathParams, err := router.FindRoute(r)
	if err != nil {
		return http.StatusNotFound, err
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options:    options,
	}

	if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
		var securityErr *openapi3filter.SecurityRequirementsError
		if errors.As(err, &securityErr) {
			return http.StatusUnauthorized, err
		}

		var requestErr *openapi3filter.RequestError
		if errors.As(err, &requestErr) {
			return http.StatusBadRequest, err
		}

		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

func validationMessage(err error) string {
	var securityErr *openapi3filter.SecurityRequirementsError
	if errors.As(err, &securityErr) {
		return "Missing or invalid credentials"
	}

	// Only the first line; the rest repeats the schema.
	message, _, _ := strings.Cut(err.Error(), "\n")

	return message
}

// RequestValidationErrHandler renders validation failures as API errors.
func RequestValidationErrHandler(w http.ResponseWriter, message string, statusCode int) {
	code := "bad_request"

	switch statusCode {
	case http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case http.StatusNotFound:
		code = "not_found"
	case http.StatusInternalServerError:
		code = "internal_server_error"
	}

	writeError(w, statusCode, code, message)
}
