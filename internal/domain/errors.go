package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrJobNotFound            = errors.New("job not found")
	ErrJobAlreadyFinished     = errors.New("job already finished")
	ErrUnknownStage           = errors.New("unknown stage")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrInvalidCallbackURL     = errors.New("invalid callback URL")
	ErrDispatchFailed         = errors.New("trip could not be dispatched")
	ErrCallbackRejected       = errors.New("callback rejected")
	ErrInternalServerError    = errors.New("internal server error")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrRateLimitExceeded      = errors.New("rate limit exceeded")
	ErrCircuitBreakerOpen     = errors.New("circuit breaker open")
	ErrCacheUnavailable       = errors.New("cache service unavailable")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

type (
	DomainError struct {
		Code       string
		Message    string
		StatusCode int
		Cause      error
		Details    map[string]any
	}

	OptimisticLockError struct {
		Expected int
		Actual   int
	}
)

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}

	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func NewDomainError(code, message string, statusCode int, cause error) *DomainError {
	return &DomainError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
		Details:    make(map[string]any),
	}
}

func (e *DomainError) WithDetails(key string, value any) *DomainError {
	e.Details[key] = value

	return e
}

func NewInvalidTripRequestError(field, reason string) *DomainError {
	return NewDomainError(
		"INVALID_TRIP_REQUEST",
		fmt.Sprintf("Invalid %s: %s", field, reason),
		http.StatusBadRequest,
		ErrInvalidRequest,
	).WithDetails("field", field)
}

func NewJobNotFoundError(jobID string) *DomainError {
	return NewDomainError(
		"JOB_NOT_FOUND",
		fmt.Sprintf("Job %s was not found", jobID),
		http.StatusNotFound,
		ErrJobNotFound,
	).WithDetails("job_id", jobID)
}

func NewDispatchFailedError(jobID string, attempts int, cause error) *DomainError {
	return NewDomainError(
		"DISPATCH_FAILED",
		fmt.Sprintf("Job %s could not be dispatched after %d attempts", jobID, attempts),
		http.StatusServiceUnavailable,
		errors.Join(ErrDispatchFailed, cause),
	).WithDetails("job_id", jobID).WithDetails("attempts", attempts)
}

func NewCallbackRejectedError(url string, statusCode int) *DomainError {
	return NewDomainError(
		"CALLBACK_REJECTED",
		fmt.Sprintf("Callback %s answered with status %d", url, statusCode),
		statusCode,
		ErrCallbackRejected,
	).WithDetails("url", url).WithDetails("status_code", statusCode)
}

func NewRateLimitError(message string) *DomainError {
	return NewDomainError(
		"RATE_LIMITING_EXCEEDED",
		message,
		http.StatusTooManyRequests,
		ErrRateLimitExceeded,
	)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewDomainError(
		"UNAUTHORIZED",
		message,
		http.StatusUnauthorized,
		ErrUnauthorized,
	)
}

func NewInternalServerError(message string, cause error) *DomainError {
	return NewDomainError(
		"INTERNAL_SERVER_ERROR",
		message,
		http.StatusInternalServerError,
		cause,
	)
}

func NewConcurrentModificationError(resourceID string, expectedVersion, actualVersion int) *DomainError {
	return NewDomainError(
		"CONCURRENT_MODIFICATION",
		fmt.Sprintf("Resource %s was modified by another process", resourceID),
		http.StatusConflict,
		ErrConcurrentModification,
	).WithDetails("resource_id", resourceID).
		WithDetails("expected_version", expectedVersion).
		WithDetails("actual_version", actualVersion)
}

func (e *OptimisticLockError) Error() string {
	return fmt.Sprintf("optimistic lock failed: expected version %d, got %d", e.Expected, e.Actual)
}
