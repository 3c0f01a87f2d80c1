package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/architeacher/svc-trip-planner/internal/adapters/http/handlers"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/usecases"
	"github.com/architeacher/svc-trip-planner/internal/usecases/commands"
	"github.com/architeacher/svc-trip-planner/internal/usecases/queries"
)

type (
	mockSubmitTrip  struct{ mock.Mock }
	mockFetchJob    struct{ mock.Mock }
	mockFetchHealth struct{ mock.Mock }
)

func (m *mockSubmitTrip) Handle(ctx context.Context, cmd commands.SubmitTripCommand) (*domain.Job, error) {
	args := m.Called(ctx, cmd)

	job, _ := args.Get(0).(*domain.Job)

	return job, args.Error(1)
}

func (m *mockFetchJob) Execute(ctx context.Context, q queries.FetchJobQuery) (*domain.Job, error) {
	args := m.Called(ctx, q)

	job, _ := args.Get(0).(*domain.Job)

	return job, args.Error(1)
}

func (m *mockFetchHealth) Execute(ctx context.Context, q queries.FetchHealthReportQuery) (*domain.HealthResult, error) {
	args := m.Called(ctx, q)

	result, _ := args.Get(0).(*domain.HealthResult)

	return result, args.Error(1)
}

type handlerFixture struct {
	submit *mockSubmitTrip
	fetch  *mockFetchJob
	health *mockFetchHealth
	router http.Handler
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		submit: &mockSubmitTrip{},
		fetch:  &mockFetchJob{},
		health: &mockFetchHealth{},
	}

	app := &usecases.WebApplication{
		Commands: usecases.Commands{SubmitTripCommandHandler: f.submit},
		Queries: usecases.Queries{
			FetchJobQueryHandler:          f.fetch,
			FetchHealthReportQueryHandler: f.health,
		},
	}

	h := NewRequestHandler(app, infrastructure.NewTestLogger(), "1.2.3")
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	f.router = handlers.Handler(h)

	return f
}

func (f *handlerFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func pendingJob() *domain.Job {
	return domain.NewJob(domain.TripRequest{
		Origin:      "Berlin",
		Destination: "Hamburg",
		Email:       "traveller@example.com",
	}, time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC))
}

func TestRequestHandler_SubmitTrip(t *testing.T) {
	t.Parallel()

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()

		f := newHandlerFixture()
		job := pendingJob()

		f.submit.On("Handle", mock.Anything, commands.SubmitTripCommand{
			Origin:      "Berlin",
			Destination: "Hamburg",
			Email:       "traveller@example.com",
			CallbackURL: "https://hooks.example.com/trips",
		}).Return(job, nil)

		rec := f.do(http.MethodPost, "/v1/trips", `{"origin":"Berlin","destination":"Hamburg","email":"traveller@example.com","callback_url":"https://hooks.example.com/trips"}`)

		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "/v1/trips/"+job.ID.String(), rec.Header().Get("Location"))

		var resp handlers.JobResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, job.ID, resp.JobId)
		assert.Equal(t, handlers.JobResponseStatusPending, resp.Status)
		assert.Empty(t, resp.Stages)

		f.submit.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		f := newHandlerFixture()

		rec := f.do(http.MethodPost, "/v1/trips", `{"origin":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.submit.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "validation failure",
			err:            domain.NewInvalidTripRequestError("destination", "must differ from origin"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_TRIP_REQUEST",
		},
		{
			name:           "dispatch failure",
			err:            domain.NewDispatchFailedError(uuid.NewString(), 3, errors.New("connection lost")),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "DISPATCH_FAILED",
		},
		{
			name:           "unexpected failure",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "internal_server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newHandlerFixture()
			f.submit.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := f.do(http.MethodPost, "/v1/trips", `{"origin":"Berlin","destination":"Berlin","email":"traveller@example.com"}`)

			require.Equal(t, tt.expectedStatus, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Error)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.NotContains(t, resp.Message, "boom")
		})
	}
}

func TestRequestHandler_GetTrip(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		f := newHandlerFixture()
		job := pendingJob()

		f.fetch.On("Execute", mock.Anything, queries.FetchJobQuery{JobID: job.ID.String()}).Return(job, nil)

		rec := f.do(http.MethodGet, "/v1/trips/"+job.ID.String(), "")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp handlers.JobResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Berlin", resp.Origin)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		f := newHandlerFixture()
		jobID := uuid.NewString()

		f.fetch.On("Execute", mock.Anything, mock.Anything).Return(nil, domain.NewJobNotFoundError(jobID))

		rec := f.do(http.MethodGet, "/v1/trips/"+jobID, "")

		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp handlers.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "JOB_NOT_FOUND", resp.Error)
		require.NotNil(t, resp.Details)
		assert.Equal(t, jobID, (*resp.Details)["job_id"])
	})
}

func TestRequestHandler_HealthCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		overall        domain.HealthResponseStatus
		expectedStatus int
		expectedBody   handlers.HealthResponseStatus
	}{
		{
			name:           "healthy",
			overall:        domain.HealthResponseStatusHealthy,
			expectedStatus: http.StatusOK,
			expectedBody:   handlers.HealthResponseStatusOK,
		},
		{
			name:           "degraded stays available",
			overall:        domain.HealthResponseStatusDegraded,
			expectedStatus: http.StatusOK,
			expectedBody:   handlers.HealthResponseStatusDEGRADED,
		},
		{
			name:           "unhealthy",
			overall:        domain.HealthResponseStatusUnhealthy,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   handlers.HealthResponseStatusDOWN,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newHandlerFixture()
			f.health.On("Execute", mock.Anything, queries.FetchHealthReportQuery{}).Return(&domain.HealthResult{
				OverallStatus: tt.overall,
			}, nil)

			rec := f.do(http.MethodGet, "/v1/health", "")

			require.Equal(t, tt.expectedStatus, rec.Code)

			var resp handlers.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedBody, resp.Status)
			assert.Equal(t, "1.2.3", resp.Version)
		})
	}
}
