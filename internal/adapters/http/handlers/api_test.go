package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingServer struct {
	called string
	jobID  openapi_types.UUID
	accept *string
}

func (s *recordingServer) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	s.called = "HealthCheck"
	w.WriteHeader(http.StatusOK)
}

func (s *recordingServer) SubmitTrip(w http.ResponseWriter, _ *http.Request, params SubmitTripParams) {
	s.called = "SubmitTrip"
	s.accept = params.Accept
	w.WriteHeader(http.StatusAccepted)
}

func (s *recordingServer) GetTrip(w http.ResponseWriter, _ *http.Request, jobId openapi_types.UUID, params GetTripParams) {
	s.called = "GetTrip"
	s.jobID = jobId
	s.accept = params.Accept
	w.WriteHeader(http.StatusOK)
}

func TestGetSwagger(t *testing.T) {
	t.Parallel()

	swagger, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(context.Background()))

	assert.NotNil(t, swagger.Paths.Find("/v1/trips"))
	assert.NotNil(t, swagger.Paths.Find("/v1/trips/{jobId}"))
	assert.NotNil(t, swagger.Paths.Find("/v1/health"))
}

func TestHandlerWithOptions_Routing(t *testing.T) {
	t.Parallel()

	jobID := "6f1c52d2-3c1e-4a47-8a55-1c3f3e3b0a11"

	tests := []struct {
		name           string
		method         string
		path           string
		accept         string
		expectedCall   string
		expectedStatus int
	}{
		{
			name:           "health",
			method:         http.MethodGet,
			path:           "/v1/health",
			expectedCall:   "HealthCheck",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "submit trip",
			method:         http.MethodPost,
			path:           "/v1/trips",
			accept:         "application/json",
			expectedCall:   "SubmitTrip",
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "get trip",
			method:         http.MethodGet,
			path:           "/v1/trips/" + jobID,
			expectedCall:   "GetTrip",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed job id",
			method:         http.MethodGet,
			path:           "/v1/trips/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := &recordingServer{}
			router := Handler(server)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedCall, server.called)

			if tt.expectedCall == "GetTrip" {
				assert.Equal(t, jobID, server.jobID.String())
			}

			if tt.accept != "" {
				require.NotNil(t, server.accept)
				assert.Equal(t, tt.accept, *server.accept)
			}
		})
	}
}

func TestHandlerWithOptions_AppliesMiddlewares(t *testing.T) {
	t.Parallel()

	var order []string

	tag := func(name string) MiddlewareFunc {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router := HandlerWithOptions(&recordingServer{}, ChiServerOptions{
		Middlewares: []MiddlewareFunc{tag("inner"), tag("outer")},
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
