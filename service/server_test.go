package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semvalid/config"
	"github.com/c360/semvalid/errors"
	"github.com/c360/semvalid/graph"
	"github.com/c360/semvalid/health"
	"github.com/c360/semvalid/pipeline"
	"github.com/c360/semvalid/shacl"
)

// stubValidator returns a canned result or error.
type stubValidator struct {
	result *pipeline.Result
	err    error
	gotIRI string
}

func (v *stubValidator) Validate(_ context.Context, resourceIRI string) (*pipeline.Result, error) {
	v.gotIRI = resourceIRI
	if v.err != nil {
		return nil, v.err
	}
	return v.result, nil
}

func conformantResult() *pipeline.Result {
	return &pipeline.Result{
		Resource: "https://example.org/catalog",
		Artifact: "https://example.org/shapes.ttl",
		Conforms: true,
		Report:   shacl.NewConformantReport(),
	}
}

func newTestServer(v Validator) *Server {
	cfg := config.Default().Server
	return NewServer(cfg, v, health.NewMonitor(), nil, nil)
}

func doRequest(t *testing.T, s *Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestValidateReturnsJSONReport(t *testing.T) {
	v := &stubValidator{result: conformantResult()}
	s := newTestServer(v)

	rec := doRequest(t, s, http.MethodGet, "/validate?resource=https%3A%2F%2Fexample.org%2Fcatalog", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://example.org/catalog", v.gotIRI)

	var body validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Conforms)
	assert.Equal(t, "https://example.org/shapes.ttl", body.Artifact)
	require.NotNil(t, body.Report)
	assert.True(t, body.Report.Conforms)
}

func TestValidateNonConformantIsStillOK(t *testing.T) {
	report := &shacl.Report{
		Conforms: false,
		Results: []shacl.Violation{{
			FocusNode: graph.NewIRI("https://example.org/catalog"),
			Message:   "missing title",
			Severity:  shacl.SeverityViolation,
		}},
	}
	v := &stubValidator{result: &pipeline.Result{
		Resource: "https://example.org/catalog",
		Artifact: "https://example.org/shapes.ttl",
		Conforms: false,
		Report:   report,
	}}
	s := newTestServer(v)

	rec := doRequest(t, s, http.MethodGet, "/validate?resource=https%3A%2F%2Fexample.org%2Fcatalog", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Conforms)
	assert.Len(t, body.Report.Results, 1)
}

func TestValidateNegotiatesGraphEncoding(t *testing.T) {
	v := &stubValidator{result: conformantResult()}
	s := newTestServer(v)

	header := http.Header{}
	header.Set("Accept", "text/turtle")
	rec := doRequest(t, s, http.MethodGet, "/validate?resource=https%3A%2F%2Fexample.org%2Fcatalog", header)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/turtle", rec.Header().Get("Content-Type"))
}

func TestValidateRequestValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing parameter", "/validate"},
		{"relative IRI", "/validate?resource=catalog"},
		{"unsupported scheme", "/validate?resource=ftp%3A%2F%2Fexample.org%2Fx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubValidator{result: conformantResult()})
			rec := doRequest(t, s, http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestValidateMethodNotAllowed(t *testing.T) {
	s := newTestServer(&stubValidator{result: conformantResult()})
	rec := doRequest(t, s, http.MethodPost, "/validate?resource=https%3A%2F%2Fexample.org%2Fcatalog", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "profile missing",
			err:        errors.WrapInvalid(errors.ErrProfileMissing, "Resolver", "FindProfile", "x"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "resource does not declare a profile",
		},
		{
			name:       "artifact missing",
			err:        errors.WrapInvalid(errors.ErrArtifactMissing, "Resolver", "ResolveArtifact", "x"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "profile does not provide a SHACL validation artifact",
		},
		{
			name:       "fetch failure",
			err:        errors.WrapTransient(errors.ErrFetchFailed, "Fetcher", "Fetch", "x"),
			wantStatus: http.StatusBadGateway,
			wantMsg:    "upstream retrieval failed",
		},
		{
			name:       "engine failure",
			err:        errors.WrapFatal(errors.ErrEngineFailure, "Pipeline", "Validate", "x"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubValidator{err: tt.err})
			rec := doRequest(t, s, http.MethodGet, "/validate?resource=https%3A%2F%2Fexample.org%2Fcatalog", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestErrorBodiesDoNotLeakIRIs(t *testing.T) {
	err := errors.WrapTransient(errors.ErrFetchFailed, "Fetcher", "Fetch",
		"https://internal.example.org/secret-catalog")
	s := newTestServer(&stubValidator{err: err})

	rec := doRequest(t, s, http.MethodGet, "/validate?resource=https%3A%2F%2Fexample.org%2Fcatalog", nil)
	assert.NotContains(t, rec.Body.String(), "internal.example.org")
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(&stubValidator{result: conformantResult()})

	header := http.Header{}
	header.Set("X-Request-ID", "caller-trace-1")
	rec := doRequest(t, s, http.MethodGet, "/validate?resource=https%3A%2F%2Fexample.org%2Fcatalog", header)
	assert.Equal(t, "caller-trace-1", rec.Header().Get("X-Request-ID"))

	rec = doRequest(t, s, http.MethodGet, "/healthz", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealthz(t *testing.T) {
	monitor := health.NewMonitor()
	s := NewServer(config.Default().Server, &stubValidator{result: conformantResult()}, monitor, nil, nil)

	monitor.UpdateHealthy("fetcher", "ready")
	rec := doRequest(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	monitor.UpdateUnhealthy("engine", "context allocation failing")
	rec = doRequest(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status health.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.IsUnhealthy())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&stubValidator{result: conformantResult()})

	rec := doRequest(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	cfg := config.Default().Server
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	s := NewServer(cfg, &stubValidator{result: conformantResult()}, nil, nil, nil)
	// Port 0 binds an ephemeral port; the test only cares that Run returns
	// once the context is canceled.
	s.httpSrv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}
