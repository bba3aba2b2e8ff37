package service

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/c360/semvalid/codec"
	"github.com/c360/semvalid/errors"
	"github.com/c360/semvalid/shacl"
)

// validateResponse is the JSON body for a completed validation.
type validateResponse struct {
	Resource string        `json:"resource"`
	Artifact string        `json:"artifact"`
	Conforms bool          `json:"conforms"`
	Report   *shacl.Report `json:"report"`
}

// errorResponse is the JSON body for every error.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resource := r.URL.Query().Get("resource")
	if err := checkResourceIRI(resource); err != "" {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.validator.Validate(r.Context(), resource)
	if err != nil {
		s.logger.Error("validation failed",
			"resource", resource,
			"request_id", w.Header().Get(requestIDHeader),
			"error", err)
		s.writeError(w, mapErrorToStatus(err), sanitizeError(err))
		return
	}

	s.writeResult(w, r, result.Resource, result.Artifact, result.Conforms, result.Report)
}

// checkResourceIRI validates the query parameter before any network
// activity happens on its behalf. Only absolute http(s) IRIs are
// dereferenceable by the fetcher.
func checkResourceIRI(resource string) string {
	if resource == "" {
		return "missing required query parameter: resource"
	}
	u, err := url.Parse(resource)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "resource must be an absolute IRI"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "resource must use the http or https scheme"
	}
	return ""
}

// writeResult serializes the outcome in the negotiated representation.
// JSON is the default; an Accept header naming a registered graph encoding
// gets the SHACL report graph in that encoding instead.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request,
	resource, artifact string, conforms bool, report *shacl.Report) {
	if f, ok := codec.Negotiate(r.Header.Get("Accept")); ok {
		w.Header().Set("Content-Type", f.MediaType())
		w.WriteHeader(http.StatusOK)
		if err := codec.Encode(w, report.Graph(), f); err != nil {
			s.logger.Error("report serialization failed", "format", f.Name, "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(validateResponse{
		Resource: resource,
		Artifact: artifact,
		Conforms: conforms,
		Report:   report,
	}); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := s.monitor.AggregateHealth("semvalid")
	code := http.StatusOK
	if status.IsUnhealthy() {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Error("health encoding failed", "error", err)
	}
}

// mapErrorToStatus translates error classes to HTTP status codes. Invalid
// input is the caller's fault; transient upstream trouble maps to the
// gateway range; anything fatal stays a 500.
func mapErrorToStatus(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsTransient(err):
		if strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "deadline") {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sanitizeError maps an error to a caller-safe message. IRIs the pipeline
// failed on are in the error chain and must not leak; the log has the
// details.
func sanitizeError(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrProfileMissing):
		return "resource does not declare a profile"
	case stderrors.Is(err, errors.ErrArtifactMissing):
		return "profile does not provide a SHACL validation artifact"
	case stderrors.Is(err, errors.ErrUnsupportedFormat):
		return "resource is not available in a supported graph encoding"
	case stderrors.Is(err, errors.ErrDecodeFailed):
		return "resource could not be parsed"
	case stderrors.Is(err, errors.ErrTooManyRedirects):
		return "resource retrieval exceeded the redirect limit"
	case errors.IsTransient(err):
		return "upstream retrieval failed"
	default:
		return "internal server error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Status: code})
}
