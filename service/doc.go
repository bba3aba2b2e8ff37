// Package service exposes the validator over HTTP.
//
// Endpoints:
//
//	GET /validate?resource=IRI   run a validation and return the report
//	GET /healthz                 aggregated component health
//	GET /metrics                 Prometheus exposition
//
// The validation report is content negotiated. JSON is the default; any
// registered graph encoding can be requested through the Accept header, in
// which case the SHACL report graph is serialized in that encoding.
//
// Every response carries an X-Request-ID header, taken from the request
// when the caller supplied one. Error bodies are sanitized: the caller sees
// the error class mapped to a status code and a generic message, while the
// full chain goes to the structured log.
package service
