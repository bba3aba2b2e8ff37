// Package health tracks the readiness of the validator's long-lived
// collaborators and aggregates them into a single service status.
//
// A Monitor holds one Status per component (fetcher, validation engine,
// HTTP server) behind a mutex. Statuses use a three-state model: healthy,
// degraded and unhealthy. Aggregation is pessimistic: any unhealthy
// component makes the service unhealthy, any degraded one (with none
// unhealthy) makes it degraded.
//
// Status messages derived from errors are sanitized before they leave the
// process: URLs, file paths, addresses and credential-shaped fragments are
// replaced with placeholders so health endpoints never leak fetch targets
// or configuration secrets.
package health
