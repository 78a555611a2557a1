// Package services holds the application layer between the HTTP handlers
// and the exporter.
//
// ReportService owns one exporter.Trigger per record type (users, events,
// hotlines and the monthly dashboard). Every export goes through the
// trigger of its record type, so at most one export per type is in flight
// and every transition reaches the registered status listeners. Generators
// are built per request around an API client that forwards the caller's
// bearer token.
//
// HealthService answers the health, readiness and liveness probes.
package services
