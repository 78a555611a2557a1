// Package app wires the Lakbay report service together and runs it.
//
// New resolves the configured directories, initializes logging and
// OpenTelemetry, and creates the Lakbay API client. It then builds the
// report service with one export trigger per record type, along with the
// status stream hub that every trigger publishes to. The chi router is
// assembled last.
//
// # Middleware order
//
//	RequestID → RealIP → OTel → StructuredLogger → panic recovery →
//	SecurityHeaders → CORS → RateLimiter
//
// The /ws status stream and /metrics are registered before the group so
// the websocket upgrade sees the raw response writer.
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app
