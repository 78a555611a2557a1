// Package http implements the HTTP handlers of the Lakbay report service.
// Handlers stay thin: they decode and validate the request, hand it to the
// report service and turn the outcome into either an attachment download or
// an RFC 7807 problem response.
//
// # Routes
//
//	POST /api/v1/reports/{type}/current   records on screen, any format
//	POST /api/v1/reports/{type}/all       every record of the type
//	POST /api/v1/reports/{type}/filtered  date range or category filter
//	POST /api/v1/reports/monthly          dashboard snapshot, ?format=pdf
//	GET  /api/v1/reports/status           state of every export trigger
//	GET  /api/health[/ready|/live]        health checks
//
// A successful export answers 200 with the document as the body, the
// renderer's Content-Type, a Content-Disposition attachment filename and
// the X-Export-ID header. Failures map through the error handler: scope
// validation 400, empty result 404, concurrent export 409, upstream fetch
// 502 and serialization 500.
package http
