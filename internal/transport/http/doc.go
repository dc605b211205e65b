// Package http implements the HTTP handlers of the examstats web service.
//
// Handlers stay thin: they parse and validate the request, call the service
// layer, and render either JSON or an RFC 7807 problem through the shared
// error handler.
//
//	GET  /api/questions?ids=3,1,2&include_responses=true
//	GET  /api/questions/{id}
//	GET  /api/responses/{id}
//	POST /api/sources/invalidate
//	GET  /healthz
//	GET  /metrics
package http
