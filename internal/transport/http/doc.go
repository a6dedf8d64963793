// Package http provides the HTTP transport layer: the chi router, request
// handlers, and request validation. Handlers translate between JSON requests
// and the report service, and map domain errors onto the structured API
// error surface.
package http
