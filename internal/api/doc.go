// Package api provides the HTTP handlers for the service. Handlers
// decode and validate requests, call the application services, and map
// internal errors to sanitized HTTP responses.
package api
