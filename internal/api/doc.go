// Package api holds the HTTP handlers. Handlers decode and validate JSON
// requests, call the services, and translate service errors into status
// codes and client-safe messages (see MapErrorToStatusCode).
package api
