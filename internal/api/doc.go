// Package api implements the HTTP handlers for tasks and comments.
//
// Handlers validate input before touching any service, delegate to the
// service layer, and translate service errors into status codes and
// client-safe messages through HandleAPIError.
package api
