// Package httpapi is the thin gin transport in front of loanmanager.Manager.
//
// The upstream auth layer identifies the caller with the X-User-ID header. Requests carry an
// optional X-Request-ID which becomes the correlation ID of all events appended while serving
// the request. Business errors are mapped to status codes in errors.go.
package httpapi
