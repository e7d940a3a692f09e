// Package shell connects the pure loan core to the event store.
//
// It maps domain events to storable events and back, carries event metadata and the request
// correlation ID, retries appends that lost a concurrency race, and holds the observability
// helpers shared by the command and query handlers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
