// Package service contains the application use cases: the cache-aside task
// service and the comment service that depends on it.
//
// Services receive their stores and the task cache through constructors and
// never touch infrastructure directly. Expected conditions are reported with
// sentinel errors (ErrTaskNotFound, ErrCommentNotFound); everything else is
// wrapped in a service-specific error type so the API layer can map it with
// errors.Is and errors.As.
package service
