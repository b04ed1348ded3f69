// Package store defines the persistence interfaces for tasks and comments.
// The relational store is the single source of truth; caches elsewhere in the
// application only ever hold derived copies of what these interfaces return.
package store
