// Package domain contains the core business entities of the task API: tasks
// and the comments attached to them. It is independent of any storage, cache
// or delivery mechanism.
package domain
