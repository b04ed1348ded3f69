// Package cache implements the task cache that fronts the persistent store.
//
// Two kinds of data live in the cache: one JSON entry per task under
// "task_{id}", and a roster of task ids under "task_ids" stored as a JSON
// array of decimal strings. The roster is only a freshness heuristic. Its
// length is compared with the store's row count to decide whether a listing
// can be assembled from cached entries.
//
// The cache is advisory. Backend failures are logged and degrade to misses
// or dropped writes; they never fail the caller.
package cache
