//go:build integration

// Package testdb provides the PostgreSQL harness for integration tests:
// connecting to the database named by DATABASE_URL, applying the baseline
// schema with goose, and running each test inside a rolled-back transaction.
package testdb
