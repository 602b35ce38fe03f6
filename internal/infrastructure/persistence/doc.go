// Package persistence stores channel telemetry in a relational database
// through GORM. SQLite is the default; PostgreSQL is supported for
// deployments that outgrow a single file.
package persistence
