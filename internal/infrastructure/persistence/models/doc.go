// Package models holds the GORM database models backing telemetry storage.
package models
