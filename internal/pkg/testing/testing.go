// Package testing provides shared helpers for unit and integration tests.
package testing

import (
	"testing"

	"github.com/mcp2everything/PID-agent/internal/pkg/config"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

// SetupTestLogger returns a quiet console logger for tests.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	return logger.NewConsoleLogger(config.LogLevelError)
}
