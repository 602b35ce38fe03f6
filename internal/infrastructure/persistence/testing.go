//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/persistence/models"
	"github.com/mcp2everything/PID-agent/internal/pkg/config"
	pkgTesting "github.com/mcp2everything/PID-agent/internal/pkg/testing"
)

// TestContext holds the test database and repository
type TestContext struct {
	DB            *gorm.DB
	TelemetryRepo device.TelemetryRepository
}

// SetupTestDB initializes a test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	var cleanupFunc func()

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}
		cleanupFunc = func() {}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	err = db.AutoMigrate(&models.ChannelLogModel{})
	require.NoError(t, err, "Failed to migrate schema")

	logger := pkgTesting.SetupTestLogger(t)

	repo, err := NewGormTelemetryRepository(db, logger)
	require.NoError(t, err, "Failed to create telemetry repository")

	return &TestContext{
		DB:            db,
		TelemetryRepo: repo,
	}
}

// CreateTestSample builds one telemetry sample for a channel.
func CreateTestSample(t *testing.T, channel int, temperature float64, at time.Time) *device.TelemetrySample {
	t.Helper()

	return &device.TelemetrySample{
		Timestamp:       at,
		ChannelID:       channel,
		Temperature:     temperature,
		TargetTemp:      50,
		Kp:              1.0,
		Ki:              0.1,
		Kd:              0.05,
		ControlPeriodMs: 100,
		MaxDutyPct:      80,
		Heating:         true,
	}
}
