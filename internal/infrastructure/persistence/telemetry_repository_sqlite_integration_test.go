//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/pkg/config"
)

func TestTelemetryRepository_RecordAndList(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	now := time.Now()

	samples := []*device.TelemetrySample{
		CreateTestSample(t, 0, 25.0, now.Add(-2*time.Minute)),
		CreateTestSample(t, 0, 30.0, now.Add(-1*time.Minute)),
		CreateTestSample(t, 1, 40.0, now),
	}
	require.NoError(t, ctx.TelemetryRepo.Record(context.Background(), samples))

	query := device.NewTelemetryQuery()
	got, err := ctx.TelemetryRepo.List(context.Background(), query)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Default order is newest first.
	assert.Equal(t, 1, got[0].ChannelID)
	assert.Equal(t, 40.0, got[0].Temperature)
}

func TestTelemetryRepository_ListByChannel(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	now := time.Now()

	require.NoError(t, ctx.TelemetryRepo.Record(context.Background(), []*device.TelemetrySample{
		CreateTestSample(t, 0, 25.0, now),
		CreateTestSample(t, 1, 40.0, now),
	}))

	query := device.NewTelemetryQuery()
	channel := 1
	query.ChannelID = &channel

	got, err := ctx.TelemetryRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ChannelID)
}

func TestTelemetryRepository_ListHonorsWindow(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	now := time.Now()

	require.NoError(t, ctx.TelemetryRepo.Record(context.Background(), []*device.TelemetrySample{
		CreateTestSample(t, 0, 25.0, now.Add(-48*time.Hour)),
		CreateTestSample(t, 0, 30.0, now),
	}))

	query := device.NewTelemetryQuery() // trailing 24 hours
	got, err := ctx.TelemetryRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 30.0, got[0].Temperature)
}

func TestTelemetryRepository_ListPagination(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	now := time.Now()

	var samples []*device.TelemetrySample
	for i := 0; i < 5; i++ {
		samples = append(samples, CreateTestSample(t, 0, float64(20+i), now.Add(time.Duration(i)*time.Second)))
	}
	require.NoError(t, ctx.TelemetryRepo.Record(context.Background(), samples))

	query := device.NewTelemetryQuery()
	query.SortOrder = "asc"
	query.Limit = 2
	query.Offset = 2

	got, err := ctx.TelemetryRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 22.0, got[0].Temperature)
	assert.Equal(t, 23.0, got[1].Temperature)
}

func TestTelemetryRepository_ListRejectsInvalidQuery(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	query := device.NewTelemetryQuery()
	query.SortBy = "kp"

	_, err := ctx.TelemetryRepo.List(context.Background(), query)
	assert.Error(t, err)
}

func TestTelemetryRepository_Delete(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)
	now := time.Now()

	require.NoError(t, ctx.TelemetryRepo.Record(context.Background(), []*device.TelemetrySample{
		CreateTestSample(t, 0, 25.0, now),
		CreateTestSample(t, 1, 40.0, now),
	}))

	require.NoError(t, ctx.TelemetryRepo.DeleteByChannel(context.Background(), 0))

	got, err := ctx.TelemetryRepo.List(context.Background(), device.NewTelemetryQuery())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ChannelID)

	require.NoError(t, ctx.TelemetryRepo.DeleteAll(context.Background()))

	got, err = ctx.TelemetryRepo.List(context.Background(), device.NewTelemetryQuery())
	require.NoError(t, err)
	assert.Empty(t, got)
}
