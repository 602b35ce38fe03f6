//go:build unit
// +build unit

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/memory"
	pkgTesting "github.com/mcp2everything/PID-agent/internal/pkg/testing"
)

func TestTelemetryServiceHistory(t *testing.T) {
	repo := &fakeRepo{samples: []*device.TelemetrySample{
		{ChannelID: 0, Temperature: 25, Timestamp: time.Now()},
	}}
	svc, err := NewTelemetryService(repo, memory.NewBuffer(0), pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	got, err := svc.History(context.Background(), device.NewTelemetryQuery())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTelemetryServiceClearChannel(t *testing.T) {
	buffer := memory.NewBuffer(0)
	buffer.Append(&device.TelemetrySample{ChannelID: 3, Timestamp: time.Now()})

	svc, err := NewTelemetryService(&fakeRepo{}, buffer, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	require.NoError(t, svc.ClearChannel(context.Background(), 3))
	assert.Zero(t, buffer.Len(3))

	assert.Error(t, svc.ClearChannel(context.Background(), -1))
}

func TestTelemetryServiceClearAll(t *testing.T) {
	buffer := memory.NewBuffer(0)
	buffer.Append(&device.TelemetrySample{ChannelID: 1, Timestamp: time.Now()})

	svc, err := NewTelemetryService(&fakeRepo{}, buffer, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll(context.Background()))
	assert.Zero(t, buffer.Len(1))
}
