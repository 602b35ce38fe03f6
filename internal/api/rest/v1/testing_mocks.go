//go:build unit
// +build unit

package v1

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/domain/providers"
	"github.com/mcp2everything/PID-agent/internal/domain/tuning"
)

// MockControlService is a mock implementation of ControlService
type MockControlService struct {
	mock.Mock
}

func (m *MockControlService) Connect(ctx context.Context, opts device.ConnectOptions) (*device.ConnectionInfo, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*device.ConnectionInfo), args.Error(1)
}

func (m *MockControlService) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockControlService) Status(ctx context.Context) (*device.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*device.Status), args.Error(1)
}

func (m *MockControlService) SetPID(ctx context.Context, channel int, params device.PIDParams) error {
	args := m.Called(ctx, channel, params)
	return args.Error(0)
}

func (m *MockControlService) SetHeating(ctx context.Context, channel int, heating bool) error {
	args := m.Called(ctx, channel, heating)
	return args.Error(0)
}

func (m *MockControlService) Connected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockControlService) NumChannels() int {
	args := m.Called()
	return args.Int(0)
}

// MockTelemetryService is a mock implementation of TelemetryService
type MockTelemetryService struct {
	mock.Mock
}

func (m *MockTelemetryService) History(ctx context.Context, query *device.TelemetryQuery) ([]*device.TelemetrySample, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*device.TelemetrySample), args.Error(1)
}

func (m *MockTelemetryService) ClearChannel(ctx context.Context, channel int) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockTelemetryService) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAnalysisService is a mock implementation of AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Metrics(ctx context.Context, channel int, hours float64) (*tuning.ResponseMetrics, error) {
	args := m.Called(ctx, channel, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tuning.ResponseMetrics), args.Error(1)
}

func (m *MockAnalysisService) CoolingCurve(ctx context.Context, channel int, startTime *time.Time) (*tuning.CoolingAnalysis, error) {
	args := m.Called(ctx, channel, startTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tuning.CoolingAnalysis), args.Error(1)
}

func (m *MockAnalysisService) Assessment(ctx context.Context, channel int, hours float64) (*tuning.Assessment, error) {
	args := m.Called(ctx, channel, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tuning.Assessment), args.Error(1)
}

func (m *MockAnalysisService) Optimize(ctx context.Context, channel int, hours float64) (*tuning.Suggestion, error) {
	args := m.Called(ctx, channel, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tuning.Suggestion), args.Error(1)
}

// MockPortLister is a mock implementation of PortLister
type MockPortLister struct {
	mock.Mock
}

func (m *MockPortLister) List() ([]device.PortInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]device.PortInfo), args.Error(1)
}

// MockRegistry is a mock implementation of providers.Registry
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) ListProviders() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockRegistry) ListModels(provider string) ([]string, error) {
	args := m.Called(provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRegistry) Provider(name string) (*providers.ProviderConfig, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.ProviderConfig), args.Error(1)
}

func (m *MockRegistry) Current() providers.Selection {
	args := m.Called()
	return args.Get(0).(providers.Selection)
}

func (m *MockRegistry) SetCurrent(provider, model string) error {
	args := m.Called(provider, model)
	return args.Error(0)
}

func (m *MockRegistry) UpdateCredentials(provider, apiKey, baseURL string) error {
	args := m.Called(provider, apiKey, baseURL)
	return args.Error(0)
}
