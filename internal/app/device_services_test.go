//go:build unit
// +build unit

package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	pkgTesting "github.com/mcp2everything/PID-agent/internal/pkg/testing"
)

// fakeLink records commands and serves a canned status.
type fakeLink struct {
	open     bool
	openErr  error
	commands []string
	status   *device.Status
}

func (l *fakeLink) Open() error {
	if l.openErr != nil {
		return l.openErr
	}
	l.open = true
	return nil
}

func (l *fakeLink) Close() error {
	if !l.open {
		return fmt.Errorf("not open")
	}
	l.open = false
	return nil
}

func (l *fakeLink) IsOpen() bool { return l.open }

func (l *fakeLink) ReadStatus() (*device.Status, error) {
	if l.status != nil {
		return l.status, nil
	}
	return &device.Status{Timestamp: time.Now(), Channels: []device.ChannelState{}}, nil
}

func (l *fakeLink) SendCommand(cmd string) error {
	l.commands = append(l.commands, cmd)
	return nil
}

func newConnectedService(t *testing.T, link *fakeLink) device.ControlService {
	t.Helper()

	svc, err := NewControlService(func(device.ConnectOptions) device.Link { return link }, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	_, err = svc.Connect(context.Background(), device.ConnectOptions{
		Port:        device.VirtualPort,
		BaudRate:    115200,
		NumChannels: 4,
	})
	require.NoError(t, err)
	return svc
}

func TestControlServiceConnect(t *testing.T) {
	link := &fakeLink{}
	svc := newConnectedService(t, link)

	assert.True(t, svc.Connected())
	assert.Equal(t, 4, svc.NumChannels())
}

func TestControlServiceConnect_InvalidOptions(t *testing.T) {
	svc, err := NewControlService(func(device.ConnectOptions) device.Link { return &fakeLink{} }, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	_, err = svc.Connect(context.Background(), device.ConnectOptions{BaudRate: 115200, NumChannels: 4})
	assert.Error(t, err)
	assert.False(t, svc.Connected())
}

func TestControlServiceConnect_OpenFailure(t *testing.T) {
	link := &fakeLink{openErr: fmt.Errorf("no such port")}
	svc, err := NewControlService(func(device.ConnectOptions) device.Link { return link }, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	_, err = svc.Connect(context.Background(), device.ConnectOptions{Port: "/dev/ttyUSB0", BaudRate: 9600, NumChannels: 4})
	assert.Error(t, err)
	assert.False(t, svc.Connected())
}

func TestControlServiceConnect_ReplacesExistingLink(t *testing.T) {
	first := &fakeLink{}
	second := &fakeLink{}
	links := []*fakeLink{first, second}
	i := 0

	svc, err := NewControlService(func(device.ConnectOptions) device.Link {
		link := links[i]
		i++
		return link
	}, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	opts := device.ConnectOptions{Port: device.VirtualPort, BaudRate: 115200, NumChannels: 4}
	_, err = svc.Connect(context.Background(), opts)
	require.NoError(t, err)
	_, err = svc.Connect(context.Background(), opts)
	require.NoError(t, err)

	assert.False(t, first.open)
	assert.True(t, second.open)
}

func TestControlServiceDisconnect(t *testing.T) {
	link := &fakeLink{}
	svc := newConnectedService(t, link)

	require.NoError(t, svc.Disconnect(context.Background()))
	assert.False(t, svc.Connected())
	assert.Equal(t, 0, svc.NumChannels())

	assert.Error(t, svc.Disconnect(context.Background()))
}

func TestControlServiceStatus(t *testing.T) {
	link := &fakeLink{status: &device.Status{
		Timestamp: time.Now(),
		Channels:  []device.ChannelState{{ID: 0, Temperature: 42}},
		State:     "running",
	}}
	svc := newConnectedService(t, link)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42.0, status.Channels[0].Temperature)

	require.NoError(t, svc.Disconnect(context.Background()))
	_, err = svc.Status(context.Background())
	assert.Error(t, err)
}

func TestControlServiceSetPID(t *testing.T) {
	link := &fakeLink{}
	svc := newConnectedService(t, link)

	params := device.PIDParams{Kp: 2, Ki: 0.2, Kd: 0.1, TargetTemp: 60, ControlPeriodMs: 100, MaxDutyPct: 80}
	require.NoError(t, svc.SetPID(context.Background(), 2, params))

	require.Len(t, link.commands, 1)
	assert.Equal(t, "PID:2:2,0.2,0.1,60,100,80", link.commands[0])
}

func TestControlServiceSetPID_Validation(t *testing.T) {
	link := &fakeLink{}
	svc := newConnectedService(t, link)

	assert.Error(t, svc.SetPID(context.Background(), 0, device.PIDParams{Kp: -1}))
	assert.Error(t, svc.SetPID(context.Background(), 9, device.DefaultPIDParams()))
	assert.Empty(t, link.commands)
}

func TestControlServiceSetHeating(t *testing.T) {
	link := &fakeLink{}
	svc := newConnectedService(t, link)

	require.NoError(t, svc.SetHeating(context.Background(), 1, true))
	require.NoError(t, svc.SetHeating(context.Background(), 1, false))
	assert.Equal(t, []string{"HEAT:1:1", "HEAT:1:0"}, link.commands)

	assert.Error(t, svc.SetHeating(context.Background(), -1, true))
	assert.Error(t, svc.SetHeating(context.Background(), 4, true))
}
