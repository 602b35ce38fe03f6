package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

// LinkFactory builds a device link for the given options, either a serial
// connection or the simulator.
type LinkFactory func(opts device.ConnectOptions) device.Link

// controlService implements the ControlService interface over one device link
type controlService struct {
	linkFactory LinkFactory
	logger      logger.Logger

	mu   sync.Mutex
	link device.Link
	info *device.ConnectionInfo
}

// NewControlService creates a new controlService instance
func NewControlService(linkFactory LinkFactory, logger logger.Logger) (device.ControlService, error) {
	return &controlService{
		linkFactory: linkFactory,
		logger:      logger,
	}, nil
}

// Connect opens a link described by opts, replacing any existing one.
func (s *controlService) Connect(_ context.Context, opts device.ConnectOptions) (*device.ConnectionInfo, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connect options: %w", err)
	}
	if opts.Port == device.VirtualPort {
		opts.UseMock = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.link != nil && s.link.IsOpen() {
		s.logger.Info("Closing existing device link before reconnecting")
		if err := s.link.Close(); err != nil {
			return nil, fmt.Errorf("failed to close existing link: %w", err)
		}
	}

	link := s.linkFactory(opts)
	if err := link.Open(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.Port, err)
	}

	s.link = link
	s.info = &device.ConnectionInfo{
		Port:        opts.Port,
		BaudRate:    opts.BaudRate,
		NumChannels: opts.NumChannels,
		UseMock:     opts.UseMock,
	}
	s.logger.Info(fmt.Sprintf("Connected to %s at %d baud with %d channels", opts.Port, opts.BaudRate, opts.NumChannels))
	return s.info, nil
}

// Disconnect closes the current link.
func (s *controlService) Disconnect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.link == nil || !s.link.IsOpen() {
		return fmt.Errorf("device not connected")
	}
	if err := s.link.Close(); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}

	s.logger.Info("Disconnected from device")
	s.link = nil
	s.info = nil
	return nil
}

// Status returns the most recent controller snapshot.
func (s *controlService) Status(_ context.Context) (*device.Status, error) {
	s.mu.Lock()
	link := s.link
	s.mu.Unlock()

	if link == nil || !link.IsOpen() {
		return nil, fmt.Errorf("device not connected")
	}
	status, err := link.ReadStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to read device status: %w", err)
	}
	return status, nil
}

// SetPID pushes new PID parameters to a channel.
func (s *controlService) SetPID(_ context.Context, channel int, params device.PIDParams) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid PID parameters: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkChannelLocked(channel); err != nil {
		return err
	}

	cmd := device.EncodePIDCommand(channel, params.Clamp())
	if err := s.link.SendCommand(cmd); err != nil {
		return fmt.Errorf("failed to set PID parameters: %w", err)
	}

	s.logger.Info(fmt.Sprintf("Updated PID parameters on channel %d", channel))
	return nil
}

// SetHeating switches heating on or off for a channel.
func (s *controlService) SetHeating(_ context.Context, channel int, heating bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkChannelLocked(channel); err != nil {
		return err
	}

	if err := s.link.SendCommand(device.EncodeHeatCommand(channel, heating)); err != nil {
		return fmt.Errorf("failed to switch heating: %w", err)
	}

	s.logger.Info(fmt.Sprintf("Heating on channel %d set to %t", channel, heating))
	return nil
}

// Connected reports whether a link is currently open.
func (s *controlService) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.link != nil && s.link.IsOpen()
}

// NumChannels returns the channel count of the connected device, or 0.
func (s *controlService) NumChannels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return 0
	}
	return s.info.NumChannels
}

func (s *controlService) checkChannelLocked(channel int) error {
	if s.link == nil || !s.link.IsOpen() {
		return fmt.Errorf("device not connected")
	}
	if s.info != nil && (channel < 0 || channel >= s.info.NumChannels) {
		return fmt.Errorf("channel %d out of range [0, %d]", channel, s.info.NumChannels-1)
	}
	return nil
}
