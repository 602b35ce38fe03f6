package serialport

import (
	"bufio"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

const readTimeout = 1 * time.Second

// Conn is a device.Link over a hardware serial port. The firmware streams
// newline-delimited JSON status frames and accepts newline-terminated
// commands.
type Conn struct {
	portName string
	baudRate int
	logger   logger.Logger

	mu     sync.Mutex
	port   serial.Port
	reader *bufio.Reader
	last   *device.Status
}

// NewConn returns an unopened connection to portName.
func NewConn(portName string, baudRate int, logger logger.Logger) *Conn {
	return &Conn{
		portName: portName,
		baudRate: baudRate,
		logger:   logger,
	}
}

// Open opens the serial port.
func (c *Conn) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port != nil {
		return fmt.Errorf("port %s already open", c.portName)
	}

	port, err := serial.Open(c.portName, &serial.Mode{BaudRate: c.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open port %s: %w", c.portName, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout on %s: %w", c.portName, err)
	}

	c.port = port
	c.reader = bufio.NewReader(port)
	return nil
}

// Close closes the serial port.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return fmt.Errorf("port %s not open", c.portName)
	}
	err := c.port.Close()
	c.port = nil
	c.reader = nil
	if err != nil {
		return fmt.Errorf("failed to close port %s: %w", c.portName, err)
	}
	return nil
}

// IsOpen reports whether the port is open.
func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port != nil
}

// ReadStatus reads the next status frame. A silent or garbled device yields
// the last known status, or an empty snapshot when nothing was ever read.
func (c *Conn) ReadStatus() (*device.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return nil, fmt.Errorf("port %s not open", c.portName)
	}

	line, err := c.reader.ReadBytes('\n')
	if err == nil && len(line) > 1 {
		status, decodeErr := device.DecodeStatusFrame(line)
		if decodeErr == nil {
			c.last = status
			return status, nil
		}
		c.logger.Warn(fmt.Sprintf("Dropping garbled frame from %s: %v", c.portName, decodeErr))
	}

	if c.last != nil {
		return c.last, nil
	}
	return &device.Status{Timestamp: time.Now(), Channels: []device.ChannelState{}}, nil
}

// SendCommand writes one newline-terminated command.
func (c *Conn) SendCommand(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return fmt.Errorf("port %s not open", c.portName)
	}
	if _, err := c.port.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("failed to send command to %s: %w", c.portName, err)
	}
	return nil
}
