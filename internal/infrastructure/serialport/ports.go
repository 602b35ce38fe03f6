// Package serialport connects to the temperature controller over a real
// serial port.
package serialport

import (
	"fmt"

	"go.bug.st/serial/enumerator"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
)

// Lister enumerates host serial ports. The virtual port is always included
// so a client can connect without hardware attached.
type Lister struct{}

// NewLister returns a Lister.
func NewLister() *Lister {
	return &Lister{}
}

// List returns the virtual port followed by the detected hardware ports.
func (l *Lister) List() ([]device.PortInfo, error) {
	ports := []device.PortInfo{
		{Port: device.VirtualPort, Description: "Built-in simulated device"},
	}

	detected, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	for _, p := range detected {
		desc := p.Product
		if desc == "" {
			desc = "Serial port"
		}
		ports = append(ports, device.PortInfo{Port: p.Name, Description: desc})
	}
	return ports, nil
}
