package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/serialport"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/simulator"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// DeviceCommandHandler encapsulates logic for talking to the controller via CLI.
type DeviceCommandHandler struct {
	portLister device.PortLister
	logger     logger.Logger
}

// NewDeviceCommandHandler initializes and returns a DeviceCommandHandler
// instance with a configured logger and port lister.
func NewDeviceCommandHandler() (*DeviceCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &DeviceCommandHandler{
		portLister: serialport.NewLister(),
		logger:     loggerInstance,
	}, nil
}

// ListPortsCmd prints every selectable serial port including the VIRTUAL one
func (commandHandler *DeviceCommandHandler) ListPortsCmd(_ *cobra.Command, _ []string) {
	ports, err := commandHandler.portLister.List()
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	for _, p := range ports {
		fmt.Printf("%-20s %s\n", p.Port, p.Description)
	}
}

// StatusCmd opens the link, reads one status frame and prints it as JSON
func (commandHandler *DeviceCommandHandler) StatusCmd(cmd *cobra.Command, _ []string) {
	link, err := commandHandler.openLink(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() { _ = link.Close() }()

	// The simulator needs one control step before the first frame is useful.
	time.Sleep(150 * time.Millisecond)

	status, err := link.ReadStatus()
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	fmt.Println(string(out))
}

// SetHeatCmd switches heating on or off for one channel
func (commandHandler *DeviceCommandHandler) SetHeatCmd(cmd *cobra.Command, args []string) {
	channel, err := strconv.Atoi(args[0])
	if err != nil || channel < 0 {
		commandHandler.logger.Error("invalid channel id ", args[0])
		return
	}

	heating := args[1] == "on" || args[1] == "1" || args[1] == "true"

	link, err := commandHandler.openLink(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() { _ = link.Close() }()

	if err := link.SendCommand(device.EncodeHeatCommand(channel, heating)); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Heating on channel ", channel, " set to ", heating)
}

// SetPIDCmd pushes new PID parameters to one channel
func (commandHandler *DeviceCommandHandler) SetPIDCmd(cmd *cobra.Command, args []string) {
	channel, err := strconv.Atoi(args[0])
	if err != nil || channel < 0 {
		commandHandler.logger.Error("invalid channel id ", args[0])
		return
	}

	params := device.DefaultPIDParams()
	params.Kp, _ = cmd.Flags().GetFloat64("kp")
	params.Ki, _ = cmd.Flags().GetFloat64("ki")
	params.Kd, _ = cmd.Flags().GetFloat64("kd")
	params.TargetTemp, _ = cmd.Flags().GetFloat64("target")
	if err := params.Validate(); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	link, err := commandHandler.openLink(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() { _ = link.Close() }()

	if err := link.SendCommand(device.EncodePIDCommand(channel, params.Clamp())); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Updated PID parameters on channel ", channel)
}

func (commandHandler *DeviceCommandHandler) openLink(cmd *cobra.Command) (device.Link, error) {
	port, err := cmd.Flags().GetString("port")
	if err != nil {
		return nil, fmt.Errorf("invalid port flag: %w", err)
	}
	baudRate, err := cmd.Flags().GetInt("baud")
	if err != nil {
		return nil, fmt.Errorf("invalid baud flag: %w", err)
	}

	var link device.Link
	if port == device.VirtualPort {
		link = simulator.NewLink(device.DefaultNumChannels)
	} else {
		link = serialport.NewConn(port, baudRate, commandHandler.logger)
	}

	if err := link.Open(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", port, err)
	}
	return link, nil
}

func addLinkFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("port", "", device.VirtualPort, "Serial port, or VIRTUAL for the built-in simulator")
	cmd.Flags().IntP("baud", "", 115200, "Baud rate")
}

// InitDeviceCommands registers device-related commands
func InitDeviceCommands(rootCmd *cobra.Command) error {
	handler, err := NewDeviceCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create device command handler %w", err)
	}

	var listPortsCmd = &cobra.Command{
		Use:   "list-ports",
		Short: "List selectable serial ports",
		Run:   handler.ListPortsCmd,
	}
	rootCmd.AddCommand(listPortsCmd)

	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Read one controller status frame",
		Run:   handler.StatusCmd,
	}
	addLinkFlags(statusCmd)
	rootCmd.AddCommand(statusCmd)

	var setHeatCmd = &cobra.Command{
		Use:   "set-heat <channel> <on|off>",
		Short: "Switch heating on or off for a channel",
		Args:  cobra.ExactArgs(2),
		Run:   handler.SetHeatCmd,
	}
	addLinkFlags(setHeatCmd)
	rootCmd.AddCommand(setHeatCmd)

	var setPIDCmd = &cobra.Command{
		Use:   "set-pid <channel>",
		Short: "Push new PID parameters to a channel",
		Args:  cobra.ExactArgs(1),
		Run:   handler.SetPIDCmd,
	}
	addLinkFlags(setPIDCmd)
	setPIDCmd.Flags().Float64P("kp", "", 1.0, "Proportional gain")
	setPIDCmd.Flags().Float64P("ki", "", 0.1, "Integral gain")
	setPIDCmd.Flags().Float64P("kd", "", 0.05, "Derivative gain")
	setPIDCmd.Flags().Float64P("target", "", 50.0, "Target temperature in degrees Celsius")
	rootCmd.AddCommand(setPIDCmd)

	return nil
}
