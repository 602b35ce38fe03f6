// Package main is the entry point for the pid-agent-cli application.
// It initializes the root command and registers the device and manifest
// sub-commands, then executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/mcp2everything/PID-agent/cmd/pid-agent-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "pid-agent-cli",
		Short: "Multi-channel PID temperature controller CLI tool",
		Long: `pid-agent-cli is a command-line tool for talking to a multi-channel
PID temperature controller over a serial link.

Supports port discovery, live status reads, heating control, PID parameter
updates and dependency-manifest checking. Use the VIRTUAL port to run against
the built-in device simulator instead of real hardware.`,
	}

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitDeviceCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize device commands: %w", err)
	}

	if err := commands.InitManifestCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize manifest commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}
