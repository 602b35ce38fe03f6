// Package main is the entry point for the pid-agent-dashboard application,
// a terminal UI that polls the REST API for live controller state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcp2everything/PID-agent/internal/dashboard"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	serverURL := flag.String("server", "http://localhost:8000", "Base URL of the pid-agent REST API")
	token := flag.String("token", os.Getenv("PID_AGENT_TOKEN"), "Bearer token when the API requires authentication")
	autoConnect := flag.Bool("connect", true, "Connect the simulator when no device link is open")
	flag.Parse()

	client := dashboard.NewClient(*serverURL, *token)
	app := dashboard.NewApp(client)

	if *autoConnect {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.EnsureConnected(ctx); err != nil {
			return err
		}
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard terminated: %w", err)
	}
	return nil
}
