// Package dashboard is a terminal UI for watching and steering a connected
// controller through the REST API.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	v1 "github.com/mcp2everything/PID-agent/internal/api/rest/v1"
	"github.com/mcp2everything/PID-agent/internal/domain/device"
)

// pollInterval is how often the dashboard refreshes the device status.
const pollInterval = time.Second

type tickMsg time.Time

type statusMsg struct {
	status *device.Status
	err    error
}

type actionMsg struct {
	err error
}

// App is the dashboard application model. It implements tea.Model.
type App struct {
	client *Client
	styles *Styles

	table      table.Model
	status     *device.Status
	lastUpdate time.Time
	err        error
	width      int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a dashboard backed by the given API client.
func NewApp(client *Client) *App {
	columns := []table.Column{
		{Title: "CH", Width: 4},
		{Title: "Temp °C", Width: 9},
		{Title: "Target °C", Width: 10},
		{Title: "Kp", Width: 7},
		{Title: "Ki", Width: 7},
		{Title: "Kd", Width: 7},
		{Title: "Heating", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(s)

	return &App{
		client: client,
		styles: DefaultStyles(),
		table:  t,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("pid-agent"),
		a.fetchStatus(),
		tick(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case tickMsg:
		return a, tea.Batch(a.fetchStatus(), tick())

	case statusMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.status = msg.status
		a.lastUpdate = time.Now()
		a.table.SetRows(a.rows())
		return a, nil

	case actionMsg:
		a.err = msg.err
		return a, a.fetchStatus()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "r":
			return a, a.fetchStatus()
		case "h":
			return a, a.toggleHeating()
		}
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	title := a.styles.Title.Render("pid-agent dashboard")
	bar := a.statusBar()
	help := a.styles.Help.Render("↑/↓ select channel · h toggle heating · r refresh · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		a.styles.Table.Render(a.table.View()),
		bar,
		help,
	)
}

func (a *App) statusBar() string {
	if a.err != nil {
		return a.styles.StatusBar.Render(a.styles.Error.Render(fmt.Sprintf("error: %v", a.err)))
	}
	if a.status == nil {
		return a.styles.StatusBar.Render(a.styles.Offline.Render("waiting for device..."))
	}

	state := a.status.State
	if state == "" {
		state = "running"
	}
	left := a.styles.Connected.Render(fmt.Sprintf("%s · %d channels", state, len(a.status.Channels)))
	right := a.styles.Offline.Render("updated " + a.lastUpdate.Format("15:04:05"))
	return a.styles.StatusBar.Render(left + "  " + right)
}

func (a *App) rows() []table.Row {
	if a.status == nil {
		return nil
	}
	rows := make([]table.Row, len(a.status.Channels))
	for i, ch := range a.status.Channels {
		heating := "off"
		if ch.Heating {
			heating = "ON"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", ch.ID),
			fmt.Sprintf("%.1f", ch.Temperature),
			fmt.Sprintf("%.1f", ch.PIDParams.TargetTemp),
			fmt.Sprintf("%.2f", ch.PIDParams.Kp),
			fmt.Sprintf("%.2f", ch.PIDParams.Ki),
			fmt.Sprintf("%.2f", ch.PIDParams.Kd),
			heating,
		}
	}
	return rows
}

// selectedChannel returns the channel id of the highlighted table row, or -1.
func (a *App) selectedChannel() int {
	if a.status == nil {
		return -1
	}
	cursor := a.table.Cursor()
	if cursor < 0 || cursor >= len(a.status.Channels) {
		return -1
	}
	return a.status.Channels[cursor].ID
}

func (a *App) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status, err := a.client.Status(ctx)
		return statusMsg{status: status, err: err}
	}
}

func (a *App) toggleHeating() tea.Cmd {
	channel := a.selectedChannel()
	if channel < 0 {
		return nil
	}

	heating := false
	cursor := a.table.Cursor()
	if cursor >= 0 && cursor < len(a.status.Channels) {
		heating = !a.status.Channels[cursor].Heating
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return actionMsg{err: a.client.SetHeating(ctx, channel, heating)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// EnsureConnected verifies the API is reachable and opens the simulator link
// when no device is connected yet.
func (a *App) EnsureConnected(ctx context.Context) error {
	health, err := a.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("API not reachable: %w", err)
	}
	if health.Connected {
		return nil
	}

	_, err = a.client.Connect(ctx, v1.ConnectRequest{Port: device.VirtualPort})
	if err != nil {
		return fmt.Errorf("failed to connect device: %w", err)
	}
	return nil
}
