package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the client state machine
type State string

const (
	StateTyping   State = "typing"
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateError    State = "error"
)

// maxActivityLines bounds the activity log shown on screen.
const maxActivityLines = 12

// Model represents the TUI client state (thin client over the stream)
type Model struct {
	Client *StreamClient

	State    State
	Query    string
	Activity []string
	Report   string
	Err      error
}

// NewModel creates a new TUI model around a connected stream client.
func NewModel(client *StreamClient) Model {
	return Model{
		Client: client,
		State:  StateTyping,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return waitForFrame(m.Client)
}

// AddActivity appends a line to the on-screen activity log.
func (m Model) AddActivity(line string) Model {
	m.Activity = append(m.Activity, line)
	if len(m.Activity) > maxActivityLines {
		m.Activity = m.Activity[len(m.Activity)-maxActivityLines:]
	}
	return m
}

// waitForFrame blocks on the next stream frame.
func waitForFrame(client *StreamClient) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-client.Frames()
		if !ok {
			return StreamClosedMsg{Err: <-client.closed}
		}
		return FrameMsg{Frame: f}
	}
}

// sendQuery submits the query on the stream.
func sendQuery(client *StreamClient, query string) tea.Cmd {
	return func() tea.Msg {
		return QuerySentMsg{Err: client.SendQuery(query)}
	}
}
