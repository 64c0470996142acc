package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case QuerySentMsg:
		return m.handleQuerySent(msg)
	case FrameMsg:
		return m.handleFrame(msg)
	case StreamClosedMsg:
		return m.handleStreamClosed(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		_ = m.Client.Close()
		return m, tea.Quit
	}

	switch m.State {
	case StateTyping:
		switch msg.Type {
		case tea.KeyEnter:
			if m.Query == "" {
				return m, nil
			}
			m.State = StateRunning
			m = m.AddActivity("Submitted: " + m.Query)
			return m, sendQuery(m.Client, m.Query)
		case tea.KeyBackspace:
			if len(m.Query) > 0 {
				m.Query = m.Query[:len(m.Query)-1]
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Query += string(msg.Runes)
			if msg.Type == tea.KeySpace {
				m.Query += " "
			}
		}
	case StateComplete, StateError:
		if msg.String() == "q" {
			_ = m.Client.Close()
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			// Start over on the same connection.
			m.State = StateTyping
			m.Query = ""
			m.Report = ""
			m.Err = nil
			m.Activity = nil
		}
	}
	return m, nil
}

// handleQuerySent processes the outcome of the query submission
func (m Model) handleQuerySent(msg QuerySentMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	return m, nil
}

// handleFrame processes one stream frame
func (m Model) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	f := msg.Frame
	switch {
	case f.Error != "":
		m.State = StateError
		m = m.AddActivity("Error: " + f.Error)
	case f.Report != "":
		m.State = StateComplete
		m.Report = f.Report
		m = m.AddActivity("Report received.")
	case f.Status != "":
		m = m.AddActivity(f.Status)
	}
	return m, waitForFrame(m.Client)
}

// handleStreamClosed processes a dropped connection
func (m Model) handleStreamClosed(msg StreamClosedMsg) (tea.Model, tea.Cmd) {
	if m.State == StateComplete {
		return m, nil
	}
	m.State = StateError
	m.Err = msg.Err
	return m, nil
}
