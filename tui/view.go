package tui

import (
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("🔎 OSINT Investigation Console"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.stateText())
	b.WriteString("\n\n")

	// Activity log
	if len(m.Activity) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, line := range m.Activity {
			b.WriteString(InfoStyle.Render("   " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Final report
	if m.State == StateComplete && m.Report != "" {
		b.WriteString(BoxStyle.Render(m.Report))
		b.WriteString("\n\n")
	}

	// Help text
	switch m.State {
	case StateTyping:
		b.WriteString(InfoStyle.Render("Type your query and press Enter | Ctrl+C to quit"))
	case StateRunning:
		b.WriteString(InfoStyle.Render("Ctrl+C to quit"))
	default:
		b.WriteString(HighlightStyle.Render("Press Enter for a new query | 'q' or Ctrl+C to exit"))
	}

	return b.String()
}

func (m Model) stateText() string {
	switch m.State {
	case StateTyping:
		return HighlightStyle.Render("👋 What should I investigate?") + "\n\n" +
			StatusStyle.Render("> "+m.Query+"█")
	case StateRunning:
		return RunningStyle.Render("⏳ Investigating: " + m.Query)
	case StateComplete:
		return HighlightStyle.Render("✅ COMPLETE")
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		} else if len(m.Activity) > 0 {
			errMsg = m.Activity[len(m.Activity)-1]
		}
		return ErrorStyle.Render("❌ " + errMsg)
	default:
		return ""
	}
}
