package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/healthlog-app/healthlog/pkg/app"
	"github.com/healthlog-app/healthlog/pkg/records"
)

type entryLoggedMsg struct {
	kind records.Kind
	row  records.Row
}

// submitEntry records a manual entry through the session and reports the
// normalized row back to the model.
func submitEntry(a *app.App, kind records.Kind, fields records.Row) tea.Cmd {
	return func() tea.Msg {
		row, err := a.LogEntry(context.Background(), kind, fields)
		if err != nil {
			return err
		}
		return entryLoggedMsg{kind: kind, row: row}
	}
}

type statsMsg map[records.Kind]app.KindStats

// loadStats computes dataset summaries for the info panel.
func loadStats(a *app.App) tea.Cmd {
	return func() tea.Msg {
		return statsMsg(a.Stats())
	}
}
