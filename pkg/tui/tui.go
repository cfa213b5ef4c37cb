package tui

import (
	"fmt"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthlog-app/healthlog/pkg/app"
	"github.com/healthlog-app/healthlog/pkg/records"
)

type model struct {
	app   *app.App
	stats map[records.Kind]app.KindStats

	columnFocus int // 0 = kinds, 1 = entries, 2 = entry detail
	width       int // Current terminal width (for layout)
	height      int // Current terminal height
	err         error

	storageMode string

	quitting bool

	kindCursor  int // Index of selected record kind
	entryCursor int // Index of selected entry row

	// New entry form state
	entryCreating      bool
	entryCreatingStep  int // index into the kind's schema
	entryCreatingError string
	entryInputs        []textinput.Model

	// Substring filter over the entries column
	filtering   bool
	filterInput textinput.Model
}

// Initialize TUI model
func initModel(a *app.App, storageMode string) model {
	filter := textinput.New()
	filter.Placeholder = "filter entries"
	filter.CharLimit = 128

	return model{
		app:         a,
		storageMode: storageMode,

		columnFocus: 0,
		width:       0,
		height:      0,

		kindCursor:  0,
		entryCursor: 0,

		filterInput: filter,
	}
}

func (m model) selectedKind() records.Kind {
	return records.Kinds[m.kindCursor]
}

// selectedRows returns the entries of the selected kind, narrowed to
// rows containing the filter text in any field.
func (m model) selectedRows() []records.Row {
	ds := m.app.Dataset(m.selectedKind())
	if ds == nil {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	if needle == "" {
		return ds.Rows
	}
	var out []records.Row
	for _, row := range ds.Rows {
		for _, val := range row {
			if strings.Contains(strings.ToLower(val), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// buildEntryForm creates one text input per canonical field of the kind,
// date and hour prefilled as optional.
func buildEntryForm(kind records.Kind) []textinput.Model {
	schema := records.Schema(kind)
	inputs := make([]textinput.Model, len(schema))
	for i, field := range schema {
		in := textinput.New()
		in.Placeholder = field
		in.CharLimit = 512
		if i == 0 {
			in.Focus()
		}
		inputs[i] = in
	}
	return inputs
}

// Execute commands concurrently with no ordering guarantees during initialization
func (m model) Init() tea.Cmd {
	return loadStats(m.app)
}

// Processes events like window resize, errors, loaded data, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Save the new window size in the model for responsive layout
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case error:
		if m.entryCreating {
			// Keep the form open and show the problem inline.
			m.entryCreatingError = msg.Error()
			return m, nil
		}
		m.err = msg
		return m, nil

	case statsMsg:
		m.stats = msg
		return m, nil

	case entryLoggedMsg:
		// Jump to the newly recorded entry; rows are sorted, so find it.
		m.entryCursor = 0
		for i, row := range m.selectedRows() {
			if records.TimestampKey(row, nil) == records.TimestampKey(msg.row, nil) {
				m.entryCursor = i
				break
			}
		}
		m.entryCreating = false
		m.columnFocus = 1
		return m, loadStats(m.app)

	// Handle key presses for navigation and input
	case tea.KeyMsg:
		if m.entryCreating {
			// New Entry Mode
			switch msg.Type {
			case tea.KeyEnter:
				schema := records.Schema(m.selectedKind())
				if m.entryCreatingStep < len(schema)-1 {
					// Advance to the next field
					m.entryInputs[m.entryCreatingStep].Blur()
					m.entryCreatingStep++
					m.entryInputs[m.entryCreatingStep].Focus()
					return m, nil
				}
				// Last field: submit the entry
				fields := make(records.Row)
				for i, field := range schema {
					if val := strings.TrimSpace(m.entryInputs[i].Value()); val != "" {
						fields[field] = val
					}
				}
				m.entryCreatingError = ""
				return m, submitEntry(m.app, m.selectedKind(), fields)

			case tea.KeyEsc:
				// Cancel entry creation
				m.entryCreating = false
				m.entryCreatingError = ""
				return m, nil
			}

			// Route character input to the focused field
			var cmd tea.Cmd
			m.entryInputs[m.entryCreatingStep], cmd = m.entryInputs[m.entryCreatingStep].Update(msg)
			return m, cmd
		}

		if m.filtering {
			// Filter Mode
			switch msg.Type {
			case tea.KeyEnter:
				// Keep the filter applied and return to navigation
				m.filtering = false
				m.filterInput.Blur()
				m.entryCursor = 0
				return m, nil
			case tea.KeyEsc:
				// Drop the filter entirely
				m.filtering = false
				m.filterInput.Reset()
				m.filterInput.Blur()
				m.entryCursor = 0
				return m, nil
			}
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.entryCursor = 0
			return m, cmd
		}

		// Root Navigation Mode
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			// Exit alt screen before quitting so the goodbye message displays
			return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

		case "up", "k":
			// Move selection up (stop at top)
			if m.columnFocus == 0 && m.kindCursor > 0 {
				m.kindCursor--
				m.entryCursor = 0
			} else if m.columnFocus == 1 && m.entryCursor > 0 {
				m.entryCursor--
			}

		case "down", "j":
			// Move selection down (stop at last item)
			if m.columnFocus == 0 && m.kindCursor < len(records.Kinds)-1 {
				m.kindCursor++
				m.entryCursor = 0
			} else if m.columnFocus == 1 && m.entryCursor < len(m.selectedRows())-1 {
				m.entryCursor++
			}

		case "right", "l":
			// Move focus right to the entries column
			if m.columnFocus < 1 && len(m.selectedRows()) > 0 {
				m.columnFocus++
				m.entryCursor = 0
			}

		case "left", "h":
			// Move focus left to the kinds column
			if m.columnFocus > 0 {
				m.columnFocus--
			}

		case "n":
			m.entryCreating = true
			m.entryCreatingStep = 0
			m.entryCreatingError = ""
			m.entryInputs = buildEntryForm(m.selectedKind())

		case "/":
			m.filtering = true
			m.filterInput.Focus()
		}
	}

	return m, nil
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Health log closed. Entries saved.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	titleText := "Healthlog - personal health diary"
	titleBar := titleStyle.Width(m.width).Render(titleText)

	// Calculate column widths (left ~25%, middle ~25%, right ~50%)
	halfWidth := m.width / 2
	leftWidth := halfWidth / 2
	middleWidth := halfWidth - leftWidth
	rightWidth := m.width - (leftWidth + middleWidth)

	bordersAndPaddingWidth := 4

	// Left column: record kinds and the info panel
	var kindsBuilder, infoBuilder strings.Builder
	quarterHeight := (m.height - bordersAndPaddingWidth) / 4

	kindsBuilder.WriteString(subtitleStyle.Width(leftWidth - bordersAndPaddingWidth).Render("  Logs"))
	kindsBuilder.WriteString("\n\n")
	for i, kind := range records.Kinds {
		pointer := generateLinePointer(m.kindCursor == i && m.columnFocus == 0)
		itemStyle := inactiveStyle
		if m.kindCursor == i {
			itemStyle = selectedStyle
		}
		label := string(kind)
		if m.stats != nil {
			label = fmt.Sprintf("%s (%d)", kind, m.stats[kind].Entries)
		}
		availableWidth := leftWidth - len(pointer) - 4 - 1
		kindsBuilder.WriteString(pointer + itemStyle.Render(truncate(label, availableWidth)) + "\n")
	}

	infoBuilder.WriteString("Storage mode: " + statusOkStyle.Render(m.storageMode) + "\n")
	if m.stats != nil {
		stats := m.stats[m.selectedKind()]
		if stats.From != "" {
			infoBuilder.WriteString(fmt.Sprintf("Range: %s .. %s\n", stats.From, stats.To))
		}
	}

	kindsPanelStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, true, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2)
	kindsPanel := kindsPanelStyle.Width(leftWidth).Height(quarterHeight * 3).
		Render(kindsBuilder.String())

	infoPanelStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(1, 2)
	infoPanel := infoPanelStyle.Width(leftWidth).Height(quarterHeight).
		Render(infoBuilder.String())

	leftPanel := lipgloss.JoinVertical(lipgloss.Left, kindsPanel, infoPanel)

	// Middle column: entries for the selected kind, newest first
	var middleBuilder strings.Builder
	middleBuilder.WriteString(subtitleStyle.Width(middleWidth - bordersAndPaddingWidth).Render("  Entries"))
	middleBuilder.WriteString("\n")
	if m.filtering || m.filterInput.Value() != "" {
		middleBuilder.WriteString("  / " + m.filterInput.View() + "\n\n")
	} else {
		middleBuilder.WriteString("\n")
	}

	rows := m.selectedRows()
	if len(rows) == 0 {
		if m.filterInput.Value() != "" {
			middleBuilder.WriteString("  No entries match the filter.\n")
		} else {
			middleBuilder.WriteString("  No entries yet. Press 'n' to log one.\n")
		}
	} else {
		for i, row := range rows {
			pointer := generateLinePointer(i == m.entryCursor && m.columnFocus == 1)
			itemStyle := inactiveStyle
			if i == m.entryCursor && m.columnFocus != 0 {
				itemStyle = selectedStyle
			}
			availableWidth := middleWidth - len(pointer) - 4 - 1
			label := records.TimestampKey(row, nil)
			middleBuilder.WriteString(pointer + itemStyle.Render(truncate(label, availableWidth)) + "\n")
		}
	}

	// Right column: entry detail or the new entry form
	var rightBuilder strings.Builder

	rightSubtitleText := "Entry"
	if m.entryCreating {
		rightSubtitleText = fmt.Sprintf("New %s entry", m.selectedKind())
	}
	rightBuilder.WriteString(subtitleStyle.Width(rightWidth - bordersAndPaddingWidth).Render(rightSubtitleText))
	rightBuilder.WriteString("\n\n")

	if m.entryCreating {
		schema := records.Schema(m.selectedKind())
		for i, field := range schema {
			marker := "  "
			if i == m.entryCreatingStep {
				marker = "> "
			}
			rightBuilder.WriteString(marker + fieldNameStyle.Render(field+": ") + m.entryInputs[i].View() + "\n")
		}
		rightBuilder.WriteString("\n(enter to advance/submit, esc to cancel)")
		if m.entryCreatingError != "" {
			rightBuilder.WriteString("\n\n" + errorStyle.Render(m.entryCreatingError) + "\n")
		}
	} else if len(rows) > 0 && m.entryCursor < len(rows) {
		row := rows[m.entryCursor]
		ds := m.app.Dataset(m.selectedKind())
		for _, field := range ds.Headers {
			val := strings.TrimSpace(row[field])
			if val == "" {
				continue
			}
			valStyle := inactiveStyle
			for _, tagField := range records.TagFields {
				if field == tagField {
					valStyle = tagValueStyle
					break
				}
			}
			rightBuilder.WriteString(fieldNameStyle.Render(field+": ") + valStyle.Render(val) + "\n")
		}
	} else {
		rightBuilder.WriteString("Select an entry to view details.")
	}

	panelHeightPadding := 3

	// Middle panel: border on the right side only
	middlePanelStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2)
	middlePanel := middlePanelStyle.Width(middleWidth).Height(m.height - panelHeightPadding).
		Render(middleBuilder.String())

	// Right panel: no border (open content area)
	rightPanelStyle := lipgloss.NewStyle().Padding(0, 2)
	rightPanel := rightPanelStyle.Width(rightWidth).Height(m.height - panelHeightPadding).
		Render(rightBuilder.String())

	// Join the three panels horizontally (top aligned)
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)

	// Footer with usage instructions
	footerText := "\n↑/↓ to navigate • ←/→ to switch panes • n to log entry • / to filter • q to quit"
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + columns + footerBar
}

// ShowTUI creates and starts the Bubble Tea interface over a loaded session.
func ShowTUI(a *app.App, storageMode string) error {
	p := tea.NewProgram(initModel(a, storageMode), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
