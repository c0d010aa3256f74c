package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"kifunav/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("kifunav Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Position search across a library of game records"))
	b.WriteString("\n\n")

	// Browser section
	b.WriteString(styles.InputLabel.Render("Record"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("PgUp / PgDn", "Scroll a page"))
	b.WriteString(helpLine("Enter / /", "Search the selected position"))
	b.WriteString(helpLine("p", "Plan the branches leading here"))
	b.WriteString(helpLine("e", "Jump to the end of the plan"))
	b.WriteString(helpLine("x", "Clear the plan"))
	b.WriteString(helpLine("c", "Copy the cursor key"))
	b.WriteString(helpLine("o", "Edit the record, then reload it"))
	b.WriteString(helpLine("r", "Reload the record"))
	b.WriteString("\n")

	// Search section
	b.WriteString(styles.InputLabel.Render("Search"))
	b.WriteString("\n")
	b.WriteString(helpLine("↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("Enter", "Copy the hit's cursor key"))
	b.WriteString(helpLine("Ctrl+O", "Open the hit's record"))
	b.WriteString(helpLine("Esc", "Back to the record"))
	b.WriteString("\n")

	// General section
	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Cursor keys"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(`  12,[]                      move 12 on the main line`))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(`  12,[{"te":5,"forkIndex":1}]  move 12 after the first variation at move 5`))
	b.WriteString("\n\n")

	// Close hint
	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
