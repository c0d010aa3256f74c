package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"kifunav/internal/adapters/tui/styles"
	"kifunav/internal/application/commands"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Copy   key.Binding
	Open   key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Copy: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "copy cursor"),
	),
	Open: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open record"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

// SearchFunc runs a position search with the open record promoted
type SearchFunc func(ctx context.Context, positionKey, currentPath string) ([]commands.SearchResult, error)

// SearchModel lists every indexed position matching a key
type SearchModel struct {
	ViewState
	search SearchFunc

	input       textinput.Model
	currentPath string
	results     []commands.SearchResult
	window      *listWindow
	searching   bool
}

// NewSearchModel creates a new search view model
func NewSearchModel(search SearchFunc) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Position key..."
	input.Focus()

	return &SearchModel{
		search: search,
		input:  input,
		window: newListWindow(10),
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Start searches for positionKey from the record at currentPath
func (m *SearchModel) Start(positionKey, currentPath string) tea.Cmd {
	m.input.SetValue(positionKey)
	m.input.Focus()
	m.currentPath = currentPath
	m.results = nil
	m.window.SetTotal(0)
	m.ClearMessage()
	return m.run(positionKey)
}

// SetSize updates the view dimensions
func (m *SearchModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.window.SetSize(m.listHeight(12))
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultsMsg:
		if msg.key != strings.TrimSpace(m.input.Value()) {
			return m, nil // stale
		}
		m.searching = false
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		m.results = msg.results
		m.window.SetTotal(len(m.results))
		m.window.Select(0)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }

		case key.Matches(msg, SearchKeys.Up):
			m.window.Move(-1)
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			m.window.Move(1)
			return m, nil

		case key.Matches(msg, SearchKeys.Copy):
			if r, ok := m.selected(); ok {
				if err := clipboard.WriteAll(r.Cursor.Key()); err != nil {
					m.SetMessage("clipboard: "+err.Error(), true)
				} else {
					m.SetMessage("copied "+r.Cursor.Key(), false)
				}
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Open):
			r, ok := m.selected()
			if !ok || r.Path == "" {
				return m, nil
			}
			return m, func() tea.Msg {
				return OpenRecordMsg{Path: r.Path, Cursor: r.Cursor}
			}
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if after := m.input.Value(); after != before {
		if strings.TrimSpace(after) == "" {
			m.results = nil
			m.window.SetTotal(0)
			return m, cmd
		}
		return m, tea.Batch(cmd, m.run(after))
	}
	return m, cmd
}

func (m *SearchModel) selected() (commands.SearchResult, bool) {
	i := m.window.Cursor()
	if i < 0 || i >= len(m.results) {
		return commands.SearchResult{}, false
	}
	return m.results[i], true
}

func (m *SearchModel) run(positionKey string) tea.Cmd {
	positionKey = strings.TrimSpace(positionKey)
	if positionKey == "" || m.search == nil {
		return nil
	}
	m.searching = true
	current := m.currentPath
	return func() tea.Msg {
		results, err := m.search(context.Background(), positionKey, current)
		return searchResultsMsg{key: positionKey, results: results, err: err}
	}
}

type searchResultsMsg struct {
	key     string
	results []commands.SearchResult
	err     error
}

// View renders the search view
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Position search"))
	b.WriteString("\n")
	if m.currentPath != "" {
		b.WriteString(styles.Subtitle.Render("from " + filepath.Base(m.currentPath)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	switch {
	case m.searching:
		b.WriteString(styles.MutedText.Render("Searching..."))
	case len(m.results) == 0:
		b.WriteString(styles.MutedText.Render("No positions found"))
	default:
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d positions", len(m.results))))
		b.WriteString("\n\n")
		start, end := m.window.Visible()
		for i := start; i < end; i++ {
			b.WriteString(m.renderResult(m.results[i], i == m.window.Cursor()))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	if m.Message != "" {
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		styles.HelpKey.Render("↑/↓"),
		styles.HelpDesc.Render("navigate"),
		styles.HelpKey.Render("enter"),
		styles.HelpDesc.Render("copy cursor"),
		styles.HelpKey.Render("ctrl+o"),
		styles.HelpDesc.Render("open"),
		styles.HelpKey.Render("esc"),
		styles.HelpDesc.Render("back"),
	))

	return styles.App.Render(b.String())
}

func (m *SearchModel) renderResult(r commands.SearchResult, selected bool) string {
	name := r.FileIdentity
	if r.Path != "" {
		name = filepath.Base(r.Path)
	}
	text := fmt.Sprintf("%-28s %4d  %s", name, r.Cursor.Tesuu, r.Cursor.Key())

	switch {
	case selected:
		return styles.Selected.Render(text)
	case r.Current:
		return styles.CurrentHit.Render(text)
	default:
		return text
	}
}
