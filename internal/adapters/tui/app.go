package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"kifunav/internal/adapters/tui/views"
	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewSearch
	ViewHelp
)

// IndexFunc re-indexes one record after it was edited
type IndexFunc func(ctx context.Context, path string) error

// App is the main TUI application model
type App struct {
	editor  ports.EditorOpener
	reindex IndexFunc

	state   ViewState
	browser *views.BrowserModel
	search  *views.SearchModel
	help    *views.HelpModel

	initialPath string
	width       int
	height      int
}

// NewApp creates a new TUI application. initialPath, if set, is opened
// at the start position. A nil editor disables editing; a nil reindex
// leaves the search index alone after an edit.
func NewApp(
	loader ports.RecordLoader,
	keyer ports.PositionKeyer,
	search views.SearchFunc,
	editor ports.EditorOpener,
	reindex IndexFunc,
	initialPath string,
) *App {
	return &App{
		editor:      editor,
		reindex:     reindex,
		state:       ViewBrowser,
		browser:     views.NewBrowserModel(loader, keyer),
		search:      views.NewSearchModel(search),
		help:        views.NewHelpModel(),
		initialPath: initialPath,
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	if a.initialPath == "" {
		return nil
	}
	return a.browser.Open(a.initialPath, domain.Cursor{})
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	// View switching messages
	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		return a, a.search.Start(msg.PositionKey, msg.CurrentPath)

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.OpenRecordMsg:
		a.state = ViewBrowser
		return a, a.browser.Open(msg.Path, msg.Cursor)

	case views.OpenEditorMsg:
		a.state = ViewBrowser
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetMessage("editor: "+msg.err.Error(), true)
			return a, nil
		}
		return a, a.indexRecord(msg.path)

	case recordIndexedMsg:
		if msg.err != nil {
			a.browser.SetMessage("index not updated: "+msg.err.Error(), true)
			return a, nil
		}
		return a, a.browser.Reload()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct {
	path string
	err  error
}

type recordIndexedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{path: path, err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

// indexRecord updates the search index for an edited record so hits
// carry its new generation
func (a *App) indexRecord(path string) tea.Cmd {
	reindex := a.reindex
	return func() tea.Msg {
		if reindex == nil {
			return recordIndexedMsg{}
		}
		return recordIndexedMsg{err: reindex(context.Background(), path)}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewSearch:
		return a.search.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
