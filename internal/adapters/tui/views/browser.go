package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"kifunav/internal/adapters/replay"
	"kifunav/internal/adapters/tui/styles"
	"kifunav/internal/application/commands"
	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

// BrowserKeyMap defines key bindings for the record browser
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Search    key.Binding
	Plan      key.Binding
	ClearPlan key.Binding
	PlanEnd   key.Binding
	Copy      key.Binding
	Edit      key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Search: key.NewBinding(
		key.WithKeys("enter", "/"),
		key.WithHelp("enter", "search position"),
	),
	Plan: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "plan branch"),
	),
	ClearPlan: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear plan"),
	),
	PlanEnd: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "jump to plan end"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy cursor"),
	),
	Edit: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "edit record"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload record"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// treeLine is one row of the flattened position tree
type treeLine struct {
	Node  domain.PositionNode
	Depth int
}

// BrowserModel shows the position tree of one record
type BrowserModel struct {
	ViewState
	loader ports.RecordLoader
	keyer  ports.PositionKeyer

	path     string
	record   *domain.ParsedRecord
	tree     domain.Tree
	keys     map[domain.NodeID]string
	lines    []treeLine
	window   *listWindow
	plan     domain.ForkPlan
	planPath map[domain.NodeID]bool
}

// NewBrowserModel creates a new browser view model
func NewBrowserModel(loader ports.RecordLoader, keyer ports.PositionKeyer) *BrowserModel {
	return &BrowserModel{
		loader: loader,
		keyer:  keyer,
		window: newListWindow(20),
		plan:   domain.NewForkPlan(nil),
	}
}

// Init initializes the browser view
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Open loads a record and selects the position at cursor
func (m *BrowserModel) Open(path string, cursor domain.Cursor) tea.Cmd {
	return func() tea.Msg {
		tree, record, err := commands.NewLoadTreeCommand(m.loader, path).Execute(context.Background())
		return recordLoadedMsg{path: path, tree: tree, record: record, cursor: cursor, err: err}
	}
}

// Reload reads the open record again and keeps the selection on the same
// position. The selected cursor is replayed with the moves of the version
// on screen, so edits that move or drop variations land on the deepest
// position both versions share.
func (m *BrowserModel) Reload() tea.Cmd {
	if m.record == nil || len(m.lines) == 0 {
		return nil
	}
	path, previous := m.path, *m.record
	cursor, _ := m.tree.CursorOf(m.selected().ID)

	return func() tea.Msg {
		ctx := context.Background()
		tree, record, err := commands.NewLoadTreeCommand(m.loader, path).Execute(ctx)
		if err != nil {
			return recordLoadedMsg{path: path, err: err}
		}

		res, err := commands.NewResolveNodeCommand(
			tree,
			replay.NewRecordReplayer(previous),
			nil,
			cursor.Tesuu,
			cursor.ForkPointers,
		).Execute(ctx)
		if err != nil {
			return recordLoadedMsg{path: path, err: err}
		}
		return recordLoadedMsg{path: path, tree: tree, record: record, cursor: res.Cursor, diverged: !res.Exact}
	}
}

type recordLoadedMsg struct {
	path     string
	tree     domain.Tree
	record   *domain.ParsedRecord
	cursor   domain.Cursor
	diverged bool
	err      error
}

// Path returns the open record
func (m *BrowserModel) Path() string {
	return m.path
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.window.SetSize(m.listHeight(8))
}

// Update handles messages for the browser view
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordLoadedMsg:
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		m.load(msg.path, msg.tree)
		m.record = msg.record
		id, ok := m.tree.NodeAt(msg.cursor)
		m.selectNode(id)
		switch {
		case !ok:
			m.SetMessage(fmt.Sprintf("cursor %s leaves the record", msg.cursor.Key()), true)
		case msg.diverged:
			m.SetMessage("record changed, moved to "+msg.cursor.Key(), false)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit
	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}

	if len(m.lines) == 0 {
		return nil
	}
	m.ClearMessage()

	switch {
	case key.Matches(msg, BrowserKeys.Up):
		m.window.Move(-1)
	case key.Matches(msg, BrowserKeys.Down):
		m.window.Move(1)
	case key.Matches(msg, BrowserKeys.PageUp):
		m.window.Page(-1)
	case key.Matches(msg, BrowserKeys.PageDown):
		m.window.Page(1)

	case key.Matches(msg, BrowserKeys.Search):
		positionKey, ok := m.keys[m.selected().ID]
		if !ok {
			m.SetMessage("no position key for this node", true)
			return nil
		}
		path := m.path
		return func() tea.Msg {
			return SwitchToSearchMsg{PositionKey: positionKey, CurrentPath: path}
		}

	case key.Matches(msg, BrowserKeys.Plan):
		m.planTowards(m.selected())
	case key.Matches(msg, BrowserKeys.ClearPlan):
		m.setPlan(domain.NewForkPlan(nil))
		m.SetMessage("plan cleared", false)
	case key.Matches(msg, BrowserKeys.PlanEnd):
		end, err := commands.NewJumpToPlanEndCommand(m.tree, m.plan).Execute(context.Background())
		if err != nil {
			m.SetMessage(err.Error(), true)
			return nil
		}
		m.selectNode(end.NodeID)

	case key.Matches(msg, BrowserKeys.Edit):
		path := m.path
		return func() tea.Msg { return OpenEditorMsg{Path: path} }
	case key.Matches(msg, BrowserKeys.Reload):
		return m.Reload()

	case key.Matches(msg, BrowserKeys.Copy):
		c, ok := m.tree.CursorOf(m.selected().ID)
		if !ok {
			return nil
		}
		if err := clipboard.WriteAll(c.Key()); err != nil {
			m.SetMessage("clipboard: "+err.Error(), true)
			return nil
		}
		m.SetMessage("copied "+c.Key(), false)
	}
	return nil
}

func (m *BrowserModel) load(path string, tree domain.Tree) {
	m.path = path
	m.tree = tree
	m.keys = m.keyer.PositionKeys(tree)
	m.lines = flattenTree(tree)
	m.window.SetTotal(len(m.lines))
	m.setPlan(domain.NewForkPlan(nil))
	m.ClearMessage()
}

func (m *BrowserModel) selected() domain.PositionNode {
	return m.lines[m.window.Cursor()].Node
}

func (m *BrowserModel) selectNode(id domain.NodeID) {
	for i, l := range m.lines {
		if l.Node.ID == id {
			m.window.Select(i)
			return
		}
	}
}

// planTowards sets every branch choice on the way to n
func (m *BrowserModel) planTowards(n domain.PositionNode) {
	c, ok := m.tree.CursorOf(n.ID)
	if !ok {
		return
	}

	plan := m.plan
	for te := 1; te <= c.Tesuu; te++ {
		k := c.ForkIndexAt(te)
		if _, planned := plan.Get(te); k == 0 && !planned {
			continue
		}
		next, err := commands.NewPlanForkCommand(plan, te, k).Execute(context.Background())
		if err != nil {
			m.SetMessage(err.Error(), true)
			return
		}
		plan = next
	}
	m.setPlan(plan)
	m.SetMessage(fmt.Sprintf("planned %d branch choices", plan.Len()), false)
}

func (m *BrowserModel) setPlan(plan domain.ForkPlan) {
	m.plan = plan
	m.planPath = make(map[domain.NodeID]bool)
	if plan.Len() == 0 {
		return
	}
	for id := m.tree.FollowPlan(plan.Lookup()); id != m.tree.RootID; {
		m.planPath[id] = true
		n, ok := m.tree.Node(id)
		if !ok {
			break
		}
		id = n.Parent
	}
}

// flattenTree lists the nodes in reading order: variations come right
// after the position they branch from, indented one level, and the main
// continuation follows them at the parent's depth.
func flattenTree(tree domain.Tree) []treeLine {
	root, ok := tree.Root()
	if !ok {
		return nil
	}
	lines := []treeLine{{Node: root}}

	var visit func(parent domain.PositionNode, depth int)
	visit = func(parent domain.PositionNode, depth int) {
		for i := 1; i < len(parent.Children); i++ {
			if n, ok := tree.Node(parent.Children[i]); ok {
				lines = append(lines, treeLine{Node: n, Depth: depth + 1})
				visit(n, depth+1)
			}
		}
		if len(parent.Children) > 0 {
			if n, ok := tree.Node(parent.Children[0]); ok {
				lines = append(lines, treeLine{Node: n, Depth: depth})
				visit(n, depth)
			}
		}
	}
	visit(root, 0)
	return lines
}

// View renders the browser view
func (m *BrowserModel) View() string {
	var b strings.Builder

	title := "kifunav"
	if m.path != "" {
		title += "  " + filepath.Base(m.path)
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	if len(m.lines) == 0 {
		b.WriteString(styles.MutedText.Render("No record open"))
	} else {
		start, end := m.window.Visible()
		for i := start; i < end; i++ {
			b.WriteString(m.renderLine(m.lines[i], i == m.window.Cursor()))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.Message != "" {
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  %s %s",
		styles.HelpKey.Render("enter"),
		styles.HelpDesc.Render("search"),
		styles.HelpKey.Render("p"),
		styles.HelpDesc.Render("plan"),
		styles.HelpKey.Render("e"),
		styles.HelpDesc.Render("plan end"),
		styles.HelpKey.Render("c"),
		styles.HelpDesc.Render("copy"),
		styles.HelpKey.Render("?"),
		styles.HelpDesc.Render("help"),
	))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderLine(l treeLine, selected bool) string {
	indent := strings.Repeat("  ", l.Depth)

	if l.Node.IsRoot() {
		text := indent + "0. start"
		if selected {
			return styles.Selected.Render(text)
		}
		return text
	}

	move := fmt.Sprintf("%d. %s", l.Node.Tesuu, l.Node.Move)
	if selected {
		return indent + styles.Selected.Render(move)
	}

	style := styles.MoveStyle(l.Node.Move.Color == domain.White)
	if m.planPath[l.Node.ID] {
		style = styles.Planned
	}
	line := indent + style.Render(move)
	if l.Node.Comment != "" {
		line += "  " + styles.Comment.Render(l.Node.Comment)
	}
	return line
}
