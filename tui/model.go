// Package tui is the terminal surface of the formulary dashboard: a sidebar menu and a page
// pane drawn with bubbletea, fed by the same navigation shell as the web surface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/FarmaSync/edups/pages"
)

// maxColumnWidth caps a table column so wide tables still fit a terminal.
const maxColumnWidth = 40

type focusArea int

const (
	focusMenu focusArea = iota
	focusPage
)

type searchFocus int

const (
	searchInput searchFocus = iota
	searchMatches
)

// viewMsg carries a freshly rendered page back into Update. seq identifies the render
// that produced it; only the latest one is shown.
type viewMsg struct {
	seq  int
	view pages.View
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx   context.Context
	shell *pages.Shell

	menu   []pages.PageID
	cursor int
	focus  focusArea

	view        pages.View
	seq         int
	query       textinput.Model
	searchFocus searchFocus
	matchCursor int
	table       table.Model

	width  int
	height int
	styles Styles
}

// New creates the dashboard model in its idle state.
func New(ctx context.Context, shell *pages.Shell) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. amox"
	ti.CharLimit = 100
	ti.Width = 40

	t := table.New(
		table.WithColumns([]table.Column{}),
		table.WithHeight(15),
	)

	return Model{
		ctx:    ctx,
		shell:  shell,
		menu:   pages.Menu(),
		view:   pages.Idle(),
		query:  ti,
		table:  t,
		styles: DefaultStyles(),
	}
}

// Run starts the terminal dashboard and blocks until the user quits or ctx is done.
func Run(ctx context.Context, shell *pages.Shell) error {
	_, err := tea.NewProgram(New(ctx, shell), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// render runs a page renderer off the UI loop. Starting a render supersedes any still running.
func (m *Model) render(page pages.PageID, req pages.Request) tea.Cmd {
	m.seq++
	ctx, shell, seq := m.ctx, m.shell, m.seq
	return func() tea.Msg {
		return viewMsg{seq: seq, view: shell.Render(ctx, page, req)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - 16; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case viewMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.setView(msg.view)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	typing := m.focus == focusPage && m.view.Page == pages.PageSearch && m.searchFocus == searchInput

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !typing {
			return m, tea.Quit
		}
	case "tab":
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusMenu {
		return m.updateMenu(key)
	}
	if m.view.Page == pages.PageSearch {
		return m.updateSearch(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusMenu && m.view.Page != pages.PageHome {
		m.focus = focusPage
	} else {
		m.focus = focusMenu
	}
	m.syncFocus()
}

// syncFocus moves the cursor focus of the bubbles components to match the model.
func (m *Model) syncFocus() {
	m.query.Blur()
	m.table.Blur()
	if m.focus != focusPage {
		return
	}
	if m.view.Page == pages.PageSearch && m.searchFocus == searchInput {
		m.query.Focus()
		return
	}
	m.table.Focus()
}

func (m Model) updateMenu(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu)-1 {
			m.cursor++
		}
	case "enter":
		page := m.menu[m.cursor]
		m.focus = focusPage
		if page == pages.PageSearch {
			m.searchFocus = searchInput
			m.query.SetValue("")
		}
		cmd := m.render(page, pages.Request{})
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchFocus == searchInput {
		if msg.String() == "enter" {
			cmd := m.render(pages.PageSearch, pages.Request{Query: m.query.Value()})
			return m, cmd
		}
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		return m, cmd
	}

	matches := m.matches()
	switch msg.String() {
	case "up", "k":
		if m.matchCursor > 0 {
			m.matchCursor--
		}
	case "down", "j":
		if m.matchCursor < len(matches)-1 {
			m.matchCursor++
		}
	case "enter":
		if len(matches) > 0 {
			req := pages.Request{Query: m.query.Value(), Selected: matches[m.matchCursor]}
			cmd := m.render(pages.PageSearch, req)
			return m, cmd
		}
	case "esc", "/":
		m.searchFocus = searchInput
		m.syncFocus()
	}
	return m, nil
}

func (m Model) matches() []string {
	if m.view.Search == nil {
		return nil
	}
	return m.view.Search.Result.Matches
}

func (m *Model) setView(v pages.View) {
	m.view = v

	if v.Search != nil {
		m.matchCursor = 0
		for i, name := range v.Search.Result.Matches {
			if name == v.Search.Selected {
				m.matchCursor = i
			}
		}
		if len(v.Search.Result.Matches) > 0 {
			m.searchFocus = searchMatches
		} else {
			m.searchFocus = searchInput
		}
	}

	m.setTable(v)
	m.syncFocus()
}

// setTable loads the view's result set into the table component.
func (m *Model) setTable(v pages.View) {
	// Rows must be cleared first: the table re-renders on SetColumns.
	m.table.SetRows(nil)
	if v.Table == nil {
		m.table.SetColumns([]table.Column{})
		return
	}

	widths := make([]int, len(v.Table.Columns))
	for i, col := range v.Table.Columns {
		widths[i] = lipgloss.Width(col)
	}
	rows := make([]table.Row, 0, v.Table.Len())
	for r := 0; r < v.Table.Len(); r++ {
		cells := v.Table.Cells(r)
		for i, cell := range cells {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
		rows = append(rows, table.Row(cells))
	}

	columns := make([]table.Column, len(v.Table.Columns))
	for i, col := range v.Table.Columns {
		columns[i] = table.Column{Title: col, Width: min(widths[i], maxColumnWidth)}
	}
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// View renders the dashboard.
func (m Model) View() string {
	sidebar := m.renderMenu()

	paneStyle := m.styles.Content
	if m.focus == focusPage {
		paneStyle = m.styles.Focused
	}
	pane := paneStyle.Render(m.renderPage())

	help := m.styles.Muted.Render("↑/↓ move • enter select • tab switch pane • q quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(pages.AppTitle),
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, pane),
		help,
	)
}

func (m Model) renderMenu() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("Menu") + "\n\n")
	for i, page := range m.menu {
		label := page.Label()
		switch {
		case i == m.cursor && m.focus == focusMenu:
			sb.WriteString(m.styles.MenuActive.Render("> " + label))
		case page == m.view.Page:
			sb.WriteString(m.styles.MenuActive.Render("  " + label))
		default:
			sb.WriteString(m.styles.MenuItem.Render(label))
		}
		sb.WriteString("\n")
	}

	style := m.styles.Sidebar
	if m.focus == focusMenu {
		style = style.BorderForeground(m.styles.Focused.GetBorderTopForeground())
	}
	return style.Render(sb.String())
}

func (m Model) renderPage() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render(m.view.Title) + "\n\n")

	if s := m.view.Search; s != nil {
		sb.WriteString(pages.SearchInputLabel + "\n")
		sb.WriteString(m.query.View() + "\n\n")
		if len(s.Result.Matches) > 0 {
			sb.WriteString(pages.SearchSelectLabel + "\n")
			for i, name := range s.Result.Matches {
				marker := "  "
				if i == m.matchCursor && m.searchFocus == searchMatches && m.focus == focusPage {
					marker = "> "
				}
				line := marker + name
				if name == s.Selected {
					line = m.styles.MenuActive.Render(line)
				}
				sb.WriteString(line + "\n")
			}
			sb.WriteString("\n")
		}
	}

	for _, n := range m.view.Notices {
		sb.WriteString(m.noticeStyle(n.Level).Render(n.Message) + "\n")
	}

	if m.view.Subtitle != "" {
		sb.WriteString("\n" + m.styles.Subtitle.Render(m.view.Subtitle) + "\n")
	}
	if m.view.Table != nil {
		sb.WriteString(m.table.View() + "\n")
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d rows", m.view.Table.Len())))
	}
	return sb.String()
}

func (m Model) noticeStyle(level pages.Level) lipgloss.Style {
	switch level {
	case pages.LevelError:
		return m.styles.Error
	case pages.LevelWarning:
		return m.styles.Warning
	default:
		return m.styles.Info
	}
}
