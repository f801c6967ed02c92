package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/FarmaSync/edups/pages"
	"github.com/FarmaSync/edups/store"
	"github.com/FarmaSync/edups/store/storetest"
)

func newModel(t *testing.T) Model {
	t.Helper()
	_, db := storetest.NewSQLite(t)
	return withStaticCursor(New(context.Background(), pages.NewShell(store.New(db, store.DriverSQLite))))
}

// withStaticCursor stops the input cursor from scheduling blink timers during tests.
func withStaticCursor(m Model) Model {
	m.query.Cursor.SetMode(cursor.CursorStatic)
	return m
}

// send feeds msg to the model and runs any returned command once, like the bubbletea loop would.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m, nil
	}
	out := cmd()
	if vm, ok := out.(viewMsg); ok {
		next, _ = m.Update(vm)
		return next.(Model), vm
	}
	return m, out
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestNewModelIsIdle(t *testing.T) {
	m := newModel(t)

	if m.view.Page != pages.PageHome {
		t.Errorf("expected idle page, got %v", m.view.Page)
	}
	out := m.View()
	for _, want := range []string{pages.AppTitle, "Search Prescribing Product", "Dosage Forms", "Select a page from the menu."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestMenuNavigation(t *testing.T) {
	m := newModel(t)

	m, _ = send(t, m, key(tea.KeyUp))
	if m.cursor != 0 {
		t.Errorf("cursor must not move above the first item, got %d", m.cursor)
	}

	m, _ = send(t, m, key(tea.KeyDown))
	m, _ = send(t, m, key(tea.KeyDown))
	if m.cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", m.cursor)
	}

	m, msg := send(t, m, key(tea.KeyEnter))
	if _, ok := msg.(viewMsg); !ok {
		t.Fatalf("expected a rendered view, got %T", msg)
	}
	if m.view.Page != pages.PageBrands {
		t.Fatalf("expected brands page, got %v", m.view.Page)
	}
	if m.focus != focusPage {
		t.Error("expected focus to move to the page")
	}
	if got := len(m.table.Rows()); got != 3 {
		t.Errorf("expected 3 table rows, got %d", got)
	}
	if got := len(m.table.Columns()); got != 5 {
		t.Errorf("expected 5 columns, got %d", got)
	}
	if !strings.Contains(m.View(), "Trimox") {
		t.Error("expected table content in view")
	}

	for i := 0; i < 10; i++ {
		m, _ = send(t, m, key(tea.KeyDown))
	}
	if m.cursor != 2 {
		t.Errorf("page keys must not move the menu cursor, got %d", m.cursor)
	}

	m, _ = send(t, m, key(tea.KeyTab))
	if m.focus != focusMenu {
		t.Error("expected tab to return focus to the menu")
	}
	for i := 0; i < 10; i++ {
		m, _ = send(t, m, key(tea.KeyDown))
	}
	if m.cursor != len(pages.Menu())-1 {
		t.Errorf("cursor must stop at the last item, got %d", m.cursor)
	}

	// Switching from a wide table to a narrow one must not panic.
	m, _ = send(t, m, key(tea.KeyEnter))
	if m.view.Page != pages.PageDosageForms || len(m.table.Columns()) != 2 {
		t.Errorf("expected dosage forms with 2 columns, got %v / %d", m.view.Page, len(m.table.Columns()))
	}
}

func TestSearchFlow(t *testing.T) {
	m := newModel(t)

	m, _ = send(t, m, key(tea.KeyEnter))
	if m.view.Page != pages.PageSearch {
		t.Fatalf("expected search page, got %v", m.view.Page)
	}
	if !strings.Contains(m.View(), pages.MsgEnterKeyword) {
		t.Error("expected keyword prompt")
	}
	if m.searchFocus != searchInput || !m.query.Focused() {
		t.Fatal("expected the text input to be focused")
	}

	// q is text while typing.
	m, msg := send(t, m, runes("q"))
	if _, quit := msg.(tea.QuitMsg); quit {
		t.Fatal("q must not quit while typing")
	}
	m, _ = send(t, m, key(tea.KeyBackspace))

	m, _ = send(t, m, runes("am"))
	if m.query.Value() != "am" {
		t.Fatalf("expected query am, got %q", m.query.Value())
	}

	m, _ = send(t, m, key(tea.KeyEnter))
	if got := m.view.Search.Result.Matches; len(got) != 2 || got[0] != "Amlodipine 5mg" {
		t.Fatalf("unexpected matches %v", got)
	}
	if m.view.Search.Selected != "Amlodipine 5mg" || m.searchFocus != searchMatches {
		t.Errorf("expected first match selected and picker focused, got %q", m.view.Search.Selected)
	}
	if !strings.Contains(m.View(), "Brands under 'Amlodipine 5mg':") {
		t.Error("expected brands subtitle")
	}

	m, _ = send(t, m, key(tea.KeyDown))
	m, _ = send(t, m, key(tea.KeyEnter))
	if m.view.Search.Selected != "Amoxicillin 500mg" {
		t.Fatalf("expected drill-down to Amoxicillin 500mg, got %q", m.view.Search.Selected)
	}
	if m.matchCursor != 1 {
		t.Errorf("expected picker cursor to follow the selection, got %d", m.matchCursor)
	}
	if got := len(m.table.Rows()); got != 2 {
		t.Errorf("expected 2 brands, got %d", got)
	}

	// Back to the input for a new keyword.
	m, _ = send(t, m, key(tea.KeyEsc))
	if m.searchFocus != searchInput {
		t.Fatal("expected esc to focus the input")
	}
	m, _ = send(t, m, runes("xyz"))
	m, _ = send(t, m, key(tea.KeyEnter))
	if !strings.Contains(m.View(), pages.MsgNoProducts) {
		t.Error("expected no-match warning")
	}
	if m.view.Table != nil || len(m.table.Rows()) != 0 {
		t.Error("expected the table to be cleared")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t)

	if _, msg := send(t, m, runes("q")); msg != (tea.QuitMsg{}) {
		t.Errorf("expected quit on q, got %#v", msg)
	}
	if _, msg := send(t, m, key(tea.KeyCtrlC)); msg != (tea.QuitMsg{}) {
		t.Errorf("expected quit on ctrl+c, got %#v", msg)
	}
}

func TestStoreFailureShowsNotice(t *testing.T) {
	_, db := storetest.NewSQLite(t)
	st := store.New(db, store.DriverSQLite)
	_ = st.Close()
	m := withStaticCursor(New(context.Background(), pages.NewShell(st)))

	m, _ = send(t, m, key(tea.KeyDown))
	m, _ = send(t, m, key(tea.KeyEnter))

	if !strings.Contains(m.View(), "Error fetching Prescribing Products") {
		t.Error("expected error notice in view")
	}
	if m.view.Table != nil {
		t.Error("expected no table")
	}
}

func TestStaleRenderIsDropped(t *testing.T) {
	m := newModel(t)

	// Pick Brands, then Dosage Forms before the first render has come back.
	m, _ = send(t, m, key(tea.KeyDown))
	m, _ = send(t, m, key(tea.KeyDown))
	next, slow := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	m.focus = focusMenu
	m.cursor = len(m.menu) - 1
	next, fast := m.Update(key(tea.KeyEnter))
	m = next.(Model)

	next, _ = m.Update(fast())
	m = next.(Model)
	next, _ = m.Update(slow())
	m = next.(Model)

	if m.view.Page != pages.PageDosageForms {
		t.Errorf("expected the latest selection to win, got %v", m.view.Page)
	}
	if got := len(m.table.Columns()); got != 2 {
		t.Errorf("expected dosage form columns, got %d", got)
	}
}

func TestWindowResize(t *testing.T) {
	m := newModel(t)
	before := m.table.Height()

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("unexpected size %dx%d", m.width, m.height)
	}
	if m.table.Height() <= before {
		t.Errorf("expected the table to grow from %d, got %d", before, m.table.Height())
	}
}
