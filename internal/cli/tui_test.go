package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbl3rd/bvg/pkg/bitvec"
	"github.com/tbl3rd/bvg/pkg/genealogy"
)

func newBrowserFixture(t *testing.T) AncestryModel {
	t.Helper()
	pop, err := bitvec.Load(strings.NewReader("0000\n0001\n0011\n0111\n"))
	require.NoError(t, err)
	// Path 0-1-2-3 rooted at 2.
	return newAncestryModel(pop, genealogy.Parents{1, 2, -1, 2})
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{}
}

func TestAncestryModelStartsAtRoot(t *testing.T) {
	m := newBrowserFixture(t)
	assert.Equal(t, 2, m.Cursor)
}

func TestAncestryModelNavigation(t *testing.T) {
	m := newBrowserFixture(t)

	next, _ := m.Update(key("down"))
	m = next.(AncestryModel)
	assert.Equal(t, 3, m.Cursor)

	// Jump to the parent of 3.
	next, _ = m.Update(key("p"))
	m = next.(AncestryModel)
	assert.Equal(t, 2, m.Cursor)

	// Root has no parent: cursor stays put.
	next, _ = m.Update(key("p"))
	m = next.(AncestryModel)
	assert.Equal(t, 2, m.Cursor)

	next, _ = m.Update(key("up"))
	m = next.(AncestryModel)
	assert.Equal(t, 1, m.Cursor)

	next, _ = m.Update(key("r"))
	m = next.(AncestryModel)
	assert.Equal(t, 2, m.Cursor)
}

func TestAncestryModelView(t *testing.T) {
	m := newBrowserFixture(t)
	view := m.View()

	assert.Contains(t, view, "Genealogy Browser")
	assert.Contains(t, view, "progenitor")
	assert.Contains(t, view, "0011")
}

func TestAncestryModelQuit(t *testing.T) {
	m := newBrowserFixture(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
