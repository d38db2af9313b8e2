package cli

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tbl3rd/bvg/pkg/bitvec"
	"github.com/tbl3rd/bvg/pkg/genealogy"
	"github.com/tbl3rd/bvg/pkg/pipeline"
)

// tuiCommand creates the tui command for interactive ancestry browsing.
func (c *CLI) tuiCommand() *cobra.Command {
	var (
		percent int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "tui [population.txt]",
		Short: "Browse an inferred genealogy interactively",
		Long: `Browse an inferred genealogy interactively.

Runs the inference, then opens a terminal browser over the result:
each member is listed with its parent and depth, and the detail pane
shows the selected member's bit vector, ancestry chain, and children.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("percent") {
				percent = c.config.Percent
			}
			return c.runTUI(cmd, args[0], percent, noCache)
		},
	}

	cmd.Flags().IntVarP(&percent, "percent", "p", 20, "mutation percentage in [0,100]")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runTUI(cmd *cobra.Command, input string, percent int, noCache bool) error {
	data, err := readInput(cmd, input)
	if err != nil {
		return fmt.Errorf("read population %s: %w", input, err)
	}
	pop, err := bitvec.Load(bytes.NewReader(data))
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cmd, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.InferBytes(cmd.Context(), data, pipeline.Options{Percent: percent})
	if err != nil {
		return err
	}

	model := newAncestryModel(pop, result.Parents)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

// =============================================================================
// AncestryModel - Interactive genealogy browser
// =============================================================================

// AncestryModel is the bubbletea model for browsing an inferred tree.
type AncestryModel struct {
	Population *bitvec.Population
	Parents    genealogy.Parents
	Cursor     int
	Height     int
	Offset     int
}

// newAncestryModel creates a browser positioned on the progenitor.
func newAncestryModel(pop *bitvec.Population, parents genealogy.Parents) AncestryModel {
	cursor := parents.Root()
	if cursor < 0 {
		cursor = 0
	}
	return AncestryModel{
		Population: pop,
		Parents:    parents,
		Cursor:     cursor,
		Height:     15,
	}
}

func (m AncestryModel) Init() tea.Cmd {
	return nil
}

func (m AncestryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Parents)-1 {
				m.Cursor++
			}
		case "p", "enter":
			// Jump to the selected member's parent.
			if parent := m.Parents[m.Cursor]; parent != genealogy.NoParent {
				m.Cursor = parent
			}
		case "r":
			if root := m.Parents.Root(); root >= 0 {
				m.Cursor = root
			}
		}
		m.clampOffset()
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
		m.clampOffset()
	}
	return m, nil
}

func (m *AncestryModel) clampOffset() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m AncestryModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Genealogy Browser"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  p parent  r root  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Parents) {
		end = len(m.Parents)
	}

	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		label := fmt.Sprintf("%-4d", i)
		parent := "progenitor"
		if m.Parents[i] != genealogy.NoParent {
			parent = fmt.Sprintf("parent %d", m.Parents[i])
		}
		line := fmt.Sprintf("%s%s %-14s depth %d", cursor, label, parent, m.Parents.Depth(i))

		if i == m.Cursor {
			b.WriteString(StyleHighlight.Render(line))
		} else if m.Parents[i] == genealogy.NoParent {
			b.WriteString(StyleSuccess.Render(line))
		} else {
			b.WriteString(StyleValue.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())
	return b.String()
}

// detailView renders the selected member's vector, ancestry chain, and
// children.
func (m AncestryModel) detailView() string {
	var b strings.Builder

	vector := m.Population.Vectors[m.Cursor].String()
	if len(vector) > 64 {
		vector = vector[:61] + "..."
	}
	b.WriteString(StyleDim.Render("vector   ") + StyleNumber.Render(vector) + "\n")

	chain := []string{fmt.Sprintf("%d", m.Cursor)}
	for v := m.Parents[m.Cursor]; v != genealogy.NoParent; v = m.Parents[v] {
		chain = append(chain, fmt.Sprintf("%d", v))
	}
	b.WriteString(StyleDim.Render("ancestry ") + StyleValue.Render(strings.Join(chain, " → ")) + "\n")

	children := m.Parents.Children(m.Cursor)
	if len(children) == 0 {
		b.WriteString(StyleDim.Render("children none"))
	} else {
		parts := make([]string, len(children))
		for i, ch := range children {
			parts[i] = fmt.Sprintf("%d", ch)
		}
		b.WriteString(StyleDim.Render("children ") + StyleValue.Render(strings.Join(parts, " ")))
	}
	return b.String()
}
