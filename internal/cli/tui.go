package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/geotrig/pkg/calc"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// OperationListModel - Interactive operation selection
// =============================================================================

// OperationListModel is the bubbletea model for picking an operation.
type OperationListModel struct {
	Ops      []*calc.Operation
	Cursor   int
	Selected *calc.Operation
	Height   int
	Offset   int
}

func newOperationListModel(ops []*calc.Operation) OperationListModel {
	return OperationListModel{Ops: ops, Height: 15}
}

func (m OperationListModel) Init() tea.Cmd {
	return nil
}

func (m OperationListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Ops)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Ops) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Ops[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m OperationListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Operation"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Ops))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		op := m.Ops[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, op.Module, op.Label, paramSummary(op.Params)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Module", "Operation", "Defaults").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				if col == 3 {
					return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
				}
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Ops))))

	return b.String()
}
