package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geotrig/pkg/calc"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// opsCommand creates the ops command.
func (c *CLI) opsCommand() *cobra.Command {
	var module string

	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List operations and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch module {
			case "", calc.ModuleGeo, calc.ModuleTrig:
			default:
				return fmt.Errorf("unknown module %q: want %s or %s", module, calc.ModuleGeo, calc.ModuleTrig)
			}

			var ops []*calc.Operation
			for _, op := range calc.Operations() {
				if module == "" || op.Module == module {
					ops = append(ops, op)
				}
			}
			fmt.Println(operationTable(ops))
			printNextStep("Run one", "geotrig calc <operation> -p key=value")
			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "only list one module: geo or trig")

	return cmd
}

// operationTable renders ops as a bordered table.
func operationTable(ops []*calc.Operation) string {
	rows := make([][]string, 0, len(ops))
	for _, op := range ops {
		rows = append(rows, []string{op.Module, op.Name, op.Label, strings.Join(op.Aliases, ", "), paramSummary(op.Params)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Module", "Operation", "Label", "Aliases", "Parameters").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return tableHeaderStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// paramSummary lists parameters as name=default, with choices joined by "|".
func paramSummary(params []calc.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		v := p.Default
		if len(p.Choices) > 0 {
			v = strings.Join(p.Choices, "|")
		}
		parts = append(parts, p.Name+"="+v)
	}
	return strings.Join(parts, " ")
}
