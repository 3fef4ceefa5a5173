package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geotrig/pkg/history"
)

// historyCommand creates the history command. Records only outlive a process
// with the mongo history backend.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := history.New(ctx, c.Config.HistoryConfig())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close(ctx)

			records, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No calculations recorded")
				if c.Config.History.Backend != history.BackendMongo {
					printDetail("History is kept in memory; configure history.backend = \"mongo\" to keep it")
				}
				return nil
			}
			fmt.Println(historyTable(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "number of records")

	return cmd
}

func historyTable(records []history.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		result := strings.Join(r.Result, "; ")
		if r.Error != "" {
			result = r.Error
		}
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Module,
			r.Operation,
			result,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Time", "Module", "Operation", "Result").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return tableHeaderStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
