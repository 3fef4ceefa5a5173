package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geotrig/pkg/calc"
	"github.com/matzehuels/geotrig/pkg/diagram"
)

var (
	errNoOperation = errors.New("operation required (see `geotrig ops`)")
	errNoSelection = errors.New("no operation selected")
)

// calcCommand creates the calc command.
func (c *CLI) calcCommand() *cobra.Command {
	var (
		params    []string
		format    string
		output    string
		noDiagram bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "calc [operation]",
		Short: "Run one calculation",
		Long: `Run one geometry or trigonometry operation and print its result and steps.

Parameters are given as key=value pairs; unset parameters take their
defaults (see "geotrig ops"). Triangle diagrams are written next to --output.
Without an operation, an interactive picker opens when running in a terminal.`,
		Example: `  geotrig calc rotate -p px=2 -p py=3 -p angle=90
  geotrig calc law_of_cosines -p find=angle -p a=3 -p b=4 -p c=5
  geotrig calc ambiguous_case --format svg -o ssa`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeOperations,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			op, err := resolveOperation(args)
			if err != nil {
				return err
			}
			raw, err := parseParams(params)
			if err != nil {
				return err
			}

			opts := c.diagramOptions()
			if format != "" {
				opts.Format = format
			}
			if noDiagram {
				opts.SkipDiagrams = true
			}

			runner, err := c.newRunner(ctx, c.oneShotBackend(noCache))
			if err != nil {
				return err
			}
			defer c.closeRunner(ctx, runner)

			start := time.Now()
			res, err := runner.Execute(ctx, calc.Request{Module: op.Module, Operation: op.Name, Params: raw}, opts)
			if err != nil {
				return fmt.Errorf("%s: %s", op.Name, calc.ErrorResponse(err).Error)
			}
			newProgress(logger).done("Computed " + op.Name)

			printResponse(res.Response)
			fmt.Println()
			printStats(res, time.Since(start))

			paths, err := writeArtifacts(output, op.Name, opts.Format, res.Response)
			if err != nil {
				return err
			}
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "diagram format: png, svg, pdf, dot or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "diagram output path without extension (default: operation name)")
	cmd.Flags().BoolVar(&noDiagram, "no-diagram", false, "skip triangle diagrams")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// resolveOperation returns the operation named by args, or lets the user
// pick one when stdin and stdout are terminals.
func resolveOperation(args []string) (*calc.Operation, error) {
	if len(args) == 1 {
		op, err := calc.Lookup("", args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %s", args[0], calc.ErrorResponse(err).Error)
		}
		return op, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil, errNoOperation
	}

	final, err := tea.NewProgram(newOperationListModel(calc.Operations())).Run()
	if err != nil {
		return nil, fmt.Errorf("operation picker: %w", err)
	}
	m, ok := final.(OperationListModel)
	if !ok || m.Selected == nil {
		return nil, errNoSelection
	}
	return m.Selected, nil
}

// parseParams splits key=value pairs. Later pairs override earlier ones.
func parseParams(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q: want key=value", pair)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// writeArtifacts writes the response's diagrams to base plus the format
// extension, numbering them when there is more than one.
func writeArtifacts(base, name, format string, resp calc.Response) ([]string, error) {
	artifacts, err := resp.Artifacts()
	if err != nil || len(artifacts) == 0 {
		return nil, err
	}
	if base == "" {
		base = name
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	paths := make([]string, 0, len(artifacts))
	for i, data := range artifacts {
		path := base + diagram.Extension(format)
		if len(artifacts) > 1 {
			path = fmt.Sprintf("%s-%d%s", base, i+1, diagram.Extension(format))
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// completeOperations completes operation names for the first argument.
func completeOperations(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, op := range calc.Operations() {
		if strings.HasPrefix(op.Name, toComplete) {
			names = append(names, op.Name+"\t"+op.Label)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
