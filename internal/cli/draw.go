package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geotrig/pkg/diagram"
	"github.com/matzehuels/geotrig/pkg/explain"
	"github.com/matzehuels/geotrig/pkg/trig"
)

// drawCommand creates the draw command.
func (c *CLI) drawCommand() *cobra.Command {
	var (
		a, b, sc float64
		formats  string
		output   string
		title    string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw a triangle from its three sides",
		Long: `Draw the triangle with sides a, b and c to one file per format.

Vertex A sits at the origin and side c lies along the x axis.`,
		Example: `  geotrig draw
  geotrig draw -a 5 -b 6 -c 7 --format svg,pdf -o triangle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			fs := parseFormats(formats, c.Config.Diagram.Format)
			if err := validateFormats(fs); err != nil {
				return err
			}

			t, err := trig.Solve(a, b, sc)
			if err != nil {
				return err
			}
			layout := diagram.New(trig.Solution{Triangle: t, Title: title})

			runner, err := c.newRunner(ctx, c.oneShotBackend(noCache))
			if err != nil {
				return err
			}
			defer c.closeRunner(ctx, runner)

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}

			prog := newProgress(logger)
			for _, f := range fs {
				opts := c.diagramOptions()
				opts.Format = f

				spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", f))
				spinner.Start()
				out, hit, err := runner.RenderWithCacheInfo(ctx, []diagram.Layout{layout}, opts)
				spinner.Stop()
				if err != nil {
					return fmt.Errorf("render %s: %w", f, err)
				}

				path := output + diagram.Extension(f)
				if err := os.WriteFile(path, out[0], 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				logger.Debug("wrote diagram", "path", path, "cached", hit)
				printFile(path)
			}
			prog.done(fmt.Sprintf("Rendered %d file(s)", len(fs)))

			printKeyValue("Angle A", explain.Number(t.AngleA)+"°")
			printKeyValue("Angle B", explain.Number(t.AngleB)+"°")
			printKeyValue("Angle C", explain.Number(t.AngleC)+"°")
			return nil
		},
	}

	cmd.Flags().Float64VarP(&a, "a", "a", 3, "side a, opposite vertex A")
	cmd.Flags().Float64VarP(&b, "b", "b", 4, "side b, opposite vertex B")
	cmd.Flags().Float64VarP(&sc, "c", "c", 5, "side c, opposite vertex C")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "comma-separated formats: png, svg, pdf, dot, json")
	cmd.Flags().StringVarP(&output, "output", "o", "triangle", "output path without extension")
	cmd.Flags().StringVar(&title, "title", trig.DefaultTitle, "diagram title")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
