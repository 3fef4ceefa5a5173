package cli

import (
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geotrig/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		backend   string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator page",
		Long: `Serve the calculator page and its JSON API.

The page is opened in the default browser once the server is listening,
unless --no-browser is given or server.open_browser is false.`,
		Example: `  geotrig serve
  geotrig serve --addr :8080 --no-browser --cache redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := c.Config

			if addr == "" {
				addr = cfg.Server.Addr
			}
			openBrowser := cfg.Server.OpenBrowser && !noBrowser

			runner, err := c.newRunner(ctx, backend)
			if err != nil {
				return err
			}
			defer c.closeRunner(ctx, runner)

			srv, err := server.New(runner, server.Config{
				Addr:            addr,
				ReadTimeout:     cfg.Server.ReadTimeout.Std(),
				WriteTimeout:    cfg.Server.WriteTimeout.Std(),
				ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
				Diagram:         c.diagramOptions(),
				OnListen: func(url string) {
					printSuccess("Serving %s", StyleLink.Render(url))
					printDetail("Press Ctrl+C to stop")
					if !openBrowser {
						return
					}
					if err := browser.OpenURL(url); err != nil {
						logger.Warn("could not open browser", "url", url, "error", err)
					}
				},
			}, logger)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:5000)")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: memory, file, redis or none")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open the page in a browser")

	return cmd
}
