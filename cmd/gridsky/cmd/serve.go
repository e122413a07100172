package cmd

import (
	"log/slog"

	"github.com/nfrund/gridsky/internal/app"
	"github.com/nfrund/gridsky/internal/config"
	"github.com/nfrund/gridsky/internal/logging"
	"github.com/nfrund/gridsky/internal/server"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		logging.New()

		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		injector := app.New(cfg, app.BuildInfo{Version: version})
		s, err := do.Invoke[*server.Server](injector)
		if err != nil {
			slog.Error("Failed to initialize server", "error", err)
			return err
		}
		return s.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides APP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
