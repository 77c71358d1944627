package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/evload/app"
	"github.com/kilianp07/evload/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the schedule HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()
		tweak := func(cfg *config.Config) error {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = serveAddr
			}
			return nil
		}
		return withService(tweak, func(svc *app.Service) error { return svc.Serve(ctx) })
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address override")
	rootCmd.AddCommand(serveCmd)
}
