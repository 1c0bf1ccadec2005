package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/tonetts/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve the conversion form and JSON API over HTTP",
	Long:    paragraph(fmt.Sprintf("\n%s a browser form and JSON API for tone conversion. Generated audio is written to the output directory and served from there.", keyword("Serve"))),
	Example: paragraph("tonetts serve\ntonetts serve --addr 127.0.0.1:9000 --prune-after 1h"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
			Prefix:          "tonetts",
		})
		if current.Debug {
			logger.SetLevel(log.DebugLevel)
		}

		conv, st, closer, err := newConverter(current, logger)
		if err != nil {
			return err
		}
		defer closer() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{
			Addr:       current.ServerAddr,
			PruneAfter: current.PruneAfter,
			Timeout:    current.Timeout * 2,
		}, conv, st, logger)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Duration("prune-after", 0, "remove generated audio older than this (0 keeps everything)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.prune_after", serveCmd.Flags().Lookup("prune-after"))
}
