/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dburkart/wizard/cmd/wizard/common"
	"github.com/dburkart/wizard/pkg/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var Command = &cobra.Command{
	Use:   "serve",
	Short: "Dashboard for uploading, filtering and charting data",

	Run: func(cmd *cobra.Command, args []string) {
		logger := common.Logger()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(logger, common.OpenStore(ctx), server.Config{
			Port:        viper.GetInt("wizard.port"),
			MetricsPort: viper.GetInt("wizard.prom-port"),
			PlotsDir:    common.PlotsDir(),
			PageSize:    common.PageSize(),
		})

		g, ctx := errgroup.WithContext(ctx)

		// Serve the dashboard
		g.Go(func() error { return srv.ListenAndServe(ctx) })

		// Serve the metrics endpoint
		g.Go(func() error { return srv.ServeMetrics(ctx) })

		if err := g.Wait(); err != nil {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	},
}

func init() {
	// Flags for this command
	Command.Flags().IntP("port", "p", server.DefaultPort, "Dashboard port")
	Command.Flags().Int("prom-port", server.DefaultMetricsPort, "Set the port for /metrics")

	// Bind flags to viper
	viper.BindPFlag("wizard.port", Command.Flags().Lookup("port"))
	viper.BindPFlag("wizard.prom-port", Command.Flags().Lookup("prom-port"))
}
