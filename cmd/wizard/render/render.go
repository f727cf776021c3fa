/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package render

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dburkart/wizard/cmd/wizard/common"
	"github.com/dburkart/wizard/pkg/chart"
	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/dburkart/wizard/pkg/query"
	"github.com/dburkart/wizard/pkg/watch"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "render",
	Short: "Render a chart from a data file and a chart file",
	Example: `  wizard render --data sales.csv --chart chart.yaml --out plots/
  wizard render --data sales.csv --chart chart.yaml --watch`,

	Run: func(cmd *cobra.Command, args []string) {
		log := common.Logger()

		data := viper.GetString("render.data")
		chartFile := viper.GetString("render.chart")
		if data == "" || chartFile == "" {
			log.Fatal().Msg("both --data and --chart are required")
		}

		out := viper.GetString("render.out")
		if out == "" {
			out = common.PlotsDir()
		}

		job := func(ctx context.Context) error {
			return Render(log, data, chartFile, out)
		}

		if !viper.GetBool("render.watch") {
			if err := job(cmd.Context()); err != nil {
				log.Fatal().Err(err).Msg("render failed")
			}
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := watch.Run(ctx, watch.Options{
			Files:    []string{data, chartFile},
			Debounce: viper.GetDuration("render.debounce"),
			Log:      log,
		}, job)
		if err != nil {
			log.Fatal().Err(err).Msg("watch failed")
		}
	},
}

// Render draws the chart described by chartFile from the data in
// dataFile and saves it into dir.
func Render(log zerolog.Logger, dataFile, chartFile, dir string) error {
	ds, err := dataset.Load(dataFile)
	if err != nil {
		return errors.Wrapf(err, "loading %s", dataFile)
	}

	req, err := query.LoadFile(chartFile)
	if err != nil {
		return err
	}

	fig, err := query.Execute(ds, req)
	if err != nil {
		return err
	}

	path, err := chart.Save(dir, fig)
	if err != nil {
		return err
	}

	log.Info().Str("path", path).Int("rows", ds.NumRows()).Msg("saved chart")
	return nil
}

func init() {
	// Flags for this command
	Command.Flags().String("data", "", "CSV or feather file to chart")
	Command.Flags().String("chart", "", "YAML file holding the filters and chart to draw")
	Command.Flags().StringP("out", "o", "", "Directory to save the chart into (default plots.directory)")
	Command.Flags().BoolP("watch", "w", false, "Re-render whenever the data or chart file changes")
	Command.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before re-rendering in watch mode")

	// Bind flags to viper
	viper.BindPFlag("render.data", Command.Flags().Lookup("data"))
	viper.BindPFlag("render.chart", Command.Flags().Lookup("chart"))
	viper.BindPFlag("render.out", Command.Flags().Lookup("out"))
	viper.BindPFlag("render.watch", Command.Flags().Lookup("watch"))
	viper.BindPFlag("render.debounce", Command.Flags().Lookup("debounce"))
}
