/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package wizard

import (
	"fmt"
	"os"
	"strings"

	"github.com/dburkart/wizard/cmd/wizard/render"
	"github.com/dburkart/wizard/cmd/wizard/serve"
	"github.com/dburkart/wizard/cmd/wizard/shell"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version        = "develop"
	CommitHash     = "n/a"
	BuildTimestamp = "n/a"

	rootCmd = &cobra.Command{
		Use:   "wizard",
		Short: "Wizard explores tabular data and charts it",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging()
			initLogLevel()
			initEnv(cmd.Root().PersistentFlags().Lookup("env").Value.String())
			initConfig(cmd.Root().PersistentFlags().Lookup("config").Value.String())
			initLogLevel()
			traceConfig()
		},
		Version: Version,
	}
)

func init() {
	// Configure the root binary options
	rootCmd.PersistentFlags().CountP("verbose", "v", "-v for debug logs (-vv for trace)")
	rootCmd.PersistentFlags().Bool("local", true, "Configures the logger to print readable logs")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the wizard config file (default ./config.toml)")
	rootCmd.PersistentFlags().String("env", ".env", "Path to a dotenv file to load, if present")
	rootCmd.PersistentFlags().String("storage", "local", "Upload storage backend [local, s3]")
	rootCmd.PersistentFlags().StringP("directory", "d", "dataframes", "Directory holding uploaded files")
	rootCmd.PersistentFlags().String("plots", "data/plots", "Directory saved charts are written to")

	// Bind viper config to the root flags
	viper.BindPFlag("wizard.local", rootCmd.PersistentFlags().Lookup("local"))
	viper.BindPFlag("wizard.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("storage"))
	viper.BindPFlag("storage.directory", rootCmd.PersistentFlags().Lookup("directory"))
	viper.BindPFlag("plots.directory", rootCmd.PersistentFlags().Lookup("plots"))

	rootCmd.SetVersionTemplate(fmt.Sprintf("wizard version: %s git_commit: %s build_time: %s\n", Version, CommitHash, BuildTimestamp))

	// Bind viper keys to ENV variables, e.g. WIZARD_STORAGE_BUCKET
	viper.SetEnvPrefix("WIZARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Register commands on the root binary command
	serve.Command.Version = rootCmd.Version
	render.Command.Version = rootCmd.Version
	shell.Command.Version = rootCmd.Version
	rootCmd.AddCommand(serve.Command)
	rootCmd.AddCommand(render.Command)
	rootCmd.AddCommand(shell.Command)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("root command failed")
		os.Exit(1)
	}
}
