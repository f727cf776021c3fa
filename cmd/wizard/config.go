/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package wizard

import (
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func initEnv(envFile string) {
	log := viper.Get("logger").(zerolog.Logger)

	if envFile == "" {
		return
	}

	// Variables already set in the environment win over the file
	err := godotenv.Load(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Trace().Str("file", envFile).Msg("no env file found")
	} else if err != nil {
		log.Error().Err(err).Str("file", envFile).Msg("error loading env file")
	} else {
		log.Debug().Str("file", envFile).Msg("loaded env file")
	}
}

func initConfig(configFile string) {
	log := viper.Get("logger").(zerolog.Logger)

	viper.SetDefault("wizard.port", 8050)
	viper.SetDefault("wizard.prom-port", 2112)
	viper.SetDefault("wizard.output", "text")
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.directory", "dataframes")
	viper.SetDefault("plots.directory", "data/plots")
	viper.SetDefault("table.page-size", 10)

	// config Read
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath("/etc/wizard")
	viper.AddConfigPath("/usr/local/etc/wizard")
	viper.AddConfigPath("$HOME/.wizard")
	viper.AddConfigPath(".")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	}

	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Debug().Msg("No config file found, using defaults as a base")
	} else if err != nil {
		log.Error().Err(err).Msg("Error loading config file")
	}

	log.Debug().Str("file", viper.ConfigFileUsed()).Msg("loaded config from file")
}

func initLogLevel() {
	level := viper.GetInt("wizard.verbose")
	switch clamp(2, level) {
	case 2:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func initLogging() {
	var writer io.Writer

	writer = os.Stderr
	if viper.GetBool("wizard.local") {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()

	viper.Set("logger", logger)
}

func traceConfig() {
	log := viper.Get("logger").(zerolog.Logger)

	for _, v := range viper.AllKeys() {
		if v == "logger" {
			continue
		}
		log.Trace().Msgf("%s=%v", v, viper.Get(v))
	}
}

func clamp(clamp, a int) int {
	if a >= clamp {
		return clamp
	}
	return a
}
