/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package common holds the configuration shared by the wizard commands.
package common

import (
	"context"
	"path/filepath"

	"github.com/dburkart/wizard/pkg/store"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func Logger() zerolog.Logger {
	return viper.Get("logger").(zerolog.Logger)
}

func StoreConfig() store.Config {
	return store.Config{
		Backend:   viper.GetString("storage.backend"),
		Directory: filepath.Clean(viper.GetString("storage.directory")),
		Bucket:    viper.GetString("storage.bucket"),
		Prefix:    viper.GetString("storage.prefix"),
		Region:    viper.GetString("storage.region"),
		Endpoint:  viper.GetString("storage.endpoint"),
		PathStyle: viper.GetBool("storage.path-style"),
	}
}

// OpenStore opens the configured upload store, exiting on failure.
func OpenStore(ctx context.Context) store.Store {
	log := Logger()
	cfg := StoreConfig()

	st, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("unable to open upload store")
	}
	log.Debug().Str("backend", cfg.Backend).Str("directory", cfg.Directory).Str("bucket", cfg.Bucket).Msg("opened upload store")

	return st
}

func PlotsDir() string {
	return filepath.Clean(viper.GetString("plots.directory"))
}

func PageSize() int {
	return viper.GetInt("table.page-size")
}
