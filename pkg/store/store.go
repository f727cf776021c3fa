/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package store keeps uploaded data files. Files are only ever added or
// replaced, never removed.
package store

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

var (
	ErrNotFound       = errors.New("file not found")
	ErrInvalidName    = errors.New("invalid file name")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Info describes one stored file.
type Info struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// HumanSize is the size formatted for display, e.g. "1.2 kB".
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

type Store interface {
	// Put stores the contents of r under the base name of name and
	// returns the name it was stored as.
	Put(ctx context.Context, name string, r io.Reader) (string, error)

	// Get opens a stored file. It returns ErrNotFound when there is no
	// such file.
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// List returns every stored file, sorted by name.
	List(ctx context.Context) ([]Info, error)
}

// CleanName reduces name to its base name so uploads cannot escape the
// store.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	base := path.Base(path.Clean("/" + name))
	if base == "/" || base == "." || base == ".." || strings.HasPrefix(base, ".") {
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return base, nil
}

func sortInfos(infos []Info) {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
}

// Load reads a stored file into a dataset. Files of an unsupported type
// yield an empty dataset without being fetched.
func Load(ctx context.Context, s Store, name string) (*dataset.Dataset, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	if dataset.FormatOf(name) == dataset.FormatUnknown {
		return dataset.Empty(), nil
	}

	r, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return dataset.Read(name, r)
}

// Config selects and configures a backend.
type Config struct {
	Backend   string
	Directory string
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// New opens the backend named by cfg.Backend: "local" (the default) or
// "s3".
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "local":
		return NewLocal(cfg.Directory)
	case "s3":
		return NewS3(ctx, cfg)
	}
	return nil, errors.Wrapf(ErrUnknownBackend, "%q", cfg.Backend)
}
