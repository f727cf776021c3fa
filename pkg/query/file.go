/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Decode reads a YAML (or JSON) request document.
func Decode(r io.Reader) (Request, error) {
	var req Request

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return req, errors.Wrap(err, "decoding request")
	}

	return req, nil
}

// LoadFile reads a request document from path.
func LoadFile(path string) (Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return Request{}, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	req, err := Decode(f)
	if err != nil {
		return req, errors.Wrapf(err, "reading %s", path)
	}
	return req, nil
}
