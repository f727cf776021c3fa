/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package store

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

var ErrBadDataURL = errors.New("malformed data url")

// DecodeDataURL decodes contents of the form
// "data:<mime>;base64,<payload>", as sent by browser upload widgets.
// Payloads without the base64 marker are percent-decoded.
func DecodeDataURL(contents string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(contents, "data:")
	if !ok {
		return nil, "", errors.Wrap(ErrBadDataURL, "missing data: prefix")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errors.Wrap(ErrBadDataURL, "missing payload")
	}

	params := strings.Split(meta, ";")
	mime := params[0]
	if mime == "" {
		mime = "text/plain"
	}

	encoded := false
	for _, p := range params[1:] {
		if p == "base64" {
			encoded = true
		}
	}

	if !encoded {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", errors.Wrap(ErrBadDataURL, err.Error())
		}
		return []byte(s), mime, nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, "", errors.Wrap(ErrBadDataURL, err.Error())
		}
	}
	return data, mime, nil
}
