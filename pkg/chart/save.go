/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrEmptyFigure = errors.New("nothing to save")

var page = template.Must(template.New("figure").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>body { margin: 20px; font-family: sans-serif; }</style>
</head>
<body>
<div style="width: {{.Size.Width}}px; height: {{.Size.Height}}px">{{.SVG}}</div>
</body>
</html>
`))

// Title describes the figure in the form used for saved file names.
func (f *Figure) Title() string {
	r := f.Request

	keys := make([]string, len(r.GroupBy))
	for i, k := range r.GroupBy {
		keys[i] = "'" + k + "'"
	}
	fn := string(r.Func)
	if fn == "" {
		fn = "None"
	}

	return fmt.Sprintf("%s -%s by %s grouped- [%s] func- %s",
		r.Kind, r.X, r.Y, strings.Join(keys, ", "), fn)
}

// FileName is the figure title made safe to use as a single path element.
func (f *Figure) FileName() string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, f.Title())

	return clean + ".html"
}

// HTML renders the figure as a standalone page.
func (f *Figure) HTML() ([]byte, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Title string
		Size  Size
		SVG   template.HTML
	}{f.Title(), f.Size, template.HTML(f.SVG)})
	if err != nil {
		return nil, errors.Wrap(err, "rendering page")
	}
	return buf.Bytes(), nil
}

// Save writes the figure into dir and returns the path of the new file.
// The directory is created when missing.
func Save(dir string, f *Figure) (string, error) {
	if f == nil || f.Empty() {
		return "", ErrEmptyFigure
	}

	data, err := f.HTML()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}

	path := filepath.Join(dir, f.FileName())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}

	return path, nil
}
