/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"bytes"
	_ "embed"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/dburkart/wizard/pkg/chart"
	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/dburkart/wizard/pkg/filter"
	"github.com/dburkart/wizard/pkg/query"
	"github.com/dburkart/wizard/pkg/store"
	"github.com/pkg/errors"
)

//go:embed static/index.html
var indexPage []byte

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	id := RequestID(r.Context())
	if code >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("request_id", id).Msg("request failed")
	}
	writeError(w, code, err.Error(), id)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FilesResponseOf(infos))
}

// handleUpload accepts either a JSON body of data URLs or a multipart form
// with one or more "files" parts. It answers with the new listing.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	if mediaType == "multipart/form-data" {
		err = s.uploadMultipart(w, r)
	} else {
		err = s.uploadDataURLs(w, r)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.handleListFiles(w, r)
}

func (s *Server) uploadDataURLs(w http.ResponseWriter, r *http.Request) error {
	var req UploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	for _, f := range req.Files {
		data, _, err := store.DecodeDataURL(f.Contents)
		if err != nil {
			return errors.Wrapf(err, "decoding %s", f.Filename)
		}
		if err := s.put(r, f.Filename, bytes.NewReader(data)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) uploadMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return errors.Wrapf(errBadRequest, "invalid upload: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return errors.Wrapf(err, "opening %s", fh.Filename)
		}
		err = s.put(r, fh.Filename, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) put(r *http.Request, name string, body io.Reader) error {
	stored, err := s.store.Put(r.Context(), name, body)
	if err != nil {
		return err
	}
	s.metrics.IncUploads()
	s.log.Info().Str("request_id", RequestID(r.Context())).Str("file", stored).Msg("stored upload")
	return nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, err := store.CleanName(r.PathValue("name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer body.Close()

	ctype := mime.TypeByExtension(filepath.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))

	if _, err := io.Copy(w, body); err != nil {
		s.log.Warn().Err(err).Str("file", name).Msg("download interrupted")
	}
}

func (s *Server) load(r *http.Request) (*dataset.Dataset, error) {
	return store.Load(r.Context(), s.store, r.PathValue("name"))
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "%s: %q is not a number", name, raw)
	}
	return v, nil
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	size, err := intParam(r, "size", s.pageSize)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ds, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, query.Tabulate(ds, page, size))
}

func (s *Server) handleWidgets(w http.ResponseWriter, r *http.Request) {
	ds, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WidgetsResponse(ds))
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	t, err := filter.ParseWidgetType(r.URL.Query().Get("widget"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ds, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	widget, err := filter.Describe(ds, r.PathValue("column"), t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if widget.Warning != "" {
		s.log.Warn().Str("request_id", RequestID(r.Context())).Msg(widget.Warning)
	}
	writeJSON(w, http.StatusOK, widget)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	req := QueryRequest{Size: s.pageSize}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ds, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	table, err := query.Filtered(ds, req.Filters, req.Page, req.Size)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) figure(w http.ResponseWriter, r *http.Request) (*chart.Figure, error) {
	var req query.Request
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}

	ds, err := s.load(r)
	if err != nil {
		return nil, err
	}

	fig, err := query.Execute(ds, req)
	if err != nil {
		return nil, err
	}
	if !fig.Empty() {
		s.metrics.IncFigures(string(fig.Request.Kind))
	}
	return fig, nil
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	fig, err := s.figure(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FigureResponseOf(fig))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	fig, err := s.figure(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	path, err := chart.Save(s.plotsDir, fig)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Info().Str("request_id", RequestID(r.Context())).Str("path", path).Msg("saved figure")
	writeJSON(w, http.StatusOK, SaveResponseOf(path))
}
