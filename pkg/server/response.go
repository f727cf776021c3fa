/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"encoding/json"
	"net/http"

	"github.com/dburkart/wizard/pkg/chart"
	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/dburkart/wizard/pkg/filter"
	"github.com/dburkart/wizard/pkg/group"
	"github.com/dburkart/wizard/pkg/store"
	"github.com/pkg/errors"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Option is one entry of a dropdown.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Size  string `json:"size,omitempty"`
}

type FilesResponse []Option

type UploadFile struct {
	Filename string `json:"filename"`
	Contents string `json:"contents"`
}

type UploadRequest struct {
	Files []UploadFile `json:"files"`
}

type ColumnWidgets struct {
	Column  string              `json:"column"`
	Kind    string              `json:"kind"`
	Widgets []filter.WidgetType `json:"widgets"`
}

type QueryRequest struct {
	Filters []filter.Spec `json:"filters"`
	Page    int           `json:"page"`
	Size    int           `json:"size"`
}

type FigureResponse struct {
	SVG         string `json:"svg"`
	SaveVisible bool   `json:"save_visible"`
	Title       string `json:"title,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

type SaveResponse struct {
	Path  string `json:"path"`
	Alert string `json:"alert"`
}

func FilesResponseOf(infos []store.Info) FilesResponse {
	resp := FilesResponse{}
	for _, i := range infos {
		resp = append(resp, Option{Label: i.Name, Value: i.Name, Size: i.HumanSize()})
	}
	return resp
}

func WidgetsResponse(ds *dataset.Dataset) []ColumnWidgets {
	resp := []ColumnWidgets{}
	for _, c := range ds.Columns() {
		resp = append(resp, ColumnWidgets{
			Column:  c.Name,
			Kind:    c.Kind.String(),
			Widgets: filter.WidgetTypes(),
		})
	}
	return resp
}

func FigureResponseOf(fig *chart.Figure) FigureResponse {
	if fig.Empty() {
		return FigureResponse{}
	}
	return FigureResponse{
		SVG:         string(fig.SVG),
		SaveVisible: true,
		Title:       fig.Title(),
		Width:       fig.Size.Width,
		Height:      fig.Size.Height,
	}
}

func SaveResponseOf(path string) SaveResponse {
	return SaveResponse{Path: path, Alert: "Plot is saved in " + path + " successfully!"}
}

// statusOf maps an error to the HTTP status reported for it.
func statusOf(err error) int {
	badRequest := []error{
		dataset.ErrUnknownColumn,
		dataset.ErrUnknownTimeFormat,
		filter.ErrUnknownKind,
		filter.ErrInvalidBound,
		filter.ErrNotNumeric,
		filter.ErrUnknownWidget,
		group.ErrUnknownFunc,
		chart.ErrUnknownKind,
		chart.ErrEmptyFigure,
		store.ErrInvalidName,
		store.ErrBadDataURL,
		errBadRequest,
	}

	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	for _, e := range badRequest {
		if errors.Is(err, e) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

var errBadRequest = errors.New("bad request")

func writeError(w http.ResponseWriter, code int, message string, requestID string) {
	writeJSON(w, code, ErrorResponse{Error: message, RequestID: requestID})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(errBadRequest, "invalid request body: %v", err)
	}
	return nil
}
