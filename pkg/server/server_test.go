/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dburkart/wizard/pkg/server"
	"github.com/dburkart/wizard/pkg/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `region,month,revenue,units,channel
East,2021-01-01,100,4,web
West,2021-01-01,80,3,store
North,2021-01-01,50,2,web
East,2021-02-01,120,5,store
West,2021-02-01,90,3,web
South,2021-02-01,,1,store
`

type fixture struct {
	srv   *server.Server
	http  *httptest.Server
	plots string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	st, err := store.NewLocal(filepath.Join(dir, "dataframes"))
	require.NoError(t, err)

	plots := filepath.Join(dir, "plots")
	srv := server.New(zerolog.Nop(), st, server.Config{PlotsDir: plots})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &fixture{srv: srv, http: ts, plots: plots}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, f.http.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.http.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (f *fixture) upload(t *testing.T, name, contents string) {
	t.Helper()
	url := "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte(contents))
	resp, _ := f.do(t, http.MethodPost, "/api/files", server.UploadRequest{
		Files: []server.UploadFile{{Filename: name, Contents: url}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestIndex(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "<title>wizard</title>")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, _ = f.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFiles(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/files", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	url := "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte(salesCSV))
	resp, body = f.do(t, http.MethodPost, "/api/files", server.UploadRequest{
		Files: []server.UploadFile{
			{Filename: "../sales.csv", Contents: url},
			{Filename: "notes.txt", Contents: "data:,hello"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listing := decode[server.FilesResponse](t, body)
	require.Len(t, listing, 2)
	assert.Equal(t, "notes.txt", listing[0].Value)
	assert.Equal(t, "sales.csv", listing[1].Label)
	assert.Equal(t, "sales.csv", listing[1].Value)

	resp, body = f.do(t, http.MethodGet, "/download/sales.csv", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, salesCSV, string(body))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `attachment; filename=sales.csv`)

	resp, body = f.do(t, http.MethodGet, "/download/missing.csv", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	e := decode[server.ErrorResponse](t, body)
	assert.NotEmpty(t, e.RequestID)
	assert.Equal(t, resp.Header.Get("X-Request-ID"), e.RequestID)
}

func TestUploadErrors(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodPost, "/api/files", server.UploadRequest{
		Files: []server.UploadFile{{Filename: "a.csv", Contents: "not a data url"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, f.http.URL+"/api/files", strings.NewReader("{"))
	require.NoError(t, err)
	raw, err := f.http.Client().Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestUploadMultipart(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(salesCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := f.http.Client().Post(f.http.URL+"/api/files", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, _ := io.ReadAll(resp.Body)
	listing := decode[server.FilesResponse](t, data)
	require.Len(t, listing, 1)
	assert.Equal(t, "sales.csv", listing[0].Value)
}

type table struct {
	Columns      []string         `json:"columns"`
	Data         []map[string]any `json:"data"`
	Rows         int              `json:"rows"`
	Visible      bool             `json:"visible"`
	AxisOptions  []string         `json:"axis_options"`
	GroupOptions []string         `json:"group_options"`
}

func TestDatasets(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "sales.csv", salesCSV)
	f.upload(t, "notes.txt", "hello")

	resp, body := f.do(t, http.MethodGet, "/api/datasets/sales.csv?page=1&size=4", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tbl := decode[table](t, body)
	assert.True(t, tbl.Visible)
	assert.Equal(t, 6, tbl.Rows)
	require.Len(t, tbl.Data, 2)
	assert.Equal(t, "West", tbl.Data[0]["region"])

	resp, body = f.do(t, http.MethodGet, "/api/datasets/notes.txt", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tbl = decode[table](t, body)
	assert.False(t, tbl.Visible)
	assert.Empty(t, tbl.Columns)
	assert.Empty(t, tbl.Data)

	resp, body = f.do(t, http.MethodGet, "/api/datasets/sales.csv?page=922337203685477581&size=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tbl = decode[table](t, body)
	assert.Equal(t, 6, tbl.Rows)
	assert.Empty(t, tbl.Data)

	resp, _ = f.do(t, http.MethodGet, "/api/datasets/sales.csv?page=x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/datasets/other.csv", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWidgets(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "sales.csv", salesCSV)

	resp, body := f.do(t, http.MethodGet, "/api/datasets/sales.csv/widgets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cols := decode[[]server.ColumnWidgets](t, body)
	require.Len(t, cols, 5)
	assert.Equal(t, "region", cols[0].Column)
	assert.Len(t, cols[0].Widgets, 3)

	resp, body = f.do(t, http.MethodGet, "/api/datasets/sales.csv/widgets/units?widget=rangeslider", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	w := decode[map[string]any](t, body)
	assert.Equal(t, "range", w["kind"])
	assert.Equal(t, 1.0, w["min"])
	assert.Equal(t, 5.0, w["max"])

	resp, body = f.do(t, http.MethodGet, "/api/datasets/sales.csv/widgets/region?widget=dropdown", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	w = decode[map[string]any](t, body)
	assert.Len(t, w["options"], 4)

	resp, _ = f.do(t, http.MethodGet, "/api/datasets/sales.csv/widgets/region?widget=rangeslider", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/datasets/sales.csv/widgets/region?widget=knob", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuery(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "sales.csv", salesCSV)

	resp, body := f.do(t, http.MethodPost, "/api/datasets/sales.csv/query", map[string]any{
		"filters": []map[string]any{{"column": "region", "kind": "set", "values": []string{"East", "West"}}},
		"size":    10,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tbl := decode[table](t, body)
	assert.Equal(t, 4, tbl.Rows)
	assert.Len(t, tbl.Data, 4)
	// Two regions in four rows is not fewer than half the rows.
	assert.Empty(t, tbl.GroupOptions)

	resp, body = f.do(t, http.MethodPost, "/api/datasets/sales.csv/query", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tbl = decode[table](t, body)
	assert.Equal(t, 6, tbl.Rows)
	assert.Equal(t, []string{"month", "channel"}, tbl.GroupOptions)

	resp, _ = f.do(t, http.MethodPost, "/api/datasets/sales.csv/query", map[string]any{
		"filters": []map[string]any{{"column": "profit", "kind": "set", "values": []string{"x"}}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFigure(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "sales.csv", salesCSV)

	req := map[string]any{
		"filters": []map[string]any{{"column": "region", "kind": "set", "values": []string{"East", "West"}}},
		"chart":   map[string]any{"kind": "bar", "x": "region", "y": "revenue", "group_by": []string{"region"}, "func": "sum"},
	}

	resp, body := f.do(t, http.MethodPost, "/api/datasets/sales.csv/figure", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fig := decode[server.FigureResponse](t, body)
	assert.True(t, fig.SaveVisible)
	assert.Contains(t, fig.SVG, "<svg")
	assert.Equal(t, 500, fig.Height)

	resp, body = f.do(t, http.MethodPost, "/api/datasets/sales.csv/figure", map[string]any{
		"chart": map[string]any{"kind": "bar", "x": "region"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fig = decode[server.FigureResponse](t, body)
	assert.False(t, fig.SaveVisible)
	assert.Empty(t, fig.SVG)

	resp, _ = f.do(t, http.MethodPost, "/api/datasets/sales.csv/figure", map[string]any{
		"chart": map[string]any{"kind": "sunburst", "x": "region", "y": "revenue"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = f.do(t, http.MethodPost, "/api/datasets/sales.csv/figure/save", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	saved := decode[server.SaveResponse](t, body)
	assert.Equal(t, filepath.Join(f.plots, "bar -region by revenue grouped- ['region'] func- sum.html"), saved.Path)
	assert.Equal(t, "Plot is saved in "+saved.Path+" successfully!", saved.Alert)

	_, err := os.Stat(saved.Path)
	assert.NoError(t, err)

	resp, _ = f.do(t, http.MethodPost, "/api/datasets/sales.csv/figure/save", map[string]any{"chart": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "sales.csv", salesCSV)
	f.do(t, http.MethodGet, "/api/files", nil)

	rec := httptest.NewRecorder()
	f.srv.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	out := rec.Body.String()
	assert.Contains(t, out, `wizard_http_requests{code="200",route="GET /api/files"} 1`)
	assert.Contains(t, out, `wizard_uploads 1`)
	assert.Contains(t, out, `wizard_store_files 1`)
}
