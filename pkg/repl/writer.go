/*
 * Copyright (c) 2023, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Printable is anything the shell can print as a table.
type Printable interface {
	Headers() []string
	Values() [][]string
}

// Result is a plain table of strings.
type Result struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func (r Result) Headers() []string  { return r.Columns }
func (r Result) Values() [][]string { return r.Rows }

// Message is a one-line status report.
type Message string

func (m Message) Headers() []string  { return []string{"message"} }
func (m Message) Values() [][]string { return [][]string{{string(m)}} }

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message string `json:"message"`
	}{string(m)})
}

type OutputWriter interface {
	Write(v Printable) error
}

type CSVWriter struct {
	w io.Writer
}

type TextWriter struct {
	w io.Writer
}

type JSONWriter struct {
	w io.Writer
}

// OutputFormats lists the values accepted by NewOutputWriter.
func OutputFormats() []string {
	return []string{"text", "csv", "json"}
}

func NewOutputWriter(w io.Writer, t string) OutputWriter {
	switch t {
	case "csv":
		return CSVWriter{
			w,
		}
	case "json":
		return JSONWriter{
			w,
		}
	}
	return TextWriter{
		w,
	}
}

func (w CSVWriter) Write(v Printable) error {
	wtr := csv.NewWriter(w.w)
	if err := wtr.Write(v.Headers()); err != nil {
		return err
	}
	return wtr.WriteAll(v.Values())
}

func (w TextWriter) Write(v Printable) error {
	if m, ok := v.(Message); ok {
		_, err := io.WriteString(w.w, string(m)+"\n")
		return err
	}

	table := tablewriter.NewWriter(w.w)
	table.Header(v.Headers())
	if err := table.Bulk(v.Values()); err != nil {
		return err
	}
	return table.Render()
}

func (w JSONWriter) Write(v Printable) error {
	enc := json.NewEncoder(w.w)
	return enc.Encode(v)
}
